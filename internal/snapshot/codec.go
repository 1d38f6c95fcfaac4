package snapshot

import (
	"math"
	"sort"
	"time"

	"sku-dashboard/internal/dataset"
)

// TimestampLayout is the text form of time values inside stored rows.
const TimestampLayout = time.RFC3339Nano

type manifest struct {
	Chunked          bool     `json:"chunked"`
	NumChunks        int      `json:"num_chunks"`
	NumRecords       int      `json:"num_records"`
	Generation       string   `json:"generation,omitempty"`
	Columns          []string `json:"columns,omitempty"`
	TimestampColumns []string `json:"timestamp_columns,omitempty"`

	// Data holds the rows of tables written before chunking existed.
	Data []map[string]any `json:"data,omitempty"`
}

type chunk struct {
	Index      int              `json:"index"`
	Generation string           `json:"generation"`
	Data       []map[string]any `json:"data"`
}

// encodeRows converts rows to JSON-safe maps: times become RFC 3339 text
// and NaN/Inf become null. It also reports which columns carried times.
func encodeRows(rows []dataset.Row) ([]map[string]any, []string) {
	out := make([]map[string]any, len(rows))
	timeCols := make(map[string]bool)
	for i, r := range rows {
		m := make(map[string]any, len(r))
		for k, v := range r {
			switch x := v.(type) {
			case time.Time:
				m[k] = x.UTC().Format(TimestampLayout)
				timeCols[k] = true
			case float64:
				if math.IsNaN(x) || math.IsInf(x, 0) {
					m[k] = nil
				} else {
					m[k] = x
				}
			default:
				m[k] = v
			}
		}
		out[i] = m
	}
	cols := make([]string, 0, len(timeCols))
	for c := range timeCols {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return out, cols
}

// decodeRows rebuilds rows, parsing the timestamp columns back to
// time.Time. Text that does not parse becomes nil.
func decodeRows(data []map[string]any, timeCols []string) []dataset.Row {
	rows := make([]dataset.Row, len(data))
	for i, m := range data {
		r := dataset.Row(m)
		if r == nil {
			r = dataset.Row{}
		}
		for _, c := range timeCols {
			s, ok := r[c].(string)
			if !ok {
				continue
			}
			ts, err := time.Parse(TimestampLayout, s)
			if err != nil {
				r[c] = nil
				continue
			}
			r[c] = ts
		}
		rows[i] = r
	}
	return rows
}

// columnsOf lists the keys seen across rows, sorted. Used when a stored
// table has no column list.
func columnsOf(rows []dataset.Row) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
