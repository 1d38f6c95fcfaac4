package sku

import (
	"errors"
	"fmt"
	"strings"

	"sku-dashboard/internal/dataset"
)

// Legend spreadsheet columns.
const (
	ColCode    = "CODE"
	ColMeaning = "ARTI"
	ColType    = "JENIS"
)

var ErrMissingColumns = errors.New("sku master is missing required columns")

// Warning reports a legend row that was skipped because its JENIS label is
// not a known bucket.
type Warning struct {
	Row  int    `json:"row"`
	Code string `json:"code"`
	Type string `json:"type"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: type %q for code %q is not recognized", w.Row, w.Type, w.Code)
}

// LoadMaster builds a decoder from legend rows carrying CODE, ARTI and JENIS.
//
// Codes are stored uppercased and trimmed. Rows with an empty code are
// ignored; rows with an unknown JENIS are skipped and reported as warnings.
// Later rows overwrite earlier ones with the same code and bucket.
func LoadMaster(t dataset.Table) (Decoder, []Warning, error) {
	if missing := t.Missing(ColCode, ColMeaning, ColType); len(missing) > 0 {
		return Decoder{}, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	d := NewDecoder()
	var warnings []Warning
	for i, r := range t.Rows {
		code := strings.ToUpper(cellText(r[ColCode]))
		meaning := cellText(r[ColMeaning])
		label := strings.ToUpper(cellText(r[ColType]))
		if code == "" {
			continue
		}
		ct, ok := ParseCodeType(label)
		if !ok {
			if label != "" {
				warnings = append(warnings, Warning{Row: i, Code: code, Type: label})
			}
			continue
		}
		d.Set(ct, code, meaning)
	}
	return d, warnings, nil
}

func cellText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return strings.TrimSpace(fmt.Sprint(s))
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}
