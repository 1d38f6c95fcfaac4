package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sku-dashboard/internal/dataset"
)

// Sales exports write dates day-first ("31/01/2024 14:05").
var dayFirstLayouts = []string{
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var isoFirstLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"02-01-2006",
	"2 Jan 2006",
}

// Excel serial day numbers accepted as dates: 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// parseDates replaces each value of col with a time.Time, or nil when the
// value cannot be read as a date.
func parseDates(t *dataset.Table, col string, layouts []string) {
	for _, r := range t.Rows {
		r[col] = parseDate(r[col], layouts)
	}
}

func parseDate(v any, layouts []string) any {
	switch x := v.(type) {
	case time.Time:
		return x
	case float64:
		return fromSerial(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(f)
		}
	}
	return nil
}

func fromSerial(f float64) any {
	if f < minExcelSerial || f > maxExcelSerial {
		return nil
	}
	ts, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return nil
	}
	return ts
}
