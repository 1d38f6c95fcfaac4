// Package finance turns locale-ambiguous money strings into numbers.
package finance

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sku-dashboard/internal/dataset"
)

// Normalize converts a raw cell value to float64.
//
// Strings written the Indonesian/European way ("Rp 1.234.567,89") and the
// American way ("1,234,567.89") both yield 1234567.89: a comma that sits to
// the right of every dot is the decimal separator, otherwise commas are
// thousands separators. Missing or unparseable input yields 0 and never an
// error, so a typo in an upload silently becomes zero.
func Normalize(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(n) {
			return 0
		}
		return n
	case float32:
		if math.IsNaN(float64(n)) {
			return 0
		}
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		return 0
	case string:
		return parseString(n)
	case fmt.Stringer:
		return parseString(n.String())
	}
	return 0
}

func parseString(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "Rp", "")
	s = strings.ReplaceAll(s, " ", "")

	if strings.Contains(s, ",") && strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// NormalizeColumns rewrites every value of the named columns in place.
// Columns the table does not carry are skipped.
func NormalizeColumns(t *dataset.Table, columns ...string) {
	for _, col := range columns {
		if !t.HasColumn(col) {
			continue
		}
		for _, r := range t.Rows {
			r[col] = Normalize(r[col])
		}
	}
}
