package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateCells recognises cells whose number format displays a date and
// converts their serial value. Results are cached per style index.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// value returns the cell at (col, row) as a UTC time when it holds a
// serial number under a date format.
func (d *dateCells) value(col, row int, raw string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial < 0 {
		return time.Time{}, false
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return time.Time{}, false
	}
	idx, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return time.Time{}, false
	}
	isDate, ok := d.styles[idx]
	if !ok {
		isDate = d.styleIsDate(idx)
		d.styles[idx] = isDate
	}
	if !isDate {
		return time.Time{}, false
	}
	ts, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC().Round(time.Millisecond), true
}

func (d *dateCells) styleIsDate(idx int) bool {
	style, err := d.f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return builtinDateFormat(style.NumFmt)
}

// builtinDateFormat reports whether a built-in number format id shows a
// date or time, including the East Asian locale ids.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat inspects a custom format code. Quoted literals, escaped
// characters and bracketed sections ([Red], [$-409]) are ignored; any
// remaining y, d, h or s token marks a date. Elapsed-time sections such
// as [h] are bracketed and so ignored with the rest.
func isDateFormat(code string) bool {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	var quoted, bracket, escaped bool
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case r == 'y' || r == 'd' || r == 'h' || r == 's':
			return true
		}
	}
	return false
}
