// Package spreadsheet converts uploaded workbooks to tables and back.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"sku-dashboard/internal/dataset"
)

var (
	ErrNoSheet    = errors.New("workbook has no sheets")
	ErrEmptySheet = errors.New("sheet has no header row")
)

var headerSpace = regexp.MustCompile(`\s+`)

// CleanHeader collapses runs of whitespace (including line breaks inside a
// header cell) to a single space and trims the result.
func CleanHeader(s string) string {
	return strings.TrimSpace(headerSpace.ReplaceAllString(s, " "))
}

// ReadTable reads the first sheet of an xlsx workbook. The first row is the
// header. Empty cells become nil, cells with a date number format become
// time.Time and other cells keep their formatted text.
func ReadTable(r io.Reader) (dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataset.Table{}, ErrNoSheet
	}
	return readSheet(f, sheets[0])
}

func readSheet(f *excelize.File, sheet string) (dataset.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataset.Table{}, ErrEmptySheet
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	dates := newDateCells(f, sheet)

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		name := CleanHeader(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = name
	}
	t := dataset.NewTable(uniqueNames(header)...)

	for n := 1; n < len(rows); n++ {
		cells := rows[n]
		if blank(cells) {
			continue
		}
		var rawCells []string
		if n < len(raw) {
			rawCells = raw[n]
		}
		row := make(dataset.Row, len(t.Columns))
		for i, col := range t.Columns {
			if i >= len(cells) || strings.TrimSpace(cells[i]) == "" {
				row[col] = nil
				continue
			}
			row[col] = cells[i]
			if i < len(rawCells) && rawCells[i] != cells[i] {
				if ts, ok := dates.value(i+1, n+1, rawCells[i]); ok {
					row[col] = ts
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// uniqueNames suffixes repeated headers the way spreadsheet tools do:
// "Pajak", "Pajak.1", "Pajak.2".
func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		if c, ok := seen[n]; ok {
			seen[n] = c + 1
			out[i] = fmt.Sprintf("%s.%d", n, c+1)
			continue
		}
		seen[n] = 0
		out[i] = n
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
