package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sku-dashboard/internal/dataset"
)

const exportSheet = "Data"

// WriteTable renders t as a single-sheet workbook with a bold header row.
// The caller owns the returned file and must close it.
func WriteTable(t dataset.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, r := range t.Rows {
		values := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			if v := r[c]; v != nil {
				values[j] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return f, nil
}
