package trace

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "journal"

// WriteXLSX writes records to an Excel workbook at path, one row per
// record on a single "journal" sheet, with the same column layout as
// WriteCSV.
func WriteXLSX(path string, records []Record) error {
	keys := extraKeys(records)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	header := append([]string{"patient", "label", "entry", "timestamp"}, keys...)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, rec := range records {
		values := []any{rec.Patient, rec.Label, rec.Entry, rec.Timestamp}
		for _, k := range keys {
			values = append(values, rec.Extra[k])
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
