package export

import (
	"encoding/csv"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/nflstats/internal/model"
)

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

// EncodeCSV writes records as RFC 4180 CSV with a header row.
func EncodeCSV(out io.Writer, records model.RecordSet) error {
	w := csv.NewWriter(out)
	if err := w.Write(records.Columns); err != nil {
		return err
	}
	if err := w.WriteAll(records.Rows); err != nil {
		return err
	}
	return w.Error()
}

// EncodeXLSX writes records as a single-sheet workbook with a header row.
func EncodeXLSX(out io.Writer, sheet string, records model.RecordSet) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(records.Columns)); err != nil {
		return err
	}
	for i, row := range records.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(out)
	return err
}

// SheetName returns a valid sheet name for category.
func SheetName(category string) string {
	if category == "" {
		return "Sheet1"
	}
	runes := []rune(category)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
