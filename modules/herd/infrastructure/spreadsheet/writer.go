package spreadsheet

import (
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// SheetData is one worksheet of an export: a header row and data rows.
type SheetData struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteXLSX renders sheets into an xlsx document in the given order.
func WriteXLSX(sheets []SheetData) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("no sheets to write")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, errors.Wrapf(err, "rename sheet %q", sheet.Name)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, errors.Wrapf(err, "create sheet %q", sheet.Name)
		}
		if err := writeSheet(f, sheet); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write xlsx")
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet SheetData) error {
	header := sheet.Header
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return errors.Wrapf(err, "write header of %q", sheet.Name)
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return errors.Wrapf(err, "write row %d of %q", i+2, sheet.Name)
		}
	}
	return nil
}
