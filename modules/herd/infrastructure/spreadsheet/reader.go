// Package spreadsheet reads uploaded workbooks into workbook.Workbook and
// writes exports back to xlsx.
package spreadsheet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
)

const DefaultMaxBytes int64 = 32 << 20

type Reader struct {
	maxBytes int64
}

func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Reader{maxBytes: maxBytes}
}

// ReadFile opens path and reads it according to its extension.
func (r *Reader) ReadFile(path string) (*workbook.Workbook, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, workbook.ErrUnreadableWorkbook.Wrap(err)
	}
	defer f.Close()
	return r.Read(filepath.Base(path), f)
}

// Read reads src; name is only used for its extension and, for CSV input,
// as the worksheet name.
func (r *Reader) Read(name string, src io.Reader) (*workbook.Workbook, error) {
	if err := checkExtension(name); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(src, r.maxBytes+1))
	if err != nil {
		return nil, workbook.ErrUnreadableWorkbook.Wrap(err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, workbook.ErrUnreadableWorkbook.Wrapf("workbook exceeds %d bytes", r.maxBytes)
	}
	if len(data) == 0 {
		return nil, workbook.ErrUnreadableWorkbook.Wrapf("workbook is empty")
	}
	if err := checkContent(name, data); err != nil {
		return nil, err
	}
	switch extension(name) {
	case ".csv":
		return readCSV(sheetNameFromFile(name), data)
	default:
		return readXLSX(data)
	}
}

// checkContent sniffs data and rejects files whose content does not match
// their extension, such as a renamed legacy workbook.
func checkContent(name string, data []byte) error {
	detected := mimetype.Detect(data)
	kind := ""
	for m := detected; m != nil && kind == ""; m = m.Parent() {
		switch {
		case m.Is("application/x-ole-storage"):
			return workbook.ErrUnsupportedFormat.Wrapf("legacy .xls workbooks are not supported, save as .xlsx")
		case m.Is("application/zip"):
			kind = ".xlsx"
		case m.Is("text/plain"):
			kind = ".csv"
		}
	}
	want := extension(name)
	if want == ".xlsm" {
		want = ".xlsx"
	}
	if kind != want {
		return workbook.ErrUnsupportedFormat.Wrapf("%s holds %s content", filepath.Base(name), detected.String())
	}
	return nil
}

func extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func checkExtension(name string) error {
	switch extension(name) {
	case ".xlsx", ".xlsm", ".csv":
		return nil
	case ".xls":
		return workbook.ErrUnsupportedFormat.Wrapf("legacy .xls workbooks are not supported, save as .xlsx")
	default:
		return workbook.ErrUnsupportedFormat.Wrapf("unsupported file extension %q", filepath.Ext(name))
	}
}

func sheetNameFromFile(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readXLSX(data []byte) (*workbook.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, workbook.ErrUnreadableWorkbook.Wrap(err)
	}
	defer f.Close()

	wb := &workbook.Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, workbook.ErrUnreadableWorkbook.Wrapf("sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, workbook.NewSheet(name, rows))
	}
	return wb, nil
}
