package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
)

// readCSV reads a single-sheet workbook. A byte order mark selects UTF-8 or
// UTF-16; without one, input that is not valid UTF-8 is decoded as Big5.
func readCSV(sheetName string, data []byte) (*workbook.Workbook, error) {
	decoded, err := decodeText(data)
	if err != nil {
		return nil, workbook.ErrUnreadableWorkbook.Wrap(err)
	}
	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, workbook.ErrUnreadableWorkbook.Wrapf("csv: %w", err)
	}
	if len(records) == 0 {
		return nil, workbook.ErrUnreadableWorkbook.Wrapf("csv: missing header")
	}
	return &workbook.Workbook{Sheets: []*workbook.Sheet{workbook.NewSheet(sheetName, records)}}, nil
}

func decodeText(data []byte) ([]byte, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(data) {
		fallback = traditionalchinese.Big5.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	return out, err
}
