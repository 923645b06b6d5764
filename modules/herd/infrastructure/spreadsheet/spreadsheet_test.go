package spreadsheet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/iota-uz/herdbook/modules/herd/domain/dates"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
)

func TestWriteXLSX_RoundTrip(t *testing.T) {
	data, err := WriteXLSX([]SheetData{
		{Name: "Profiles", Header: []string{"ear_num", "breed"}, Rows: [][]any{{"X1", "Boer"}, {"X2", nil}}},
		{Name: "History", Header: []string{"ear_num", "value"}, Rows: [][]any{{"X1", 41.2}}},
	})
	require.NoError(t, err)

	wb, err := NewReader(0).Read("export.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, []string{"Profiles", "History"}, wb.SheetNames())

	profiles, _ := wb.Sheet("Profiles")
	require.Len(t, profiles.Rows, 2)
	v, ok := profiles.Rows[0].Get("breed")
	require.True(t, ok)
	assert.Equal(t, "Boer", v)
	assert.False(t, profiles.Rows[1].Has("breed"))

	history, _ := wb.Sheet("History")
	v, ok = history.Rows[0].Get("value")
	require.True(t, ok)
	assert.Equal(t, "41.2", v)
}

func TestRead_DateCellsArriveAsSerials(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "MeaDate"))
	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := NewReader(0).Read("dates.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	raw, ok := wb.Sheets[0].Rows[0].Get("MeaDate")
	require.True(t, ok)

	got, ok := dates.Normalize(raw)
	require.True(t, ok, "raw %q", raw)
	assert.Equal(t, "2024-01-05", got)
}

func TestRead_RejectsUnsupported(t *testing.T) {
	r := NewReader(0)
	_, err := r.Read("legacy.xls", bytes.NewReader(nil))
	require.ErrorIs(t, err, workbook.ErrUnsupportedFormat)

	_, err = r.Read("notes.txt", bytes.NewReader(nil))
	require.ErrorIs(t, err, workbook.ErrUnsupportedFormat)

	_, err = r.Read("broken.xlsx", bytes.NewReader([]byte("PK\x03\x04 truncated archive")))
	require.ErrorIs(t, err, workbook.ErrUnreadableWorkbook)

	_, err = r.Read("empty.csv", bytes.NewReader(nil))
	require.ErrorIs(t, err, workbook.ErrUnreadableWorkbook)

	_, err = r.ReadFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.ErrorIs(t, err, workbook.ErrUnreadableWorkbook)
}

func TestRead_ChecksContentAgainstExtension(t *testing.T) {
	r := NewReader(0)
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 1024)...)

	f := excelize.NewFile()
	var xlsx bytes.Buffer
	require.NoError(t, f.Write(&xlsx))
	require.NoError(t, f.Close())

	cases := map[string][]byte{
		"renamed-legacy.xlsx": ole,
		"renamed-legacy.csv":  ole,
		"weights.xlsx":        []byte("EarNum,Weight\nX1,41.2\n"),
		"export.csv":          xlsx.Bytes(),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Read(name, bytes.NewReader(data))
			require.ErrorIs(t, err, workbook.ErrUnsupportedFormat)
		})
	}
}

func TestRead_SizeLimit(t *testing.T) {
	_, err := NewReader(4).Read("big.csv", bytes.NewReader([]byte("a,b\n1,2\n")))
	require.ErrorIs(t, err, workbook.ErrUnreadableWorkbook)
}

func TestReadCSV_Encodings(t *testing.T) {
	const content = "耳號,品種\nX1,波爾\n"

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)
	big5, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)

	inputs := map[string][]byte{
		"utf8":     []byte(content),
		"utf8 bom": append([]byte{0xEF, 0xBB, 0xBF}, content...),
		"utf16le":  utf16,
		"big5":     big5,
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			wb, err := NewReader(0).Read("herd.csv", bytes.NewReader(data))
			require.NoError(t, err)
			require.Len(t, wb.Sheets, 1)
			s := wb.Sheets[0]
			assert.Equal(t, "herd", s.Name)
			assert.Equal(t, []string{"耳號", "品種"}, s.Header)
			v, ok := s.Rows[0].Get("品種")
			require.True(t, ok)
			assert.Equal(t, "波爾", v)
		})
	}
}

func TestReadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.csv")
	require.NoError(t, os.WriteFile(path, []byte("EarNum,Weight\nX1,41.2\n"), 0o644))

	wb, err := NewReader(0).ReadFile(path)
	require.NoError(t, err)
	s, ok := wb.Sheet("weights")
	require.True(t, ok)
	require.Len(t, s.Rows, 1)
}
