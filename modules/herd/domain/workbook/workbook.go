// Package workbook is the in-memory form of an uploaded spreadsheet: ordered
// named sheets, each a header row followed by string cells.
package workbook

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	if w == nil {
		return nil, false
	}
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

func (w *Workbook) SheetNames() []string {
	out := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		out = append(out, s.Name)
	}
	return out
}

type Sheet struct {
	Name   string
	Header []string
	Rows   []Row

	index map[string]int
}

// NewSheet builds a sheet from raw records, the first of which is the
// header. Header cells are trimmed and NFKC-normalized; on duplicate headers
// the first column wins. Ragged records are allowed.
func NewSheet(name string, records [][]string) *Sheet {
	s := &Sheet{Name: name, index: map[string]int{}}
	if len(records) == 0 {
		return s
	}
	s.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		h = NormalizeHeader(h)
		s.Header[i] = h
		if h == "" {
			continue
		}
		if _, dup := s.index[h]; !dup {
			s.index[h] = i
		}
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		s.Rows = append(s.Rows, Row{sheet: s, cells: rec})
	}
	return s
}

func (s *Sheet) HasColumn(col string) bool {
	_, ok := s.index[NormalizeHeader(col)]
	return ok
}

// NormalizeHeader trims the value and folds compatibility characters, so
// that full-width vendor headers match their ASCII spelling.
func NormalizeHeader(h string) string {
	return strings.TrimSpace(norm.NFKC.String(h))
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type Row struct {
	sheet *Sheet
	cells []string
}

// Get returns the trimmed cell under col. The bool is false when the column
// is absent or the cell is blank.
func (r Row) Get(col string) (string, bool) {
	if r.sheet == nil {
		return "", false
	}
	i, ok := r.sheet.index[NormalizeHeader(col)]
	if !ok || i >= len(r.cells) {
		return "", false
	}
	v := strings.TrimSpace(r.cells[i])
	if v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether the row has a non-blank value under col.
func (r Row) Has(col string) bool {
	_, ok := r.Get(col)
	return ok
}

// Values maps every header to its cell, with nil for blank cells.
func (r Row) Values() map[string]*string {
	out := make(map[string]*string, len(r.sheet.Header))
	for _, h := range r.sheet.Header {
		if h == "" {
			continue
		}
		if _, seen := out[h]; seen {
			continue
		}
		if v, ok := r.Get(h); ok {
			out[h] = &v
		} else {
			out[h] = nil
		}
	}
	return out
}
