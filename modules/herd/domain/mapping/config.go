// Package mapping describes how the worksheets of a vendor workbook map onto
// herd records.
package mapping

import (
	"sort"

	"github.com/iota-uz/herdbook/pkg/serrors"
)

var ErrInvalidMapping = serrors.NewError("INVALID_MAPPING", "invalid mapping configuration", "Herd.Errors.InvalidMapping")

// Worksheet is the mapping of one worksheet: its purpose and, per canonical
// field key, the source column that holds it.
type Worksheet struct {
	Purpose Purpose           `json:"purpose"`
	Columns map[string]string `json:"columns"`
}

// Column returns the source column mapped to field.
func (w Worksheet) Column(field string) (string, bool) {
	c, ok := w.Columns[field]
	return c, ok && c != ""
}

type Config struct {
	Worksheets map[string]Worksheet `json:"worksheets"`
	// Ignored lists "<worksheet>.<key>" entries that match no field of the
	// worksheet's purpose.
	Ignored []string `json:"-"`
}

func (c *Config) Worksheet(name string) (Worksheet, bool) {
	if c == nil {
		return Worksheet{}, false
	}
	w, ok := c.Worksheets[name]
	return w, ok
}

// Purpose returns the purpose of the named worksheet, PurposeIgnore when the
// worksheet is not mapped.
func (c *Config) Purpose(name string) Purpose {
	w, ok := c.Worksheet(name)
	if !ok {
		return PurposeIgnore
	}
	return w.Purpose
}

// Names returns the mapped worksheet names, sorted.
func (c *Config) Names() []string {
	out := make([]string, 0, len(c.Worksheets))
	for name := range c.Worksheets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
