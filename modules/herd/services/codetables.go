package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
	"github.com/iota-uz/herdbook/pkg/composables"
)

// CodeTables are the code → label lookups of one import run.
type CodeTables struct {
	Breed map[string]string
	Sex   map[string]string
}

// Substitute returns the label for raw when raw is a known code of table,
// raw itself otherwise.
func (t CodeTables) Substitute(table animal.CodeTable, raw string) string {
	var m map[string]string
	switch table {
	case animal.CodeTableBreed:
		m = t.Breed
	case animal.CodeTableSex:
		m = t.Sex
	}
	if label, ok := m[raw]; ok {
		return label
	}
	return raw
}

// ResolveCodeTables reads every code-table worksheet present in wb. Later
// rows overwrite earlier ones for the same code; rows with a blank code or
// label are skipped.
func ResolveCodeTables(ctx context.Context, cfg *mapping.Config, wb *workbook.Workbook) CodeTables {
	logger := composables.UseLogger(ctx)
	tables := CodeTables{Breed: map[string]string{}, Sex: map[string]string{}}

	for _, sheet := range wb.Sheets {
		ws, ok := cfg.Worksheet(sheet.Name)
		if !ok || !ws.Purpose.IsCodeTable() {
			continue
		}
		codeCol, hasCode := ws.Column(mapping.FieldCode)
		labelCol, hasLabel := ws.Column(mapping.FieldLabel)
		if !hasCode || !hasLabel {
			logger.WithFields(logrus.Fields{"worksheet": sheet.Name, "purpose": ws.Purpose}).
				Warn("code table worksheet does not map both code and label; skipped")
			continue
		}

		target := tables.Breed
		if ws.Purpose == mapping.PurposeCodeTableSex {
			target = tables.Sex
		}
		n := 0
		for _, row := range sheet.Rows {
			code, ok := row.Get(codeCol)
			if !ok {
				continue
			}
			label, ok := row.Get(labelCol)
			if !ok {
				continue
			}
			target[code] = label
			n++
		}
		logger.WithFields(logrus.Fields{"worksheet": sheet.Name, "purpose": ws.Purpose, "entries": n}).
			Debug("code table loaded")
	}
	return tables
}
