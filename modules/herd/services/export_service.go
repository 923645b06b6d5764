package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/event"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/sample"
	"github.com/iota-uz/herdbook/modules/herd/infrastructure/spreadsheet"
	"github.com/iota-uz/herdbook/pkg/composables"
)

const (
	ProfilesSheet = "Profiles"
	EventsSheet   = "Events"
	HistorySheet  = "History"
	EmptySheet    = "Empty_Export"
)

type ExportService struct {
	animals animal.Repository
	events  event.Repository
	samples sample.Repository
}

func NewExportService(animals animal.Repository, events event.Repository, samples sample.Repository) *ExportService {
	return &ExportService{animals: animals, events: events, samples: samples}
}

// Export renders every record of ownerID into an xlsx workbook. Sheets with
// no rows are left out; an owner with no data gets a single explanatory sheet.
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]byte, error) {
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	ctx = composables.WithOwnerID(ctx, ownerID)

	animals, err := s.animals.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list animals")
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	samples, err := s.samples.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list history samples")
	}

	earNums := make(map[uuid.UUID]string, len(animals))
	for _, a := range animals {
		earNums[a.ID()] = a.EarNum()
	}

	var sheets []spreadsheet.SheetData
	if len(animals) > 0 {
		sheets = append(sheets, profileSheet(animals))
	}
	if len(events) > 0 {
		sheets = append(sheets, eventSheet(events, earNums))
	}
	if len(samples) > 0 {
		sheets = append(sheets, historySheet(samples, earNums))
	}
	if len(sheets) == 0 {
		sheets = append(sheets, spreadsheet.SheetData{
			Name:   EmptySheet,
			Header: []string{"message"},
			Rows:   [][]any{{"There is no data to export."}},
		})
	}

	composables.UseLogger(ctx).WithField("sheets", len(sheets)).Info("export built")
	return spreadsheet.WriteXLSX(sheets)
}

func profileSheet(animals []animal.Animal) spreadsheet.SheetData {
	fields := animal.Fields()
	header := []string{animal.EarNumKey}
	for _, f := range fields {
		header = append(header, f.Key)
	}
	header = append(header, "updated_at")

	rows := make([][]any, 0, len(animals))
	for _, a := range animals {
		row := []any{a.EarNum()}
		for _, f := range fields {
			row = append(row, cellValue(f.Value(a.Attributes())))
		}
		row = append(row, a.UpdatedAt().UTC().Format("2006-01-02 15:04:05"))
		rows = append(rows, row)
	}
	return spreadsheet.SheetData{Name: ProfilesSheet, Header: header, Rows: rows}
}

func eventSheet(events []event.Event, earNums map[uuid.UUID]string) spreadsheet.SheetData {
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			earNums[e.AnimalID],
			e.Date,
			string(e.Type),
			cellValue(e.Description),
			cellValue(e.Notes),
			cellValue(e.Medication),
			cellValue(e.WithdrawalDays),
			e.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return spreadsheet.SheetData{
		Name:   EventsSheet,
		Header: []string{"ear_num", "event_date", "event_type", "description", "notes", "medication", "withdrawal_days", "recorded_at"},
		Rows:   rows,
	}
}

func historySheet(samples []sample.Sample, earNums map[uuid.UUID]string) spreadsheet.SheetData {
	rows := make([][]any, 0, len(samples))
	for _, smp := range samples {
		rows = append(rows, []any{
			earNums[smp.AnimalID],
			smp.Date,
			string(smp.Type),
			smp.Value.InexactFloat64(),
			cellValue(smp.Notes),
			smp.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return spreadsheet.SheetData{
		Name:   HistorySheet,
		Header: []string{"ear_num", "record_date", "record_type", "value", "notes", "recorded_at"},
		Rows:   rows,
	}
}

// cellValue dereferences optional values; nil pointers become empty cells.
func cellValue(v any) any {
	switch p := v.(type) {
	case *string:
		if p != nil {
			return *p
		}
	case *float64:
		if p != nil {
			return *p
		}
	case *int:
		if p != nil {
			return *p
		}
	}
	return nil
}
