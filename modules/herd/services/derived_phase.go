package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/modules/herd/domain/dates"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/event"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/sample"
	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
	"github.com/iota-uz/herdbook/pkg/composables"
)

var sampleTypes = map[mapping.Purpose]sample.Type{
	mapping.PurposeHistoryWeight:    sample.TypeBodyWeight,
	mapping.PurposeHistoryMilkYield: sample.TypeMilkYield,
	mapping.PurposeHistoryMilkFat:   sample.TypeMilkFat,
}

type derivedSheet struct {
	name     string
	purpose  mapping.Purpose
	imported int
	skipped  map[SkipReason]int
}

// runDerived appends the events and samples of every derived worksheet in
// one transaction. The ear number index is read inside that transaction, so
// it sees every profile committed by runProfiles.
func (s *ImportService) runDerived(ctx context.Context, run *importRun) error {
	ctx, span := tracer.Start(ctx, "herd.import.derived")
	defer span.End()

	ownerID, err := composables.UseOwnerID(ctx)
	if err != nil {
		return err
	}

	var sheets []derivedSheet
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		sheets = nil
		index, err := s.animals.EarNumIndex(txCtx)
		if err != nil {
			return persistenceError(err)
		}

		var events []event.Event
		var samples []sample.Sample
		for _, sheet := range run.workbook.Sheets {
			ws, ok := run.config.Worksheet(sheet.Name)
			if !ok || !ws.Purpose.IsDerived() {
				continue
			}
			logger := composables.UseLogger(txCtx).WithFields(logrus.Fields{
				"worksheet": sheet.Name,
				"purpose":   ws.Purpose,
			})

			d := derivedSheet{name: sheet.Name, purpose: ws.Purpose, skipped: map[SkipReason]int{}}
			for i, row := range sheet.Rows {
				out := deriveRow(ownerID, ws, row, index)
				if out.skip != "" {
					d.skipped[out.skip]++
					logger.WithField("row", i+2).Debugf("row skipped: %s", out.skip)
					continue
				}
				events = append(events, out.events...)
				samples = append(samples, out.samples...)
				d.imported += out.imported()
			}
			sheets = append(sheets, d)
		}

		if err := s.events.CreateMany(txCtx, events); err != nil {
			return persistenceError(err)
		}
		if err := s.samples.CreateMany(txCtx, samples); err != nil {
			return persistenceError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return persistenceError(err)
	}

	logger := composables.UseLogger(ctx)
	for _, d := range sheets {
		run.report.AddDerived(d.name, d.purpose, d.imported, d.skipped)
		s.metrics.record(string(d.purpose), "imported", d.imported)
		s.metrics.recordSkips(string(d.purpose), d.skipped)
		span.AddEvent("worksheet", trace.WithAttributes(
			attribute.String("worksheet", d.name),
			attribute.Int("imported", d.imported),
		))
		logger.WithFields(logrus.Fields{"worksheet": d.name, "purpose": d.purpose, "imported": d.imported}).
			Info("derived worksheet committed")
	}
	return nil
}

// deriveRow resolves the row's animal and routes it by purpose.
func deriveRow(ownerID uuid.UUID, ws mapping.Worksheet, row workbook.Row, index map[string]uuid.UUID) rowOutcome {
	earNum, ok := cell(ws, row, mapping.FieldEarNum)
	if !ok {
		return skipped(SkipMissingKey)
	}
	animalID, ok := index[earNum]
	if !ok {
		return skipped(SkipUnresolvedReference)
	}

	switch ws.Purpose {
	case mapping.PurposeEventKidding:
		return singleEvent(ownerID, animalID, ws, row, event.TypeKidding, kiddingDescription(ws, row))
	case mapping.PurposeEventMating:
		var desc *string
		if sire, ok := cell(ws, row, mapping.FieldSire); ok {
			desc = describe("sire: %s", sire)
		}
		return singleEvent(ownerID, animalID, ws, row, event.TypeMating, desc)
	case mapping.PurposeEventLactation:
		return lactationCycle(ownerID, animalID, ws, row)
	default:
		typ, ok := sampleTypes[ws.Purpose]
		if !ok {
			return rowOutcome{}
		}
		return historySample(ownerID, animalID, ws, row, typ)
	}
}

func cell(ws mapping.Worksheet, row workbook.Row, field string) (string, bool) {
	col, ok := ws.Column(field)
	if !ok {
		return "", false
	}
	return row.Get(col)
}

func optional(ws mapping.Worksheet, row workbook.Row, field string) *string {
	v, ok := cell(ws, row, field)
	if !ok {
		return nil
	}
	return &v
}

func describe(format string, args ...any) *string {
	s := fmt.Sprintf(format, args...)
	return &s
}

func kiddingDescription(ws mapping.Worksheet, row workbook.Row) *string {
	offspring, hasOffspring := cell(ws, row, mapping.FieldOffspring)
	sex, hasSex := cell(ws, row, mapping.FieldOffspringSex)
	switch {
	case hasOffspring && hasSex:
		return describe("offspring: %s (%s)", offspring, sex)
	case hasOffspring:
		return describe("offspring: %s", offspring)
	case hasSex:
		return describe("offspring sex: %s", sex)
	default:
		return nil
	}
}

func withEventExtras(e event.Event, ws mapping.Worksheet, row workbook.Row) event.Event {
	e.Medication = optional(ws, row, mapping.FieldMedication)
	e.Notes = optional(ws, row, mapping.FieldNotes)
	if raw, ok := cell(ws, row, mapping.FieldWithdrawalDays); ok {
		if days, err := animal.ParseInteger(raw); err == nil {
			e.WithdrawalDays = &days
		}
	}
	return e
}

func singleEvent(ownerID, animalID uuid.UUID, ws mapping.Worksheet, row workbook.Row, typ event.Type, desc *string) rowOutcome {
	raw, _ := cell(ws, row, mapping.FieldDate)
	date, ok := dates.Normalize(raw)
	if !ok {
		return skipped(SkipUnnormalizableDate)
	}
	e := event.New(ownerID, animalID, date, typ)
	e.Description = desc
	return rowOutcome{events: []event.Event{withEventExtras(e, ws, row)}}
}

func lactationCycle(ownerID, animalID uuid.UUID, ws mapping.Worksheet, row workbook.Row) rowOutcome {
	cycle, hasCycle := cell(ws, row, mapping.FieldCycle)

	var out rowOutcome
	if raw, ok := cell(ws, row, mapping.FieldStartDate); ok {
		if date, ok := dates.Normalize(raw); ok {
			e := event.New(ownerID, animalID, date, event.TypeLactationStart)
			if hasCycle {
				e.Description = describe("lactation #%s", cycle)
			}
			out.events = append(out.events, withEventExtras(e, ws, row))
		}
	}
	if raw, ok := cell(ws, row, mapping.FieldEndDate); ok {
		if date, ok := dates.Normalize(raw); ok {
			e := event.New(ownerID, animalID, date, event.TypeLactationEnd)
			if hasCycle {
				e.Description = describe("lactation #%s ended", cycle)
			}
			out.events = append(out.events, withEventExtras(e, ws, row))
		}
	}
	if len(out.events) == 0 {
		return skipped(SkipUnnormalizableDate)
	}
	return out
}

func historySample(ownerID, animalID uuid.UUID, ws mapping.Worksheet, row workbook.Row, typ sample.Type) rowOutcome {
	rawDate, _ := cell(ws, row, mapping.FieldDate)
	date, ok := dates.Normalize(rawDate)
	if !ok {
		return skipped(SkipUnnormalizableDate)
	}
	rawValue, ok := cell(ws, row, mapping.FieldValue)
	if !ok {
		return skipped(SkipUnparsableNumber)
	}
	cleaned, err := animal.CleanNumber(rawValue)
	if err != nil {
		return skipped(SkipUnparsableNumber)
	}
	value, err := sample.ParseValue(cleaned)
	if err != nil {
		return skipped(SkipUnparsableNumber)
	}
	smp := sample.New(ownerID, animalID, date, typ, value)
	smp.Notes = optional(ws, row, mapping.FieldNotes)
	return rowOutcome{samples: []sample.Sample{smp}}
}
