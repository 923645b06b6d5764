package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
	"github.com/iota-uz/herdbook/pkg/composables"
)

// runProfiles upserts the animals of every profile worksheet, committing
// each worksheet in its own transaction.
func (s *ImportService) runProfiles(ctx context.Context, run *importRun) error {
	ctx, span := tracer.Start(ctx, "herd.import.profiles")
	defer span.End()

	for _, sheet := range run.workbook.Sheets {
		ws, ok := run.config.Worksheet(sheet.Name)
		if !ok || ws.Purpose != mapping.PurposeProfile {
			continue
		}
		logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
			"worksheet": sheet.Name,
			"purpose":   ws.Purpose,
		})
		earCol, ok := ws.Column(mapping.FieldEarNum)
		if !ok {
			logger.Warn("profile worksheet does not map ear_num; skipped")
			continue
		}

		var stats profileStats
		err := s.tx.InTx(ctx, func(txCtx context.Context) error {
			stats = profileStats{skipped: map[SkipReason]int{}}
			for i, row := range sheet.Rows {
				created, skip, err := s.upsertProfile(txCtx, ws, earCol, row, run.tables)
				switch {
				case err != nil:
					return persistenceError(err)
				case skip != "":
					stats.skipped[skip]++
					logger.WithField("row", i+2).Debugf("row skipped: %s", skip)
				case created:
					stats.created++
				default:
					stats.updated++
				}
			}
			return nil
		})
		if err != nil {
			span.RecordError(err)
			return persistenceError(err)
		}

		run.report.AddProfile(sheet.Name, stats.created, stats.updated, stats.skipped)
		s.metrics.record(string(ws.Purpose), "created", stats.created)
		s.metrics.record(string(ws.Purpose), "updated", stats.updated)
		s.metrics.recordSkips(string(ws.Purpose), stats.skipped)
		span.AddEvent("worksheet", trace.WithAttributes(
			attribute.String("worksheet", sheet.Name),
			attribute.Int("created", stats.created),
			attribute.Int("updated", stats.updated),
		))
		logger.WithFields(logrus.Fields{"created": stats.created, "updated": stats.updated}).
			Info("profile worksheet committed")
	}
	return nil
}

type profileStats struct {
	created int
	updated int
	skipped map[SkipReason]int
}

// upsertProfile applies one row to its animal, creating the animal when the
// ear number is new for the owner.
func (s *ImportService) upsertProfile(
	ctx context.Context,
	ws mapping.Worksheet,
	earCol string,
	row workbook.Row,
	tables CodeTables,
) (created bool, skip SkipReason, err error) {
	earNum, ok := row.Get(earCol)
	if !ok {
		return false, SkipMissingKey, nil
	}

	a, err := s.animals.GetByEarNum(ctx, earNum)
	switch {
	case errors.Is(err, animal.ErrNotFound):
		ownerID, oErr := composables.UseOwnerID(ctx)
		if oErr != nil {
			return false, "", oErr
		}
		a = animal.New(ownerID, earNum)
		created = true
	case err != nil:
		return false, "", err
	}

	logger := composables.UseLogger(ctx)
	for _, f := range animal.Fields() {
		col, mapped := ws.Column(f.Key)
		if !mapped {
			continue
		}
		raw, present := row.Get(col)
		if !present {
			continue
		}
		if f.CodeTable != animal.CodeTableNone {
			raw = tables.Substitute(f.CodeTable, raw)
		}
		if aErr := a.Assign(f, raw); aErr != nil {
			logger.WithFields(logrus.Fields{"ear_num": earNum, "field": f.Key, "value": raw}).
				Debugf("field cleared: %v", aErr)
		}
	}

	if created {
		_, err = s.animals.Create(ctx, a)
	} else {
		_, err = s.animals.Update(ctx, a)
	}
	if err != nil {
		return false, "", err
	}
	return created, "", nil
}
