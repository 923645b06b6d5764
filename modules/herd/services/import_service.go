package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/event"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/sample"
	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
	"github.com/iota-uz/herdbook/pkg/composables"
)

var tracer = otel.Tracer("github.com/iota-uz/herdbook/modules/herd/services")

var ErrMissingOwner = errors.New("owner id is required")

type ImportService struct {
	animals animal.Repository
	events  event.Repository
	samples sample.Repository
	tx      Transactor
	locker  OwnerLocker
	metrics *metrics
}

func NewImportService(
	animals animal.Repository,
	events event.Repository,
	samples sample.Repository,
	tx Transactor,
	locker OwnerLocker,
) *ImportService {
	return &ImportService{
		animals: animals,
		events:  events,
		samples: samples,
		tx:      tx,
		locker:  locker,
		metrics: getMetrics(),
	}
}

// importRun is the request-scoped state of one Import call.
type importRun struct {
	id       uuid.UUID
	config   *mapping.Config
	workbook *workbook.Workbook
	tables   CodeTables
	report   *ReportBuilder
}

// Import merges wb into the herd of ownerID. Profile worksheets are applied
// and committed before any derived worksheet is read, whatever their order
// in the workbook. A failure in the derived phase leaves committed profiles
// in place. On error no report is returned.
func (s *ImportService) Import(ctx context.Context, ownerID uuid.UUID, cfg *mapping.Config, wb *workbook.Workbook) (report *Report, err error) {
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if cfg == nil {
		return nil, mapping.ErrInvalidMapping.Wrapf("mapping configuration is required")
	}
	if wb == nil {
		return nil, workbook.ErrUnreadableWorkbook.Wrapf("workbook is required")
	}

	run := &importRun{
		id:       uuid.New(),
		config:   cfg,
		workbook: wb,
		report:   &ReportBuilder{},
	}
	ctx = composables.WithOwnerID(ctx, ownerID)
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"owner_id": ownerID.String(),
		"run_id":   run.id.String(),
	})
	ctx = composables.WithLogger(ctx, logger)

	ctx, span := tracer.Start(ctx, "herd.import")
	span.SetAttributes(
		attribute.String("herd.owner_id", ownerID.String()),
		attribute.String("herd.run_id", run.id.String()),
		attribute.Int("herd.worksheets", len(wb.Sheets)),
	)
	started := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.importDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())
		span.End()
	}()

	for _, name := range cfg.Ignored {
		logger.WithField("key", name).Warn("mapping key matches no field; ignored")
	}
	logger.WithField("worksheets", wb.SheetNames()).Info("import started")

	err = s.locker.WithOwnerLock(ctx, ownerID, func(ctx context.Context) error {
		run.tables = ResolveCodeTables(ctx, cfg, wb)
		if err := s.runProfiles(ctx, run); err != nil {
			return errors.Wrap(err, "profile phase")
		}
		if err := s.runDerived(ctx, run); err != nil {
			return errors.Wrap(err, "derived phase")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("import failed")
		return nil, err
	}

	report = run.report.Build()
	logger.WithField("entries", len(report.Entries)).Info("import finished")
	return report, nil
}
