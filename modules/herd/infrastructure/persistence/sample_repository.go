package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/herdbook/modules/herd/domain/entities/sample"
	"github.com/iota-uz/herdbook/pkg/composables"
)

var sampleCopyColumns = []string{
	"id", "owner_id", "animal_id", "sample_date", "sample_type", "value", "notes", "recorded_at",
}

type SampleRepository struct{}

func NewSampleRepository() sample.Repository {
	return &SampleRepository{}
}

// CreateMany appends samples with COPY. Samples are never deduplicated.
func (r *SampleRepository) CreateMany(ctx context.Context, samples []sample.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	_, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(samples))
	for _, s := range samples {
		recordedAt := s.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = now
		}
		date := s.Date
		rows = append(rows, []any{
			pgUUIDFromUUID(s.ID),
			pgOwnerID,
			pgUUIDFromUUID(s.AnimalID),
			pgDate(&date),
			string(s.Type),
			pgNumeric(s.Value),
			s.Notes,
			recordedAt,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"herd_history_samples"}, sampleCopyColumns, pgx.CopyFromRows(rows)); err != nil {
		return gerrors.Wrap(err, "copy history samples")
	}
	return nil
}

func (r *SampleRepository) List(ctx context.Context) ([]sample.Sample, error) {
	_, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT s.id, s.owner_id, s.animal_id, s.sample_date, s.sample_type, s.value, s.notes, s.recorded_at
FROM herd_history_samples s
JOIN herd_animals a ON a.id = s.animal_id
WHERE s.owner_id = $1
ORDER BY a.ear_num, s.sample_date, s.recorded_at`, pgOwnerID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list history samples")
	}
	defer rows.Close()

	var out []sample.Sample
	for rows.Next() {
		var (
			id, ownerID, animalID pgtype.UUID
			date                  pgtype.Date
			typ                   string
			value                 pgtype.Numeric
			s                     sample.Sample
		)
		if err := rows.Scan(&id, &ownerID, &animalID, &date, &typ, &value, &s.Notes, &s.RecordedAt); err != nil {
			return nil, gerrors.Wrap(err, "scan history sample")
		}
		s.ID = uuidFromPg(id)
		s.OwnerID = uuidFromPg(ownerID)
		s.AnimalID = uuidFromPg(animalID)
		if d := dateFromPg(date); d != nil {
			s.Date = *d
		}
		s.Type = sample.Type(typ)
		s.Value = decimalFromPg(value)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "iterate history samples")
	}
	return out, nil
}
