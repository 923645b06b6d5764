package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/herdbook/modules/herd/domain/entities/event"
	"github.com/iota-uz/herdbook/pkg/composables"
)

var eventCopyColumns = []string{
	"id", "owner_id", "animal_id", "event_date", "event_type",
	"description", "notes", "medication", "withdrawal_days", "recorded_at",
}

type EventRepository struct{}

func NewEventRepository() event.Repository {
	return &EventRepository{}
}

// CreateMany appends events with COPY. Events are never deduplicated.
func (r *EventRepository) CreateMany(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
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
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		recordedAt := e.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = now
		}
		date := e.Date
		rows = append(rows, []any{
			pgUUIDFromUUID(e.ID),
			pgOwnerID,
			pgUUIDFromUUID(e.AnimalID),
			pgDate(&date),
			string(e.Type),
			e.Description,
			e.Notes,
			e.Medication,
			e.WithdrawalDays,
			recordedAt,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"herd_events"}, eventCopyColumns, pgx.CopyFromRows(rows)); err != nil {
		return gerrors.Wrap(err, "copy events")
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	_, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT e.id, e.owner_id, e.animal_id, e.event_date, e.event_type,
       e.description, e.notes, e.medication, e.withdrawal_days, e.recorded_at
FROM herd_events e
JOIN herd_animals a ON a.id = e.animal_id
WHERE e.owner_id = $1
ORDER BY a.ear_num, e.event_date DESC, e.recorded_at`, pgOwnerID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list events")
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var (
			id, ownerID, animalID pgtype.UUID
			date                  pgtype.Date
			typ                   string
			e                     event.Event
		)
		if err := rows.Scan(&id, &ownerID, &animalID, &date, &typ,
			&e.Description, &e.Notes, &e.Medication, &e.WithdrawalDays, &e.RecordedAt); err != nil {
			return nil, gerrors.Wrap(err, "scan event")
		}
		e.ID = uuidFromPg(id)
		e.OwnerID = uuidFromPg(ownerID)
		e.AnimalID = uuidFromPg(animalID)
		if d := dateFromPg(date); d != nil {
			e.Date = *d
		}
		e.Type = event.Type(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "iterate events")
	}
	return out, nil
}
