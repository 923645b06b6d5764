package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/herdbook/pkg/composables"
	"github.com/iota-uz/herdbook/pkg/constants"
)

const pgUniqueViolation = "23505"

func pgUUIDFromUUID(id [16]byte) pgtype.UUID {
	return pgtype.UUID{
		Bytes: id,
		Valid: true,
	}
}

func uuidFromPg(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return id.Bytes
}

// pgDate converts a canonical YYYY-MM-DD string. Nil or malformed input is NULL.
func pgDate(v *string) pgtype.Date {
	if v == nil {
		return pgtype.Date{}
	}
	t, err := time.Parse(constants.DateLayout, *v)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func dateFromPg(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format(constants.DateLayout)
	return &s
}

func pgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func decimalFromPg(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func ownerIDs(ctx context.Context) (uuid.UUID, pgtype.UUID, error) {
	ownerID, err := composables.UseOwnerID(ctx)
	if err != nil {
		return uuid.Nil, pgtype.UUID{}, fmt.Errorf("failed to get owner from context: %w", err)
	}
	return ownerID, pgUUIDFromUUID(ownerID), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
