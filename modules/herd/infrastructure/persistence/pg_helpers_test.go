package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgDate(t *testing.T) {
	assert.False(t, pgDate(nil).Valid)
	bad := "05/01/2024"
	assert.False(t, pgDate(&bad).Valid)

	v := "2024-01-05"
	d := pgDate(&v)
	require.True(t, d.Valid)
	assert.Equal(t, "2024-01-05", *dateFromPg(d))
}

func TestPgNumeric(t *testing.T) {
	for _, raw := range []string{"41.2", "0", "-3.125", "1041.5"} {
		d := decimal.RequireFromString(raw)
		assert.True(t, d.Equal(decimalFromPg(pgNumeric(d))), raw)
	}
}

func TestPgUUID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, uuidFromPg(pgUUIDFromUUID(id)))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
}

func TestOwnerLockKey(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, OwnerLockKey(a), OwnerLockKey(a))
	assert.NotEqual(t, OwnerLockKey(a), OwnerLockKey(b))
}
