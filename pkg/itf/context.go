package itf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/herdbook/pkg/composables"
	"github.com/iota-uz/herdbook/pkg/configuration"
)

// TestContext carries everything a repository call reads from ctx: the
// pool, an owner and a logger.
type TestContext struct {
	Ctx     context.Context
	Pool    *pgxpool.Pool
	OwnerID uuid.UUID
}

// NewTestContext binds a fresh owner to pool.
func NewTestContext(t *testing.T, pool *pgxpool.Pool) *TestContext {
	t.Helper()
	ownerID := uuid.New()

	ctx := composables.WithPool(context.Background(), pool)
	ctx = composables.WithOwnerID(ctx, ownerID)
	ctx = composables.WithLogger(ctx, logrus.NewEntry(configuration.Use().Logger()).WithField("test", t.Name()))

	return &TestContext{Ctx: ctx, Pool: pool, OwnerID: ownerID}
}

// ForOwner returns a copy of tc scoped to another owner on the same pool.
func (tc *TestContext) ForOwner(ownerID uuid.UUID) *TestContext {
	return &TestContext{
		Ctx:     composables.WithOwnerID(tc.Ctx, ownerID),
		Pool:    tc.Pool,
		OwnerID: ownerID,
	}
}
