package persistence

import (
	"context"
	"hash/fnv"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/herdbook/pkg/composables"
)

// Transactor runs functions in a fresh transaction on the pool in ctx.
type Transactor struct{}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) InTx(ctx context.Context, fn func(context.Context) error) error {
	return composables.InTx(ctx, fn)
}

// OwnerLocker serializes imports per owner with a session-level Postgres
// advisory lock held on a dedicated pool connection.
type OwnerLocker struct{}

func NewOwnerLocker() *OwnerLocker {
	return &OwnerLocker{}
}

func (l *OwnerLocker) WithOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(context.Context) error) (err error) {
	pool, err := composables.UsePool(ctx)
	if err != nil {
		return err
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return gerrors.Wrap(err, "acquire lock connection")
	}
	defer conn.Release()

	key := OwnerLockKey(ownerID)
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1::bigint)", key); err != nil {
		return gerrors.Wrap(err, "acquire owner import lock")
	}
	defer func() {
		// The caller's context may already be cancelled; unlock regardless.
		if _, uErr := conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1::bigint)", key); uErr != nil && err == nil {
			err = gerrors.Wrap(uErr, "release owner import lock")
		}
	}()

	return fn(ctx)
}

// OwnerLockKey is the advisory lock key for an owner's imports.
func OwnerLockKey(ownerID uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("herd-import:" + ownerID.String()))
	return int64(h.Sum64())
}

// NopLocker runs fn without any locking.
type NopLocker struct{}

func (NopLocker) WithOwnerLock(ctx context.Context, _ uuid.UUID, fn func(context.Context) error) error {
	return fn(ctx)
}
