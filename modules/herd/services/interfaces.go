package services

import (
	"context"

	"github.com/google/uuid"
)

// Transactor runs fn inside a new transaction carried by the context passed to fn.
type Transactor interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}

// OwnerLocker runs fn while holding the import lock of ownerID.
type OwnerLocker interface {
	WithOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(context.Context) error) error
}
