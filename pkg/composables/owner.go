package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/herdbook/pkg/constants"
)

var ErrNoOwner = errors.New("no owner found in context")

// WithOwnerID scopes ctx to the owner whose records are being read or written.
func WithOwnerID(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.OwnerKey, ownerID)
}

func UseOwnerID(ctx context.Context) (uuid.UUID, error) {
	ownerID, ok := ctx.Value(constants.OwnerKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, ErrNoOwner
	}
	return ownerID, nil
}
