package services

import (
	"errors"

	"github.com/iota-uz/herdbook/pkg/serrors"
)

var ErrPersistence = serrors.NewError("PERSISTENCE", "import could not be saved", "Herd.Errors.Persistence")

func persistenceError(err error) error {
	if err == nil || errors.Is(err, ErrPersistence) {
		return err
	}
	return ErrPersistence.Wrap(err)
}
