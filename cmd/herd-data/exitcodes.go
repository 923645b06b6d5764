package main

import (
	"github.com/go-faster/errors"

	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
	"github.com/iota-uz/herdbook/modules/herd/services"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitDBWrite    = 5
	exitInput      = 7
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classify attaches the exit code of a pipeline error.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrMissingOwner):
		return withCode(exitUsage, err)
	case errors.Is(err, mapping.ErrInvalidMapping):
		return withCode(exitValidation, err)
	case errors.Is(err, workbook.ErrUnreadableWorkbook), errors.Is(err, workbook.ErrUnsupportedFormat):
		return withCode(exitInput, err)
	case errors.Is(err, services.ErrPersistence):
		return withCode(exitDBWrite, err)
	default:
		return withCode(exitDB, err)
	}
}
