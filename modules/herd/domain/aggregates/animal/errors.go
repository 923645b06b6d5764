package animal

import "errors"

var (
	ErrNotFound    = errors.New("animal not found")
	ErrEarNumTaken = errors.New("ear number already exists for this owner")

	ErrInvalidDate   = errors.New("value is not a usable date")
	ErrInvalidNumber = errors.New("value is not a number")
)
