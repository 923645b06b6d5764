package serrors

import (
	"errors"
	"fmt"
)

// BaseError is an error carrying a stable machine-readable code next to a
// human-readable message.
type BaseError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	LocaleKey string `json:"locale_key,omitempty"`
	cause     error
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *BaseError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a BaseError with the same code, so wrapped
// copies still match their sentinel with errors.Is.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e with err attached as the cause.
func (e *BaseError) Wrap(err error) *BaseError {
	return &BaseError{
		Code:      e.Code,
		Message:   e.Message,
		LocaleKey: e.LocaleKey,
		cause:     err,
	}
}

// Wrapf is Wrap with a formatted cause.
func (e *BaseError) Wrapf(format string, args ...any) *BaseError {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Code extracts the code of the first BaseError in err's chain.
func Code(err error) string {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
