package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/herdbook/pkg/constants"
)

func TestBaseError_WrapKeepsIdentity(t *testing.T) {
	sentinel := NewError("HERD_TEST", "test failure", "")
	cause := errors.New("disk on fire")

	wrapped := fmt.Errorf("outer: %w", sentinel.Wrap(cause))

	require.ErrorIs(t, wrapped, sentinel)
	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, "HERD_TEST", Code(wrapped))
	require.Equal(t, "outer: test failure: disk on fire", wrapped.Error())
}

func TestBaseError_DifferentCodesDoNotMatch(t *testing.T) {
	a := NewError("A", "a", "")
	b := NewError("B", "b", "")
	require.NotErrorIs(t, a.Wrap(errors.New("x")), b)
	require.Empty(t, Code(errors.New("plain")))
}

func TestValidationErrors_ErrorIsSorted(t *testing.T) {
	v := ValidationErrors{"b": "is required", "a": "must be at least 1"}
	require.Equal(t, "a: must be at least 1; b: is required", v.Error())
}

func TestProcessValidatorErrors_TranslatesMessages(t *testing.T) {
	type options struct {
		Name  string `validate:"required"`
		Count int    `validate:"gte=1"`
	}
	err := constants.Validate.Struct(options{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	out := ProcessValidatorErrors(verrs, func(ns string) string {
		if ns == "options.Count" {
			return "count"
		}
		return ""
	})
	require.Equal(t, ValidationErrors{
		"options.Name": "Name is a required field",
		"count":        "Count must be 1 or greater",
	}, out)
}
