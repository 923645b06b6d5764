package main

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/herdbook/pkg/constants"
	"github.com/iota-uz/herdbook/pkg/serrors"
)

// validateFlags checks opts against its validate tags. A field error is
// reported under the flag named after the lowercased field.
func validateFlags(opts any) error {
	err := constants.Validate.Struct(opts)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return withCode(exitUsage, err)
	}
	names := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		names[fe.Namespace()] = "--" + strings.ToLower(fe.Field())
	}
	return withCode(exitUsage, serrors.ProcessValidatorErrors(verrs, func(ns string) string {
		return names[ns]
	}))
}
