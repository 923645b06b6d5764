package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/herdbook/pkg/constants"
)

// ValidationErrors maps a field path to a readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k]))
	}
	return strings.Join(parts, "; ")
}

// ProcessValidatorErrors converts validator field errors into ValidationErrors
// with English messages. fieldName may rename struct namespaces; returning ""
// keeps the namespace.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldName func(namespace string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		name := fe.Namespace()
		if fieldName != nil {
			if n := fieldName(name); n != "" {
				name = n
			}
		}
		out[name] = fe.Translate(constants.Translator)
	}
	return out
}
