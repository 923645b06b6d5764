package sample

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Limits of an unconstrained Postgres numeric column.
const (
	maxIntegerDigits  = 131072
	maxFractionDigits = 16383
)

var ErrInvalidValue = errors.New("value is not a storable number")

// ParseValue parses s as a decimal that fits a numeric column. s must
// already be free of grouping separators.
func ParseValue(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidValue
	}
	exp := int(d.Exponent())
	if exp < -maxFractionDigits || d.NumDigits()+exp > maxIntegerDigits {
		return decimal.Zero, ErrInvalidValue
	}
	return d, nil
}
