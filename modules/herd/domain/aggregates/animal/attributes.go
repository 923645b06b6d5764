package animal

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iota-uz/herdbook/modules/herd/domain/dates"
)

// Attributes holds every importable profile field. Nil means "no value".
// Date fields hold canonical YYYY-MM-DD strings.
type Attributes struct {
	BirthDate *string
	Sex       *string
	Breed     *string
	Sire      *string
	Dam       *string

	BirthWeight     *float64
	SireBreed       *string
	DamBreed        *string
	MoveCause       *string
	MoveDate        *string
	Class           *string
	LitterSize      *int
	Lactation       *int
	ManagementClass *string
	FarmNum         *string
	RecordUID       *string

	BodyWeightKg            *float64
	AgeMonths               *int
	BreedCategory           *string
	Status                  *string
	StatusDescription       *string
	TargetAverageDailyGainG *float64
	MilkYieldKgDay          *float64
	MilkFatPercentage       *float64
	NumberOfFetuses         *int
	ExpectedFiberYieldGDay  *float64
	ActivityLevel           *string

	OtherRemarks           *string
	AgentNotes             *string
	NextVaccinationDueDate *string
	NextDewormingDueDate   *string
	ExpectedLambingDate    *string

	ManureManagement  *string
	PrimaryForageType *string
	WelfareScore      *int
}

// Assign converts raw for f and stores it. On a conversion failure the field
// is cleared and ErrInvalidDate or ErrInvalidNumber is returned.
func (a *Attributes) Assign(f Field, raw string) error {
	switch f.Kind {
	case KindDate:
		v, ok := dates.Normalize(raw)
		if !ok {
			*f.text(a) = nil
			return ErrInvalidDate
		}
		*f.text(a) = &v
	case KindNumber:
		v, err := ParseNumber(raw)
		if err != nil {
			*f.number(a) = nil
			return err
		}
		*f.number(a) = &v
	case KindInteger:
		v, err := ParseInteger(raw)
		if err != nil {
			*f.integer(a) = nil
			return err
		}
		*f.integer(a) = &v
	default:
		v := raw
		*f.text(a) = &v
	}
	return nil
}

// groupedNumber matches thousands grouping such as 1,234 or 12,345,678.9.
// Any other comma, including a decimal comma, makes the value unparseable.
var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// CleanNumber trims raw and drops thousands separators.
func CleanNumber(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidNumber
	}
	if strings.Contains(s, ",") {
		if !groupedNumber.MatchString(s) {
			return "", ErrInvalidNumber
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	return s, nil
}

// ParseNumber accepts plain decimal notation with optional thousands commas.
func ParseNumber(raw string) (float64, error) {
	s, err := CleanNumber(raw)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// ParseInteger also accepts integral floats such as "3.0", which is how
// spreadsheet tools often export counts. Values must fit a 32-bit integer
// column.
func ParseInteger(raw string) (int, error) {
	s, err := CleanNumber(raw)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(v), nil
	}
	f, err := ParseNumber(s)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, ErrInvalidNumber
	}
	return int(f), nil
}
