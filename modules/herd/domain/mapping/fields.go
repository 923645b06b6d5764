package mapping

import (
	"strings"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
)

// Field keys of non-profile purposes. Profile keys come from the animal
// field catalog.
const (
	FieldEarNum         = animal.EarNumKey
	FieldDate           = "date"
	FieldOffspring      = "offspring"
	FieldOffspringSex   = "offspring_sex"
	FieldSire           = "sire"
	FieldStartDate      = "start_date"
	FieldEndDate        = "end_date"
	FieldCycle          = "cycle"
	FieldValue          = "value"
	FieldCode           = "code"
	FieldLabel          = "label"
	FieldMedication     = "medication"
	FieldWithdrawalDays = "withdrawal_days"
	FieldNotes          = "notes"
)

// FieldSpec is a target field of a purpose and the names it is known by.
type FieldSpec struct {
	Key     string
	Aliases []string
}

var earNum = FieldSpec{Key: FieldEarNum, Aliases: []string{animal.EarNumLegacy}}

var eventExtras = []FieldSpec{
	{Key: FieldMedication, Aliases: []string{"Medication"}},
	{Key: FieldWithdrawalDays, Aliases: []string{"WithdrawalDays"}},
	{Key: FieldNotes, Aliases: []string{"Notes"}},
}

var purposeFields = map[Purpose][]FieldSpec{
	PurposeCodeTableBreed: {
		{Key: FieldCode, Aliases: []string{"Code"}},
		{Key: FieldLabel, Aliases: []string{"Name"}},
	},
	PurposeCodeTableSex: {
		{Key: FieldCode, Aliases: []string{"Code"}},
		{Key: FieldLabel, Aliases: []string{"Name"}},
	},
	PurposeEventKidding: append([]FieldSpec{
		earNum,
		{Key: FieldDate, Aliases: []string{"YeanDate"}},
		{Key: FieldOffspring, Aliases: []string{"KidNum"}},
		{Key: FieldOffspringSex, Aliases: []string{"KidSex"}},
	}, eventExtras...),
	PurposeEventMating: append([]FieldSpec{
		earNum,
		{Key: FieldDate, Aliases: []string{"Mat_date"}},
		{Key: FieldSire, Aliases: []string{"Mat_grouM_Sire"}},
	}, eventExtras...),
	PurposeEventLactation: append([]FieldSpec{
		earNum,
		{Key: FieldStartDate, Aliases: []string{"YeanDate"}},
		{Key: FieldEndDate, Aliases: []string{"DryOffDate"}},
		{Key: FieldCycle, Aliases: []string{"Lactation"}},
	}, eventExtras...),
	PurposeHistoryWeight: {
		earNum,
		{Key: FieldDate, Aliases: []string{"MeaDate"}},
		{Key: FieldValue, Aliases: []string{"Weight"}},
		{Key: FieldNotes, Aliases: []string{"Notes"}},
	},
	PurposeHistoryMilkYield: {
		earNum,
		{Key: FieldDate, Aliases: []string{"MeaDate"}},
		{Key: FieldValue, Aliases: []string{"Milk"}},
		{Key: FieldNotes, Aliases: []string{"Notes"}},
	},
	PurposeHistoryMilkFat: {
		earNum,
		{Key: FieldDate, Aliases: []string{"MeaDate"}},
		{Key: FieldValue, Aliases: []string{"AMFat"}},
		{Key: FieldNotes, Aliases: []string{"Notes"}},
	},
}

// FieldsFor returns the target fields a worksheet of purpose p may map.
func FieldsFor(p Purpose) []FieldSpec {
	if p == PurposeProfile {
		catalog := animal.Fields()
		out := make([]FieldSpec, 0, len(catalog)+1)
		out = append(out, earNum)
		for _, f := range catalog {
			spec := FieldSpec{Key: f.Key}
			if f.Legacy != "" {
				spec.Aliases = []string{f.Legacy}
			}
			out = append(out, spec)
		}
		return out
	}
	return purposeFields[p]
}

// CanonicalField resolves a document key to the canonical field key for p.
// Exact key and alias matches win over case-insensitive ones.
func CanonicalField(p Purpose, name string) (string, bool) {
	name = strings.TrimSpace(name)
	specs := FieldsFor(p)
	for _, spec := range specs {
		if spec.Key == name {
			return spec.Key, true
		}
		for _, a := range spec.Aliases {
			if a == name {
				return spec.Key, true
			}
		}
	}
	folded := strings.ToLower(name)
	for _, spec := range specs {
		if spec.Key == folded {
			return spec.Key, true
		}
		for _, a := range spec.Aliases {
			if strings.ToLower(a) == folded {
				return spec.Key, true
			}
		}
	}
	return "", false
}
