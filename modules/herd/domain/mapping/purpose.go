package mapping

import "strings"

// Purpose tells the pipeline what a worksheet holds.
type Purpose string

const (
	PurposeIgnore           Purpose = "ignore"
	PurposeProfile          Purpose = "profile"
	PurposeCodeTableBreed   Purpose = "code_table_breed"
	PurposeCodeTableSex     Purpose = "code_table_sex"
	PurposeEventKidding     Purpose = "event_kidding"
	PurposeEventMating      Purpose = "event_mating"
	PurposeEventLactation   Purpose = "event_lactation_cycle"
	PurposeHistoryWeight    Purpose = "history_weight"
	PurposeHistoryMilkYield Purpose = "history_milk_yield"
	PurposeHistoryMilkFat   Purpose = "history_milk_fat"
)

var purposeAliases = map[string]Purpose{
	"basic_info":           PurposeProfile,
	"breed_mapping":        PurposeCodeTableBreed,
	"sex_mapping":          PurposeCodeTableSex,
	"kidding_record":       PurposeEventKidding,
	"mating_record":        PurposeEventMating,
	"yean_record":          PurposeEventLactation,
	"weight_record":        PurposeHistoryWeight,
	"milk_yield_record":    PurposeHistoryMilkYield,
	"milk_analysis_record": PurposeHistoryMilkFat,
}

// Purposes lists every non-ignore purpose in processing order.
func Purposes() []Purpose {
	return []Purpose{
		PurposeCodeTableBreed,
		PurposeCodeTableSex,
		PurposeProfile,
		PurposeEventKidding,
		PurposeEventMating,
		PurposeEventLactation,
		PurposeHistoryWeight,
		PurposeHistoryMilkYield,
		PurposeHistoryMilkFat,
	}
}

// ParsePurpose maps a document value to a Purpose. Legacy names are
// accepted; anything unrecognized is PurposeIgnore.
func ParsePurpose(raw string) Purpose {
	s := strings.ToLower(strings.TrimSpace(raw))
	if p, ok := purposeAliases[s]; ok {
		return p
	}
	p := Purpose(s)
	for _, known := range Purposes() {
		if p == known {
			return p
		}
	}
	return PurposeIgnore
}

func (p Purpose) IsCodeTable() bool {
	return p == PurposeCodeTableBreed || p == PurposeCodeTableSex
}

func (p Purpose) IsEvent() bool {
	return p == PurposeEventKidding || p == PurposeEventMating || p == PurposeEventLactation
}

func (p Purpose) IsHistory() bool {
	return p == PurposeHistoryWeight || p == PurposeHistoryMilkYield || p == PurposeHistoryMilkFat
}

// IsDerived reports whether rows of this purpose hang off an existing profile.
func (p Purpose) IsDerived() bool {
	return p.IsEvent() || p.IsHistory()
}
