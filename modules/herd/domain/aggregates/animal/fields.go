package animal

import "strings"

type Kind int

const (
	KindText Kind = iota
	KindDate
	KindNumber
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	default:
		return "text"
	}
}

// CodeTable names the lookup table a categorical field is substituted from.
type CodeTable string

const (
	CodeTableNone  CodeTable = ""
	CodeTableBreed CodeTable = "breed"
	CodeTableSex   CodeTable = "sex"
)

// Field describes one profile attribute: its canonical key (also the column
// name), the vendor column name of the standard template, and its kind.
type Field struct {
	Key       string
	Legacy    string
	Kind      Kind
	CodeTable CodeTable

	text    func(*Attributes) **string
	number  func(*Attributes) **float64
	integer func(*Attributes) **int
}

func (f Field) Text(a Attributes) *string    { return *f.text(&a) }
func (f Field) Number(a Attributes) *float64 { return *f.number(&a) }
func (f Field) Integer(a Attributes) *int    { return *f.integer(&a) }

func (f Field) SetText(a *Attributes, v *string)    { *f.text(a) = v }
func (f Field) SetNumber(a *Attributes, v *float64) { *f.number(a) = v }
func (f Field) SetInteger(a *Attributes, v *int)    { *f.integer(a) = v }

// Value returns the stored value as *string, *float64 or *int.
func (f Field) Value(a Attributes) any {
	switch f.Kind {
	case KindNumber:
		return f.Number(a)
	case KindInteger:
		return f.Integer(a)
	default:
		return f.Text(a)
	}
}

func text(key, legacy string, get func(*Attributes) **string) Field {
	return Field{Key: key, Legacy: legacy, Kind: KindText, text: get}
}

func date(key, legacy string, get func(*Attributes) **string) Field {
	return Field{Key: key, Legacy: legacy, Kind: KindDate, text: get}
}

func number(key, legacy string, get func(*Attributes) **float64) Field {
	return Field{Key: key, Legacy: legacy, Kind: KindNumber, number: get}
}

func integer(key, legacy string, get func(*Attributes) **int) Field {
	return Field{Key: key, Legacy: legacy, Kind: KindInteger, integer: get}
}

func coded(f Field, table CodeTable) Field {
	f.CodeTable = table
	return f
}

// EarNumKey is the natural key column. It is not an attribute.
const (
	EarNumKey    = "ear_num"
	EarNumLegacy = "EarNum"
)

var fields = []Field{
	date("birth_date", "BirthDate", func(a *Attributes) **string { return &a.BirthDate }),
	coded(text("sex", "Sex", func(a *Attributes) **string { return &a.Sex }), CodeTableSex),
	coded(text("breed", "Breed", func(a *Attributes) **string { return &a.Breed }), CodeTableBreed),
	text("sire", "Sire", func(a *Attributes) **string { return &a.Sire }),
	text("dam", "Dam", func(a *Attributes) **string { return &a.Dam }),

	number("birth_weight", "BirWei", func(a *Attributes) **float64 { return &a.BirthWeight }),
	text("sire_breed", "SireBre", func(a *Attributes) **string { return &a.SireBreed }),
	text("dam_breed", "DamBre", func(a *Attributes) **string { return &a.DamBreed }),
	text("move_cause", "MoveCau", func(a *Attributes) **string { return &a.MoveCause }),
	date("move_date", "MoveDate", func(a *Attributes) **string { return &a.MoveDate }),
	text("class", "Class", func(a *Attributes) **string { return &a.Class }),
	integer("litter_size", "LittleSize", func(a *Attributes) **int { return &a.LitterSize }),
	integer("lactation", "Lactation", func(a *Attributes) **int { return &a.Lactation }),
	text("management_class", "ManaClas", func(a *Attributes) **string { return &a.ManagementClass }),
	text("farm_num", "FarmNum", func(a *Attributes) **string { return &a.FarmNum }),
	text("record_uid", "RUni", func(a *Attributes) **string { return &a.RecordUID }),

	number("body_weight_kg", "Body_Weight_kg", func(a *Attributes) **float64 { return &a.BodyWeightKg }),
	integer("age_months", "Age_Months", func(a *Attributes) **int { return &a.AgeMonths }),
	text("breed_category", "", func(a *Attributes) **string { return &a.BreedCategory }),
	text("status", "", func(a *Attributes) **string { return &a.Status }),
	text("status_description", "", func(a *Attributes) **string { return &a.StatusDescription }),
	number("target_average_daily_gain_g", "", func(a *Attributes) **float64 { return &a.TargetAverageDailyGainG }),
	number("milk_yield_kg_day", "", func(a *Attributes) **float64 { return &a.MilkYieldKgDay }),
	number("milk_fat_percentage", "", func(a *Attributes) **float64 { return &a.MilkFatPercentage }),
	integer("number_of_fetuses", "", func(a *Attributes) **int { return &a.NumberOfFetuses }),
	number("expected_fiber_yield_g_day", "", func(a *Attributes) **float64 { return &a.ExpectedFiberYieldGDay }),
	text("activity_level", "", func(a *Attributes) **string { return &a.ActivityLevel }),

	text("other_remarks", "", func(a *Attributes) **string { return &a.OtherRemarks }),
	text("agent_notes", "", func(a *Attributes) **string { return &a.AgentNotes }),
	date("next_vaccination_due_date", "", func(a *Attributes) **string { return &a.NextVaccinationDueDate }),
	date("next_deworming_due_date", "", func(a *Attributes) **string { return &a.NextDewormingDueDate }),
	date("expected_lambing_date", "", func(a *Attributes) **string { return &a.ExpectedLambingDate }),

	text("manure_management", "", func(a *Attributes) **string { return &a.ManureManagement }),
	text("primary_forage_type", "", func(a *Attributes) **string { return &a.PrimaryForageType }),
	integer("welfare_score", "", func(a *Attributes) **int { return &a.WelfareScore }),
}

var (
	byKey    = make(map[string]Field, len(fields))
	byLegacy = make(map[string]Field, len(fields))
	byFolded = make(map[string]Field, 2*len(fields))
)

func init() {
	for _, f := range fields {
		byKey[f.Key] = f
		byFolded[strings.ToLower(f.Key)] = f
		if f.Legacy != "" {
			byLegacy[f.Legacy] = f
			byFolded[strings.ToLower(f.Legacy)] = f
		}
	}
}

// Fields returns the catalog in column order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// LookupField resolves a canonical key or a legacy vendor name. Exact
// matches win over case-insensitive ones.
func LookupField(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	if f, ok := byKey[name]; ok {
		return f, true
	}
	if f, ok := byLegacy[name]; ok {
		return f, true
	}
	f, ok := byFolded[strings.ToLower(name)]
	return f, ok
}
