package sample

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeBodyWeight Type = "body_weight_kg"
	TypeMilkYield  Type = "milk_yield_kg_day"
	TypeMilkFat    Type = "milk_fat_percentage"
)

// Sample is one dated measurement. Samples are never deduplicated.
type Sample struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	AnimalID   uuid.UUID
	Date       string
	Type       Type
	Value      decimal.Decimal
	Notes      *string
	RecordedAt time.Time
}

func New(ownerID, animalID uuid.UUID, date string, typ Type, value decimal.Decimal) Sample {
	return Sample{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		AnimalID: animalID,
		Date:     date,
		Type:     typ,
		Value:    value,
	}
}
