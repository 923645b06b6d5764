package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeKidding        Type = "kidding"
	TypeMating         Type = "mating"
	TypeLactationStart Type = "lactation start"
	TypeLactationEnd   Type = "lactation end"
)

// Event is an append-only dated occurrence on one animal.
type Event struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	AnimalID       uuid.UUID
	Date           string
	Type           Type
	Description    *string
	Notes          *string
	Medication     *string
	WithdrawalDays *int
	RecordedAt     time.Time
}

func New(ownerID, animalID uuid.UUID, date string, typ Type) Event {
	return Event{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		AnimalID: animalID,
		Date:     date,
		Type:     typ,
	}
}
