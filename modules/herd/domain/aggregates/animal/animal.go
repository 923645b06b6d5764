package animal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Animal is a herd profile keyed by (owner, ear number).
type Animal struct {
	id         uuid.UUID
	ownerID    uuid.UUID
	earNum     string
	attributes Attributes
	createdAt  time.Time
	updatedAt  time.Time
}

func New(ownerID uuid.UUID, earNum string) Animal {
	return Animal{
		id:      uuid.New(),
		ownerID: ownerID,
		earNum:  normalizeEarNum(earNum),
	}
}

func Hydrate(
	id uuid.UUID,
	ownerID uuid.UUID,
	earNum string,
	attributes Attributes,
	createdAt time.Time,
	updatedAt time.Time,
) Animal {
	return Animal{
		id:         id,
		ownerID:    ownerID,
		earNum:     normalizeEarNum(earNum),
		attributes: attributes,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (a Animal) ID() uuid.UUID          { return a.id }
func (a Animal) OwnerID() uuid.UUID     { return a.ownerID }
func (a Animal) EarNum() string         { return a.earNum }
func (a Animal) Attributes() Attributes { return a.attributes }
func (a Animal) CreatedAt() time.Time   { return a.createdAt }
func (a Animal) UpdatedAt() time.Time   { return a.updatedAt }
func normalizeEarNum(v string) string   { return strings.TrimSpace(v) }

// Assign converts raw according to the field kind and stores it, overwriting
// any previous value. A value that does not convert clears the field and the
// conversion error is returned.
func (a *Animal) Assign(f Field, raw string) error {
	return a.attributes.Assign(f, raw)
}
