package animal

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByEarNum(ctx context.Context, earNum string) (Animal, error)
	// EarNumIndex maps every ear number of the owner in context to its id.
	EarNumIndex(ctx context.Context) (map[string]uuid.UUID, error)
	List(ctx context.Context) ([]Animal, error)
	Create(ctx context.Context, a Animal) (Animal, error)
	Update(ctx context.Context, a Animal) (Animal, error)
}
