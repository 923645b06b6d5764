package event

import "context"

type Repository interface {
	CreateMany(ctx context.Context, events []Event) error
	List(ctx context.Context) ([]Event, error)
}
