package sample

import "context"

type Repository interface {
	CreateMany(ctx context.Context, samples []Sample) error
	List(ctx context.Context) ([]Sample, error)
}
