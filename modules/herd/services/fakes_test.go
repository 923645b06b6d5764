package services

import (
	"context"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/event"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/sample"
	"github.com/iota-uz/herdbook/pkg/composables"
)

// memStore is an in-memory herd database. memTx gives it transaction
// semantics by snapshotting before fn and restoring on error.
type memStore struct {
	animals map[uuid.UUID]animal.Animal
	events  []event.Event
	samples []sample.Sample

	failAnimalWrite  error
	failEventsCreate error
	commits          int
}

func newMemStore() *memStore {
	return &memStore{animals: map[uuid.UUID]animal.Animal{}}
}

type snapshot struct {
	animals map[uuid.UUID]animal.Animal
	events  []event.Event
	samples []sample.Sample
}

func (m *memStore) snapshot() snapshot {
	return snapshot{
		animals: maps.Clone(m.animals),
		events:  slices.Clone(m.events),
		samples: slices.Clone(m.samples),
	}
}

func (m *memStore) restore(s snapshot) {
	m.animals = s.animals
	m.events = s.events
	m.samples = s.samples
}

func (m *memStore) ownerAnimals(ctx context.Context) ([]animal.Animal, error) {
	ownerID, err := composables.UseOwnerID(ctx)
	if err != nil {
		return nil, err
	}
	var out []animal.Animal
	for _, a := range m.animals {
		if a.OwnerID() == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EarNum() < out[j].EarNum() })
	return out, nil
}

func (m *memStore) byEarNum(earNum string) (animal.Animal, bool) {
	for _, a := range m.animals {
		if a.EarNum() == earNum {
			return a, true
		}
	}
	return animal.Animal{}, false
}

type memTx struct{ store *memStore }

func (t memTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	t.store.commits++
	return nil
}

type recordingLocker struct {
	owners []uuid.UUID
}

func (l *recordingLocker) WithOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(context.Context) error) error {
	l.owners = append(l.owners, ownerID)
	return fn(ctx)
}

type memAnimals struct{ store *memStore }

func (r memAnimals) GetByEarNum(ctx context.Context, earNum string) (animal.Animal, error) {
	all, err := r.store.ownerAnimals(ctx)
	if err != nil {
		return animal.Animal{}, err
	}
	for _, a := range all {
		if a.EarNum() == earNum {
			return a, nil
		}
	}
	return animal.Animal{}, animal.ErrNotFound
}

func (r memAnimals) EarNumIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	all, err := r.store.ownerAnimals(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]uuid.UUID, len(all))
	for _, a := range all {
		index[a.EarNum()] = a.ID()
	}
	return index, nil
}

func (r memAnimals) List(ctx context.Context) ([]animal.Animal, error) {
	return r.store.ownerAnimals(ctx)
}

func (r memAnimals) Create(ctx context.Context, a animal.Animal) (animal.Animal, error) {
	if r.store.failAnimalWrite != nil {
		return animal.Animal{}, r.store.failAnimalWrite
	}
	if _, err := r.GetByEarNum(ctx, a.EarNum()); err == nil {
		return animal.Animal{}, animal.ErrEarNumTaken
	}
	now := time.Now()
	stored := animal.Hydrate(a.ID(), a.OwnerID(), a.EarNum(), a.Attributes(), now, now)
	r.store.animals[a.ID()] = stored
	return stored, nil
}

func (r memAnimals) Update(ctx context.Context, a animal.Animal) (animal.Animal, error) {
	if r.store.failAnimalWrite != nil {
		return animal.Animal{}, r.store.failAnimalWrite
	}
	prev, ok := r.store.animals[a.ID()]
	if !ok {
		return animal.Animal{}, animal.ErrNotFound
	}
	stored := animal.Hydrate(a.ID(), a.OwnerID(), a.EarNum(), a.Attributes(), prev.CreatedAt(), time.Now())
	r.store.animals[a.ID()] = stored
	return stored, nil
}

type memEvents struct{ store *memStore }

func (r memEvents) CreateMany(_ context.Context, events []event.Event) error {
	if r.store.failEventsCreate != nil {
		return r.store.failEventsCreate
	}
	r.store.events = append(r.store.events, events...)
	return nil
}

func (r memEvents) List(ctx context.Context) ([]event.Event, error) {
	ownerID, err := composables.UseOwnerID(ctx)
	if err != nil {
		return nil, err
	}
	var out []event.Event
	for _, e := range r.store.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memSamples struct{ store *memStore }

func (r memSamples) CreateMany(_ context.Context, samples []sample.Sample) error {
	r.store.samples = append(r.store.samples, samples...)
	return nil
}

func (r memSamples) List(ctx context.Context) ([]sample.Sample, error) {
	ownerID, err := composables.UseOwnerID(ctx)
	if err != nil {
		return nil, err
	}
	var out []sample.Sample
	for _, s := range r.store.samples {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fixture struct {
	store  *memStore
	locker *recordingLocker
	svc    *ImportService
	export *ExportService
}

func newFixture() *fixture {
	store := newMemStore()
	locker := &recordingLocker{}
	return &fixture{
		store:  store,
		locker: locker,
		svc: NewImportService(
			memAnimals{store}, memEvents{store}, memSamples{store},
			memTx{store}, locker,
		),
		export: NewExportService(memAnimals{store}, memEvents{store}, memSamples{store}),
	}
}
