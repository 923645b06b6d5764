// Package herd assembles the herd import module from its Postgres-backed
// repositories and services.
package herd

import (
	"github.com/iota-uz/herdbook/modules/herd/infrastructure/persistence"
	"github.com/iota-uz/herdbook/modules/herd/services"
)

type Options struct {
	// OwnerLock serializes imports of one owner across processes.
	OwnerLock bool
}

type Module struct {
	Import  *services.ImportService
	Analyze *services.AnalyzeService
	Export  *services.ExportService
}

// NewModule wires the services. Repositories read the pool or transaction
// from the context, so the caller attaches a pool with composables.WithPool.
func NewModule(opts Options) *Module {
	animals := persistence.NewAnimalRepository()
	events := persistence.NewEventRepository()
	samples := persistence.NewSampleRepository()

	var locker services.OwnerLocker = persistence.NopLocker{}
	if opts.OwnerLock {
		locker = persistence.NewOwnerLocker()
	}

	return &Module{
		Import:  services.NewImportService(animals, events, samples, persistence.NewTransactor(), locker),
		Analyze: services.NewAnalyzeService(),
		Export:  services.NewExportService(animals, events, samples),
	}
}

func (m *Module) Name() string {
	return "herd"
}
