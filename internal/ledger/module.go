package ledger

import (
	"context"

	"github.com/MidasLamb/banking-exercise/internal/ledger/event"
	"github.com/MidasLamb/banking-exercise/internal/ledger/inbound"
	"github.com/MidasLamb/banking-exercise/internal/ledger/store"
	"github.com/MidasLamb/banking-exercise/internal/ledger/usecase"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgconfig"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgrouter"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgroutine"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	EventID   pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	registry := store.NewRegistry()
	batches := store.NewBatchStore()

	bus := event.NewBus(int(dep.Config.GetInt("ledger.event.buffer")))
	consumer := event.NewLockConsumer(bus, event.LogNotifier{}, event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("ledger.event.workers")),
		MaxRetries:  int(dep.Config.GetInt("ledger.event.max_retries")),
		BaseBackoff: dep.Config.GetDuration("ledger.event.base_backoff"),
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	uc := usecase.New(usecase.Dependency{
		Store:   batches,
		Ledger:  registry,
		Events:  bus,
		Runner:  dep.Goroutine,
		ID:      dep.ID,
		EventID: dep.EventID,
		Strict:  dep.Config.GetBool("ledger.strict"),
		RootCtx: dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return consumer.Stop, nil
}
