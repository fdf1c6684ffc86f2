// Package gateway arma el Storage Gateway según el driver configurado.
package gateway

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/customers-api/internal/infrastructure/firestore"
	"github.com/jhoicas/customers-api/internal/infrastructure/postgres"
	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
	"github.com/jhoicas/customers-api/pkg/config"
	"github.com/jhoicas/customers-api/pkg/logger"
)

// Deps dependencias opcionales de instrumentación. Con Tracer nil no se instrumenta.
type Deps struct {
	Tracer   trace.Tracer
	Registry prometheus.Registerer
}

// New construye el gateway con los candidatos del driver configurado.
func New(cfg *config.Config, log *logger.Logger, deps Deps) *storage.Gateway {
	var opts []storage.Option
	if deps.Tracer != nil {
		metrics := storage.NewMetrics(deps.Registry)
		opts = append(opts, storage.WithWrapper(func(s storage.Store) storage.Store {
			return storage.Instrument(s, deps.Tracer, metrics)
		}))
	}
	return storage.NewGateway(log.Component("storage"), Candidates(cfg), opts...)
}

// Candidates fuentes de conexión para el driver configurado.
func Candidates(cfg *config.Config) []storage.Candidate {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return []storage.Candidate{postgres.Candidate(cfg.DB)}
	case config.DriverMemory:
		mem := storage.NewMemoryStore()
		return []storage.Candidate{{
			Name: "memory",
			Open: func(context.Context) (storage.Store, error) { return mem, nil },
		}}
	default:
		return firestore.Candidates(cfg.Store, cfg.App.EnvShort)
	}
}
