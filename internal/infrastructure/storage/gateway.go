package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jhoicas/customers-api/internal/domain"
	"github.com/jhoicas/customers-api/pkg/logger"
)

// OpenFunc abre una conexión al almacén con una fuente de credenciales concreta.
type OpenFunc func(ctx context.Context) (Store, error)

// Candidate es una fuente de conexión que el gateway puede intentar.
// Si Path no está vacío, el candidato solo se intenta cuando el archivo existe.
type Candidate struct {
	Name string
	Path string
	Open OpenFunc
}

// Option configura el Gateway.
type Option func(*Gateway)

// WithWrapper decora el Store una vez abierto (instrumentación).
func WithWrapper(wrap func(Store) Store) Option {
	return func(g *Gateway) { g.wrap = wrap }
}

// Gateway entrega un handle listo para usar del almacén de documentos.
// La primera conexión exitosa se cachea para toda la vida del proceso.
type Gateway struct {
	mu         sync.Mutex
	store      Store
	source     string
	candidates []Candidate
	wrap       func(Store) Store
	log        *logger.Logger
}

// NewGateway construye el gateway con los candidatos en orden de prioridad.
func NewGateway(log *logger.Logger, candidates []Candidate, opts ...Option) *Gateway {
	g := &Gateway{candidates: candidates, log: log}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Connect devuelve el handle existente o recorre los candidatos en orden hasta que uno abra.
// Un candidato que falla se registra y se pasa al siguiente; los posteriores al primero
// exitoso nunca se intentan. Si ninguno abre devuelve domain.ErrStoreUnavailable y el
// siguiente llamado vuelve a intentar.
func (g *Gateway) Connect(ctx context.Context) (Store, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.store != nil {
		return g.store, nil
	}

	var errs []error
	for _, c := range g.candidates {
		if c.Path != "" && !fileExists(c.Path) {
			g.log.Debug().Str("source", c.Name).Str("path", c.Path).Msg("credenciales no encontradas, se omite")
			continue
		}
		// el handle vive más que la petición que lo abre
		st, err := c.Open(context.WithoutCancel(ctx))
		if err != nil {
			g.log.Warn().Err(err).Str("source", c.Name).Str("path", c.Path).Msg("no se pudo abrir el almacén, se intenta el siguiente")
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		if g.wrap != nil {
			st = g.wrap(st)
		}
		g.store = st
		g.source = c.Name
		g.log.Info().Str("source", c.Name).Str("path", c.Path).Msg("almacén de documentos conectado")
		return st, nil
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: ninguna fuente de credenciales disponible", domain.ErrStoreUnavailable)
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, errors.Join(errs...))
}

// Connected indica si ya hay un handle vivo (no intenta conectar).
func (g *Gateway) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store != nil
}

// Source nombre del candidato que abrió la conexión ("" si no hay conexión).
func (g *Gateway) Source() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.source
}

// Close libera el handle; un Connect posterior vuelve a descubrir credenciales.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.store == nil {
		return nil
	}
	err := g.store.Close()
	g.store = nil
	g.source = ""
	return err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
