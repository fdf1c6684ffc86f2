// seed carga clientes desde un CSV usando el mismo caso de uso que la API.
//
// Uso: go run ./cmd/seed -file customers.csv [-charset iso-8859-1] [-dry-run]
// El CSV debe tener cabecera first_name,last_name[,email].
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/customers-api/internal/application/usecase"
	"github.com/jhoicas/customers-api/internal/domain"
	"github.com/jhoicas/customers-api/internal/infrastructure/gateway"
	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
	"github.com/jhoicas/customers-api/pkg/config"
	"github.com/jhoicas/customers-api/pkg/logger"
)

func main() {
	file := flag.String("file", "customers.csv", "ruta del CSV")
	charset := flag.String("charset", "utf-8", "codificación del CSV: utf-8, iso-8859-1, windows-1252")
	dryRun := flag.Bool("dry-run", false, "valida el archivo sin escribir en el almacén")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decoder(*charset, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	rows, err := readRows(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	gw := gateway.New(cfg, log, gateway.Deps{})
	repo := storage.NewCustomerRepository(gw, cfg.Store.Collection)
	if *dryRun {
		repo = storage.NewCustomerRepository(dryRunConnector{}, cfg.Store.Collection)
	}
	uc := usecase.NewCustomerUseCase(repo, log.Component("seed"))

	created, skipped := seed(context.Background(), uc, rows)
	if gw.Connected() {
		log.Info().Str("source", gw.Source()).Msg("almacén usado")
	}
	if err := gw.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar almacén de documentos")
	}
	fmt.Printf("Procesadas %d filas: %d creadas, %d omitidas (dry-run=%t)\n", len(rows), created, skipped, *dryRun)
	if skipped > 0 {
		os.Exit(2)
	}
}

// seed crea cada fila; las inválidas se reportan y se omiten. Un almacén no disponible aborta.
func seed(ctx context.Context, uc *usecase.CustomerUseCase, rows []row) (created, skipped int) {
	for i, r := range rows {
		out, err := uc.Create(ctx, r.in)
		switch {
		case err == nil:
			created++
			fmt.Printf("línea %d: %s %s -> %s\n", r.line, out.FirstName, out.LastName, out.ID)
		case errors.Is(err, domain.ErrStoreUnavailable):
			fmt.Fprintf(os.Stderr, "línea %d: %v\n", r.line, err)
			return created, skipped + len(rows) - i
		default:
			skipped++
			fmt.Fprintf(os.Stderr, "línea %d: %v\n", r.line, err)
		}
	}
	return created, skipped
}

// dryRunConnector usa un almacén en memoria descartable.
type dryRunConnector struct{}

func (dryRunConnector) Connect(context.Context) (storage.Store, error) {
	return storage.NewMemoryStore(), nil
}
