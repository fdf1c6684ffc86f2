package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
	"github.com/jhoicas/customers-api/pkg/config"
)

var _ storage.Store = (*DocumentStore)(nil)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT  NOT NULL,
		id         TEXT  NOT NULL,
		data       JSONB NOT NULL,
		PRIMARY KEY (collection, id)
	)`

// DocumentStore guarda documentos como JSONB en una sola tabla, indexados por (colección, id).
type DocumentStore struct {
	q       Querier
	onClose func()
}

// NewDocumentStore construye el store. onClose se llama en Close (puede ser nil).
func NewDocumentStore(q Querier, onClose func()) *DocumentStore {
	return &DocumentStore{q: q, onClose: onClose}
}

// EnsureSchema crea la tabla si no existe.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear tabla documents: %w", err)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (storage.Document, bool, error) {
	var data map[string]any
	err := s.q.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get document: %w", err)
	}
	return storage.Document(data), true, nil
}

// Set hace upsert del documento completo.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, doc storage.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`
	if _, err := s.q.Exec(ctx, query, collection, id, string(raw)); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// List devuelve hasta limit documentos ordenados por id.
func (s *DocumentStore) List(ctx context.Context, collection string, limit int) ([]storage.Entry, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id LIMIT $2`, collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []storage.Entry
	for rows.Next() {
		var (
			id   string
			data map[string]any
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, storage.Entry{ID: id, Data: data})
	}
	return out, rows.Err()
}

func (s *DocumentStore) Close() error {
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

// Candidate única fuente de conexión para el driver postgres: DATABASE_URL o DB_*.
func Candidate(cfg config.DBConfig) storage.Candidate {
	return storage.Candidate{
		Name: "postgres",
		Open: func(ctx context.Context) (storage.Store, error) {
			pool, err := NewPool(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return open(ctx, pool)
		},
	}
}

func open(ctx context.Context, pool *pgxpool.Pool) (storage.Store, error) {
	st := NewDocumentStore(pool, pool.Close)
	if err := st.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return st, nil
}
