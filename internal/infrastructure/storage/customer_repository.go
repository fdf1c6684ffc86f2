package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/customers-api/internal/domain"
	"github.com/jhoicas/customers-api/internal/domain/entity"
	"github.com/jhoicas/customers-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// Connector entrega el Store activo (lo implementa *Gateway).
type Connector interface {
	Connect(ctx context.Context) (Store, error)
}

// CustomerRepository implementa repository.CustomerRepository sobre el almacén de documentos.
type CustomerRepository struct {
	conn       Connector
	collection string
}

// NewCustomerRepository crea el adaptador para la colección indicada.
func NewCustomerRepository(conn Connector, collection string) *CustomerRepository {
	return &CustomerRepository{conn: conn, collection: collection}
}

func (r *CustomerRepository) store(ctx context.Context) (Store, error) {
	st, err := r.conn.Connect(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return st, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	st, err := r.store(ctx)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, r.collection, c.ID, customerToDocument(c)); err != nil {
		return fmt.Errorf("%w: create customer %s: %w", domain.ErrPersistence, c.ID, err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	st, err := r.store(ctx)
	if err != nil {
		return nil, err
	}
	doc, found, err := st.Get(ctx, r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get customer %s: %w", domain.ErrPersistence, id, err)
	}
	if !found {
		return nil, nil
	}
	c, err := documentToCustomer(id, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode customer %s: %w", domain.ErrPersistence, id, err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, limit int) ([]*entity.Customer, error) {
	st, err := r.store(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := st.List(ctx, r.collection, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list customers: %w", domain.ErrPersistence, err)
	}
	out := make([]*entity.Customer, 0, len(entries))
	for _, e := range entries {
		c, err := documentToCustomer(e.ID, e.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: decode customer %s: %w", domain.ErrPersistence, e.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Update reemplaza el documento completo (last-write-wins).
func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	st, err := r.store(ctx)
	if err != nil {
		return err
	}
	if err := st.Set(ctx, r.collection, c.ID, customerToDocument(c)); err != nil {
		return fmt.Errorf("%w: update customer %s: %w", domain.ErrPersistence, c.ID, err)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	st, err := r.store(ctx)
	if err != nil {
		return err
	}
	if err := st.Delete(ctx, r.collection, id); err != nil {
		return fmt.Errorf("%w: delete customer %s: %w", domain.ErrPersistence, id, err)
	}
	return nil
}

// customerToDocument no incluye el ID: es la llave del documento.
func customerToDocument(c *entity.Customer) Document {
	var email any
	if c.Email != nil {
		email = *c.Email
	}
	return Document{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"email":      email,
		"created_at": c.CreatedAt.UTC(),
		"updated_at": c.UpdatedAt.UTC(),
	}
}

func documentToCustomer(id string, d Document) (*entity.Customer, error) {
	c := &entity.Customer{ID: id}
	var err error
	if c.FirstName, err = stringField(d, "first_name"); err != nil {
		return nil, err
	}
	if c.LastName, err = stringField(d, "last_name"); err != nil {
		return nil, err
	}
	switch v := d["email"].(type) {
	case nil:
	case string:
		c.Email = &v
	default:
		return nil, fmt.Errorf("campo email: tipo %T", v)
	}
	if c.CreatedAt, err = timeField(d, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = timeField(d, "updated_at"); err != nil {
		return nil, err
	}
	return c, nil
}

func stringField(d Document, key string) (string, error) {
	switch v := d[key].(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("campo %s: tipo %T", key, v)
	}
}

// timeField acepta time.Time (Firestore, memoria) o RFC 3339 (JSONB en Postgres).
func timeField(d Document, key string) (time.Time, error) {
	switch v := d[key].(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("campo %s: %w", key, err)
		}
		return t.UTC(), nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("campo %s: tipo %T", key, v)
	}
}
