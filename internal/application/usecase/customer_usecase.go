package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/customers-api/internal/application/dto"
	"github.com/jhoicas/customers-api/internal/domain"
	"github.com/jhoicas/customers-api/internal/domain/entity"
	"github.com/jhoicas/customers-api/internal/domain/repository"
	"github.com/jhoicas/customers-api/pkg/logger"
)

// CustomerOption configura el caso de uso.
type CustomerOption func(*CustomerUseCase)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) CustomerOption {
	return func(uc *CustomerUseCase) { uc.now = now }
}

// WithIDGenerator reemplaza el generador de IDs (tests).
func WithIDGenerator(newID func() string) CustomerOption {
	return func(uc *CustomerUseCase) { uc.newID = newID }
}

// CustomerUseCase casos de uso CRUD para clientes. Cada lectura va al almacén, sin caché.
type CustomerUseCase struct {
	repo  repository.CustomerRepository
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, log *logger.Logger, opts ...CustomerOption) *CustomerUseCase {
	uc := &CustomerUseCase{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// timestamp en UTC con precisión de microsegundos, la que conserva el almacén.
func (uc *CustomerUseCase) timestamp() time.Time {
	return uc.now().UTC().Truncate(time.Microsecond)
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := uc.timestamp()
	customer := &entity.Customer{
		ID:        uc.newID(),
		FirstName: entity.NormalizeName(in.FirstName),
		LastName:  entity.NormalizeName(in.LastName),
		Email:     entity.NormalizeEmail(in.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, uc.fail(err, "create", customer.ID)
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail(err, "get", id)
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List devuelve hasta limit clientes en el orden del almacén.
func (uc *CustomerUseCase) List(ctx context.Context, limit int) ([]dto.CustomerResponse, error) {
	req := dto.ListRequest{Limit: limit}
	req.Normalize()
	list, err := uc.repo.List(ctx, req.Limit)
	if err != nil {
		return nil, uc.fail(err, "list", "")
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return items, nil
}

// Update aplica una actualización parcial. Solo se escriben los campos presentes y no null.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail(err, "update", id)
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	patch := entity.CustomerPatch{
		FirstName: in.FirstName.Ptr(),
		LastName:  in.LastName.Ptr(),
		Email:     in.Email.Ptr(),
	}
	if err := customer.Apply(patch, uc.timestamp()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, uc.fail(err, "update", id)
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente. Falla con ErrNotFound si no existe.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return uc.fail(err, "delete", id)
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return uc.fail(err, "delete", id)
	}
	return nil
}

// fail registra los errores de almacenamiento; NotFound y validación no son errores del servicio.
func (uc *CustomerUseCase) fail(err error, op, id string) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Str("customer_id", id).Msg("operación de cliente fallida")
	return err
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
