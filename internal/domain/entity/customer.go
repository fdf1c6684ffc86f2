package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/customers-api/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Customer representa un cliente. El ID lo asigna el servicio y es la llave del documento.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     *string // nil = sin email
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerPatch actualización parcial: solo se aplican los campos no nil.
// ID y CreatedAt no forman parte del patch, por lo que nunca se sobrescriben.
type CustomerPatch struct {
	FirstName *string
	LastName  *string
	Email     *string // "" borra el email
}

// Empty indica si el patch no trae ningún campo.
func (p CustomerPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// NormalizeName recorta espacios y normaliza a NFC para que nombres equivalentes se guarden igual.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeEmail recorta espacios; un email vacío se guarda como nil.
func NormalizeEmail(s *string) *string {
	if s == nil {
		return nil
	}
	e := strings.TrimSpace(*s)
	if e == "" {
		return nil
	}
	return &e
}

// Validate verifica los campos obligatorios.
func (c *Customer) Validate() error {
	if c.FirstName == "" || c.LastName == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply aplica el patch y refresca UpdatedAt. UpdatedAt nunca retrocede respecto al valor previo.
func (c *Customer) Apply(p CustomerPatch, now time.Time) error {
	if p.FirstName != nil {
		c.FirstName = NormalizeName(*p.FirstName)
	}
	if p.LastName != nil {
		c.LastName = NormalizeName(*p.LastName)
	}
	if p.Email != nil {
		c.Email = NormalizeEmail(p.Email)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if now.Before(c.UpdatedAt) {
		now = c.UpdatedAt
	}
	c.UpdatedAt = now
	return nil
}
