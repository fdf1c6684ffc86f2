package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customers-api/internal/domain"
	"github.com/jhoicas/customers-api/internal/domain/entity"
)

func ptr(s string) *string { return &s }

func TestNormalizeName_NFC(t *testing.T) {
	// "e" + acento combinante se guarda igual que "é" precompuesta
	assert.Equal(t, "Jos\u00e9", entity.NormalizeName("  Jose\u0301 "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Nil(t, entity.NormalizeEmail(nil))
	assert.Nil(t, entity.NormalizeEmail(ptr("   ")))
	assert.Equal(t, "a@b.c", *entity.NormalizeEmail(ptr(" a@b.c ")))
}

func TestCustomer_Apply(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := entity.Customer{ID: "id", FirstName: "Jane", LastName: "Doe", Email: ptr("jane@x.com"), CreatedAt: t0, UpdatedAt: t0}

	require.NoError(t, c.Apply(entity.CustomerPatch{LastName: ptr("Roe")}, t0.Add(time.Second)))
	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "Roe", c.LastName)
	assert.Equal(t, t0.Add(time.Second), c.UpdatedAt)

	// el reloj retrocede: UpdatedAt se mantiene
	require.NoError(t, c.Apply(entity.CustomerPatch{}, t0))
	assert.Equal(t, t0.Add(time.Second), c.UpdatedAt)

	require.NoError(t, c.Apply(entity.CustomerPatch{Email: ptr("")}, t0.Add(2*time.Second)))
	assert.Nil(t, c.Email)

	err := c.Apply(entity.CustomerPatch{FirstName: ptr("  ")}, t0.Add(3*time.Second))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerPatch_Empty(t *testing.T) {
	assert.True(t, entity.CustomerPatch{}.Empty())
	assert.False(t, entity.CustomerPatch{Email: ptr("")}.Empty())
}
