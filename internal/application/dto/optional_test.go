package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customers-api/internal/application/dto"
)

func TestUpdateCustomerRequest_AusenteNullValor(t *testing.T) {
	var in dto.UpdateCustomerRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"jane@y.com","last_name":null}`), &in))

	assert.False(t, in.FirstName.Present)
	assert.Nil(t, in.FirstName.Ptr())

	assert.True(t, in.LastName.Present)
	assert.True(t, in.LastName.Null)
	assert.Nil(t, in.LastName.Ptr(), "null explícito no modifica el campo")

	require.NotNil(t, in.Email.Ptr())
	assert.Equal(t, "jane@y.com", *in.Email.Ptr())
}

func TestOptional_TipoInvalido(t *testing.T) {
	var in dto.UpdateCustomerRequest
	assert.Error(t, json.Unmarshal([]byte(`{"first_name":42}`), &in))
}

func TestListRequest_Normalize(t *testing.T) {
	cases := map[int]int{0: 100, -5: 100, 2: 2, 1000: 1000, 5000: 1000}
	for in, want := range cases {
		r := dto.ListRequest{Limit: in}
		r.Normalize()
		assert.Equal(t, want, r.Limit, "limit=%d", in)
	}
}

func TestCustomerResponse_EmailNull(t *testing.T) {
	raw, err := json.Marshal(dto.CustomerResponse{ID: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email":null`)
}
