package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customers-api/internal/application/dto"
	"github.com/jhoicas/customers-api/internal/application/usecase"
	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/customers-api/internal/interfaces/http"
	"github.com/jhoicas/customers-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp construye la app con el gateway dado y el ErrorHandler de producción.
func buildTestApp(gw *storage.Gateway) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	uc := usecase.NewCustomerUseCase(storage.NewCustomerRepository(gw, "customers"), logger.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC: uc,
		Health:     apphttp.NewHealthHandler(apphttp.ServiceInfo{Name: "customers-api", Version: "0.1.0", Environment: "development", ProjectID: "local"}, gw),
		SwaggerDoc: func() string { return `{"swagger":"2.0"}` },
	})
	return app
}

func memoryGateway() *storage.Gateway {
	mem := storage.NewMemoryStore()
	return storage.NewGateway(logger.Nop(), []storage.Candidate{{
		Name: "memory",
		Open: func(context.Context) (storage.Store, error) { return mem, nil },
	}})
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomers_CicloCompleto(t *testing.T) {
	app := buildTestApp(memoryGateway())

	resp, raw := do(t, app, http.MethodPost, "/api/customers", `{"first_name":"Jane","last_name":"Doe","email":"jane@x.com"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var created dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	resp, raw = do(t, app, http.MethodGet, "/api/customers/"+created.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, created.ID, got.ID)

	resp, raw = do(t, app, http.MethodPut, "/api/customers/"+created.ID, `{"email":"jane@y.com"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var updated dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, "jane@y.com", *updated.Email)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	resp, raw = do(t, app, http.MethodGet, "/api/customers", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)

	resp, raw = do(t, app, http.MethodDelete, "/api/customers/"+created.ID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, raw)

	resp, raw = do(t, app, http.MethodGet, "/api/customers/"+created.ID, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

func TestCustomers_EmailAusenteSeSerializaNull(t *testing.T) {
	app := buildTestApp(memoryGateway())
	resp, raw := do(t, app, http.MethodPost, "/api/customers", `{"first_name":"Ana","last_name":"Pérez"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m["email"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestCustomers_Validacion(t *testing.T) {
	app := buildTestApp(memoryGateway())

	resp, raw := do(t, app, http.MethodPost, "/api/customers", `{"first_name":"Jane"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)

	resp, raw = do(t, app, http.MethodPost, "/api/customers", `{"first_name":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, raw).Code)

	resp, raw = do(t, app, http.MethodGet, "/api/customers?limit=abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)
}

func TestCustomers_InexistenteDevuelve404(t *testing.T) {
	app := buildTestApp(memoryGateway())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp, _ := do(t, app, method, "/api/customers/nonexistent-id", "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, method)
	}
	resp, _ := do(t, app, http.MethodPut, "/api/customers/nonexistent-id", `{"first_name":"X"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCustomers_ListLimit(t *testing.T) {
	app := buildTestApp(memoryGateway())
	for i := 0; i < 5; i++ {
		resp, _ := do(t, app, http.MethodPost, "/api/customers", `{"first_name":"Jane","last_name":"Doe"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, raw := do(t, app, http.MethodGet, "/api/customers?limit=2", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 2)
}

func TestCustomers_ListVacioEsArreglo(t *testing.T) {
	app := buildTestApp(memoryGateway())
	resp, raw := do(t, app, http.MethodGet, "/api/customers", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCustomers_AlmacenNoDisponibleNoFiltraDetalle(t *testing.T) {
	gw := storage.NewGateway(logger.Nop(), []storage.Candidate{{
		Name: "default",
		Open: func(context.Context) (storage.Store, error) {
			return nil, errors.New("google: could not find default credentials")
		},
	}})
	app := buildTestApp(gw)

	resp, raw := do(t, app, http.MethodGet, "/api/customers", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	out := decodeError(t, raw)
	assert.Equal(t, "STORE_UNAVAILABLE", out.Code)
	assert.NotContains(t, string(raw), "credentials")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests sondas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_Sondas(t *testing.T) {
	app := buildTestApp(memoryGateway())

	cases := map[string]string{
		"/api/health/live":  `{"status":"alive"}`,
		"/api/health/ready": `{"status":"ready"}`,
		"/api/ready":        `{"status":"ready"}`,
		"/":                 `{"message":"Welcome to customers-api"}`,
		"/swagger.json":     `{"swagger":"2.0"}`,
	}
	for path, want := range cases {
		resp, raw := do(t, app, http.MethodGet, path, "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, want, string(raw), path)
	}
}

func TestHealth_DependenciaStore(t *testing.T) {
	gw := memoryGateway()
	app := buildTestApp(gw)

	_, raw := do(t, app, http.MethodGet, "/health", "")
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "ok", m["status"])
	assert.Equal(t, "local", m["project_id"])
	assert.Equal(t, map[string]any{"store": "not_connected"}, m["dependencies"])

	_, err := gw.Connect(context.Background())
	require.NoError(t, err)
	_, raw = do(t, app, http.MethodGet, "/health", "")
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, map[string]any{"store": "connected"}, m["dependencies"])
}

func TestHealth_DetalladoYStatus(t *testing.T) {
	app := buildTestApp(memoryGateway())

	_, raw := do(t, app, http.MethodGet, "/api/health", "")
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "healthy", m["status"])
	assert.Equal(t, "0.1.0", m["version"])
	assert.Contains(t, m, "system_info")

	_, raw = do(t, app, http.MethodGet, "/api/v1/status", "")
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, true, m["unauthenticated"])
	assert.Equal(t, "customers-api", m["service"])
}

func TestRutaInexistente(t *testing.T) {
	app := buildTestApp(memoryGateway())
	resp, raw := do(t, app, http.MethodGet, "/no-existe", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

func TestCustomers_UpdateConservaIDTrasReusoDeBuffer(t *testing.T) {
	app := buildTestApp(memoryGateway())

	resp, raw := do(t, app, http.MethodPost, "/api/customers", `{"first_name":"Jane","last_name":"Doe"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, _ = do(t, app, http.MethodPut, "/api/customers/"+created.ID, `{"last_name":"Smith"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// otras peticiones reutilizan el buffer de Fiber
	for i := 0; i < 20; i++ {
		resp, _ = do(t, app, http.MethodGet, "/api/customers/"+uuid.NewString(), "")
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	resp, raw = do(t, app, http.MethodGet, "/api/customers", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Jane", list[0].FirstName)
	assert.Equal(t, "Smith", list[0].LastName)
	assert.True(t, created.CreatedAt.Equal(list[0].CreatedAt))

	resp, raw = do(t, app, http.MethodGet, "/api/customers/"+created.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
}
