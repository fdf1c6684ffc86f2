package http

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StoreStatus estado del gateway sin forzar una conexión.
type StoreStatus interface {
	Connected() bool
	Source() string
}

// ServiceInfo datos del servicio expuestos en las sondas.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
	ProjectID   string
}

// HealthHandler sondas de vida y disponibilidad (Cloud Run / Kubernetes).
type HealthHandler struct {
	info  ServiceInfo
	store StoreStatus
	now   func() time.Time
}

// NewHealthHandler construye el handler.
func NewHealthHandler(info ServiceInfo, store StoreStatus) *HealthHandler {
	return &HealthHandler{info: info, store: store, now: time.Now}
}

// Root mensaje de bienvenida.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to " + h.info.Name})
}

// Health godoc
// @Summary      Estado básico y dependencias
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	store := "not_connected"
	if h.store != nil && h.store.Connected() {
		store = "connected"
	}
	return c.JSON(fiber.Map{
		"status":      "ok",
		"timestamp":   h.now().Format(time.RFC3339),
		"environment": h.info.Environment,
		"project_id":  h.info.ProjectID,
		"dependencies": fiber.Map{
			"store": store,
		},
	})
}

// Detailed godoc
// @Summary      Estado detallado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *HealthHandler) Detailed(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"timestamp":   h.now().Format(time.RFC3339),
		"version":     h.info.Version,
		"environment": h.info.Environment,
		"system_info": systemInfo(),
	})
}

// Live sonda de vida.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready sonda de disponibilidad.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ready"})
}

// Status godoc
// @Summary      Estado público del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/status [get]
func (h *HealthHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":         h.info.Name,
		"environment":     h.info.Environment,
		"version":         h.info.Version,
		"unauthenticated": true,
	})
}

func systemInfo() fiber.Map {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fiber.Map{
		"go_version":    runtime.Version(),
		"platform":      runtime.GOOS + "/" + runtime.GOARCH,
		"num_cpu":       runtime.NumCPU(),
		"goroutines":    runtime.NumGoroutine(),
		"heap_alloc_mb": float64(m.HeapAlloc) / (1 << 20),
		"heap_sys_mb":   float64(m.HeapSys) / (1 << 20),
	}
}
