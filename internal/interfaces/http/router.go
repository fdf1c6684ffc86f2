package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/customers-api/internal/application/usecase"
)

// RouterDeps dependencias para el router. MetricsHandler y SwaggerDoc son opcionales.
type RouterDeps struct {
	CustomerUC     *usecase.CustomerUseCase
	Health         *HealthHandler
	MetricsHandler fiber.Handler
	SwaggerDoc     func() string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Sondas (públicas, sin autenticación)
	if deps.Health != nil {
		app.Get("/", deps.Health.Root)
		app.Get("/health", deps.Health.Health)
		app.Get("/api/health", deps.Health.Detailed)
		app.Get("/api/health/live", deps.Health.Live)
		app.Get("/api/health/ready", deps.Health.Ready)
		app.Get("/api/ready", deps.Health.Ready)
		app.Get("/api/v1/status", deps.Health.Status)
	}

	if deps.MetricsHandler != nil {
		app.Get("/metrics", deps.MetricsHandler)
	}
	if deps.SwaggerDoc != nil {
		app.Get("/swagger.json", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.SendString(deps.SwaggerDoc())
		})
	}

	api := app.Group("/api")

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
}
