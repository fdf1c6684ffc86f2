// @title           Customers API
// @version         0.1.0
// @description     API CRUD de clientes sobre un almacén de documentos.
// @BasePath        /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/customers-api/docs"
	"github.com/jhoicas/customers-api/internal/application/usecase"
	"github.com/jhoicas/customers-api/internal/infrastructure/gateway"
	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/customers-api/internal/interfaces/http"
	"github.com/jhoicas/customers-api/pkg/config"
	"github.com/jhoicas/customers-api/pkg/logger"
	"github.com/jhoicas/customers-api/pkg/telemetry"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store_driver", cfg.Store.Driver).
		Msg("iniciando aplicación")

	tp, shutdownTracing, err := telemetry.NewTracerProvider(telemetry.Config{
		Enabled:        cfg.Telemetry.TracingEnabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}
	registry := telemetry.NewRegistry()

	// La conexión al almacén es perezosa: se abre en la primera operación y se reutiliza.
	gw := gateway.New(cfg, log, gateway.Deps{
		Tracer:   tp.Tracer("customers-api/storage"),
		Registry: registry,
	})
	customerRepo := storage.NewCustomerRepository(gw, cfg.Store.Collection)
	customerUC := usecase.NewCustomerUseCase(customerRepo, log.Component("customers"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
		Immutable:    true, // los valores de Ctx se usan como llaves del almacén y atributos de spans
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-Id",
	}))
	app.Use(httpRouter.AccessLog(log.Component("http")))
	app.Use(httpRouter.NewHTTPMetrics(registry).Handler())
	app.Use(httpRouter.Tracing(tp.Tracer("customers-api/http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Customers API",
		}))
	}

	docs.SwaggerInfo.Version = cfg.App.Version
	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC: customerUC,
		Health: httpRouter.NewHealthHandler(httpRouter.ServiceInfo{
			Name:        cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Env,
			ProjectID:   cfg.Project.ID,
		}, gw),
		MetricsHandler: adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		SwaggerDoc:     docs.SwaggerInfo.ReadDoc,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := gw.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar almacén de documentos")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cerrar exportador de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
