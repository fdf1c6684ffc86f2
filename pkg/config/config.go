package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados por el gateway.
const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env, .env y config.yaml).
type Config struct {
	App       AppConfig
	Project   ProjectConfig
	HTTP      HTTPConfig
	Store     StoreConfig
	DB        DBConfig
	Telemetry TelemetryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	EnvShort string // dev, staging, prod (se usa en el nombre del archivo de credenciales)
	Name     string
	Version  string
	LogLevel string
}

// ProjectConfig identificadores del proyecto (config.yaml o variables de entorno).
type ProjectConfig struct {
	Name        string
	ID          string
	Description string
	Region      string
	Zone        string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host             string
	Port             int
	CORSAllowOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig configuración del almacén de documentos.
type StoreConfig struct {
	Driver          string // firestore, postgres, memory
	Collection      string
	SecretsDir      string // ruta primaria: <SecretsDir>/firebase-admin-key-<env>.json
	SecretsMountDir string // ruta montada en el despliegue (Cloud Run)
	CredentialsFile string // GOOGLE_APPLICATION_CREDENTIALS
	GCPProjectID    string
}

// DBConfig configuración de PostgreSQL (driver "postgres").
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// TelemetryConfig trazas y métricas.
type TelemetryConfig struct {
	TracingEnabled bool
}

// Load lee la configuración buscando .env y config.yaml en el directorio actual y en "/".
func Load() (*Config, error) {
	return LoadFrom(".", "/")
}

// LoadFrom lee la configuración buscando los archivos opcionales en las rutas dadas, en orden.
// Las variables de entorno tienen prioridad sobre los archivos.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	_ = v.ReadInConfig() // ignoramos error si no existe

	// config.yaml del proyecto (mismo formato que usa la infraestructura)
	y := viper.New()
	y.SetConfigName("config")
	y.SetConfigType("yaml")
	for _, p := range paths {
		y.AddConfigPath(p)
	}
	if err := y.ReadInConfig(); err == nil {
		if err := v.MergeConfigMap(y.AllSettings()); err != nil {
			return nil, fmt.Errorf("merge config.yaml: %w", err)
		}
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
		return nil, fmt.Errorf("leer config.yaml: %w", err)
	}

	v.AutomaticEnv()
	// project.name <-> PROJECT_NAME, application.backend.port <-> APPLICATION_BACKEND_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := strings.ToLower(getString(v, "ENVIRONMENT", "development"))
	projectName := getString(v, "project.name", "app")
	projectID := getString(v, "project.id", "app")

	cfg := &Config{
		App: AppConfig{
			Env:      env,
			EnvShort: getString(v, "ENV_SHORT", shortEnv(env)),
			Version:  getString(v, "APP_VERSION", "0.1.0"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Project: ProjectConfig{
			Name:        projectName,
			ID:          projectID,
			Description: getString(v, "project.description", projectName+" Application"),
			Region:      getString(v, "project.region", getString(v, "REGION", "us-central1")),
			Zone:        getString(v, "project.zone", getString(v, "ZONE", "us-central1-a")),
		},
		HTTP: HTTPConfig{
			Host:             getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:             getInt(v, "PORT", getInt(v, "application.backend.port", 8080)),
			CORSAllowOrigins: getString(v, "CORS_ALLOW_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Driver:          strings.ToLower(getString(v, "STORE_DRIVER", DriverFirestore)),
			Collection:      getString(v, "STORE_COLLECTION", "customers"),
			SecretsDir:      getString(v, "SECRETS_DIR", "secrets"),
			SecretsMountDir: getString(v, "SECRETS_MOUNT_DIR", "/secrets"),
			CredentialsFile: getString(v, "GOOGLE_APPLICATION_CREDENTIALS", ""),
			GCPProjectID:    getString(v, "GCP_PROJECT_ID", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "customers"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Telemetry: TelemetryConfig{
			TracingEnabled: getBool(v, "TRACING_ENABLED", false),
		},
	}
	cfg.App.Name = getString(v, "APP_NAME", projectID+"-api")

	switch cfg.Store.Driver {
	case DriverFirestore, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// shortEnv traduce el entorno al sufijo usado en los archivos de credenciales.
func shortEnv(env string) string {
	switch env {
	case "development", "dev":
		return "dev"
	case "staging":
		return "staging"
	default:
		return "prod"
	}
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		if s := strings.TrimSpace(v.GetString(key)); s != "" {
			return s
		}
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
