// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional `.env` file),
// loads them into structured Go types, and validates that required values are
// present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Apply defaults for every optional setting.
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//
// The configuration is read exactly once at startup. Nothing in the process
// re-reads the environment after LoadConfig returns.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before LoadConfig reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because the whole block is optional. If it is
// missing after unmarshalling, defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the allowed requests per second per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig carries the raw database settings.
//
// Values are kept as strings on purpose: the credential resolver and the
// pool factory own their parsing so that a malformed value is reported with
// the variable it came from.
type DatabaseConfig struct {
	// ServiceName selects the binding by name inside the manifest.
	ServiceName string `koanf:"service_name" validate:"required"`

	// ServiceLabel is the manifest key holding the array of bindings.
	ServiceLabel string `koanf:"service_label" validate:"required"`

	// Manifest is the raw service-binding manifest (VCAP_SERVICES).
	Manifest string `koanf:"manifest"`

	// LocalFallback allows discrete DB_* variables when no manifest is present.
	LocalFallback bool `koanf:"local_fallback"`

	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Pool PoolEnv `koanf:"pool"`
}

// PoolEnv holds the raw pool-tuning overrides.
type PoolEnv struct {
	MaxConns      string `koanf:"max_conns"`
	MinConns      string `koanf:"min_conns"`
	ConnTimeoutMs string `koanf:"conn_timeout_ms"`
	IdleTimeoutMs string `koanf:"idle_timeout_ms"`
	MaxLifetimeMs string `koanf:"max_lifetime_ms"`
	SSLMode       string `koanf:"ssl_mode"`
}

// AuthConfig stores bearer-token verification settings.
//
// Issuer and Audience are optional. When set, tokens must carry matching
// `iss` / `aud` claims.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
	Issuer    string `koanf:"issuer"`
	Audience  string `koanf:"audience"`
}

// envKeys maps the externally visible environment variable names to koanf
// key paths. Variables that are not listed here are ignored.
//
// The database names are fixed by the platform that injects them
// (VCAP_SERVICES, DB_*, PG_SSLMODE), so no prefix is applied.
var envKeys = map[string]string{
	"APP_ENV": "primary.env",

	"PORT":                        "server.port",
	"SERVER_READ_TIMEOUT":         "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":        "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":         "server.idle_timeout",
	"SERVER_CORS_ALLOWED_ORIGINS": "server.cors_allowed_origins",
	"SERVER_RATE_LIMIT":           "server.rate_limit",

	"VCAP_SERVICES":     "database.manifest",
	"DB_SERVICE_NAME":   "database.service_name",
	"DB_SERVICE_LABEL":  "database.service_label",
	"DB_LOCAL_FALLBACK": "database.local_fallback",
	"DB_HOST":           "database.host",
	"DB_PORT":           "database.port",
	"DB_NAME":           "database.name",
	"DB_USER":           "database.user",
	"DB_PASS":           "database.password",

	"DB_POOL_MAX":             "database.pool.max_conns",
	"DB_POOL_MIN":             "database.pool.min_conns",
	"DB_POOL_CONN_TIMEOUT_MS": "database.pool.conn_timeout_ms",
	"DB_POOL_IDLE_TIMEOUT_MS": "database.pool.idle_timeout_ms",
	"DB_POOL_MAX_LIFETIME_MS": "database.pool.max_lifetime_ms",
	"PG_SSLMODE":              "database.pool.ssl_mode",

	"AUTH_SECRET_KEY": "auth.secret_key",
	"AUTH_ISSUER":     "auth.issuer",
	"AUTH_AUDIENCE":   "auth.audience",

	"LOG_LEVEL":                "observability.logging.level",
	"LOG_FORMAT":               "observability.logging.format",
	"LOG_SLOW_QUERY_THRESHOLD": "observability.logging.slow_query_threshold",

	"NEW_RELIC_LICENSE_KEY":                 "observability.new_relic.license_key",
	"NEW_RELIC_APP_LOG_FORWARDING_ENABLED":  "observability.new_relic.app_log_forwarding_enabled",
	"NEW_RELIC_DISTRIBUTED_TRACING_ENABLED": "observability.new_relic.distributed_tracing_enabled",
	"NEW_RELIC_DEBUG_LOGGING":               "observability.new_relic.debug_logging",

	"HEALTH_CHECKS_ENABLED": "observability.health_checks.enabled",
	"HEALTH_CHECKS_TIMEOUT": "observability.health_checks.timeout",
}

// defaults returns the flat default key/value set loaded before the environment.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.port":                 "8080",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit":           0,

		"database.service_name":   "postgreSQL-dev",
		"database.service_label":  "postgresql-db",
		"database.local_fallback": false,
		"database.host":           "localhost",
		"database.port":           "5432",
		"database.name":           "postgres",
		"database.user":           "postgres",
		"database.password":       "postgres",

		"database.pool.max_conns":       "10",
		"database.pool.min_conns":       "2",
		"database.pool.conn_timeout_ms": "10000",
		"database.pool.idle_timeout_ms": "600000",
		"database.pool.max_lifetime_ms": "1800000",
		"database.pool.ssl_mode":        "verify-full",

		"observability.logging.level":                         "info",
		"observability.logging.format":                        "json",
		"observability.logging.slow_query_threshold":          "100ms",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.new_relic.debug_logging":               false,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.timeout":                 "5s",
		"observability.health_checks.checks":                  []string{"database"},
	}
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it, and applies observability defaults.
//
// Behavior summary:
//   - Loads built-in defaults
//   - Overlays recognised env vars (see envKeys)
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Sets default observability if missing, then validates it
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	// Returning "" from the callback makes the env provider skip the variable.
	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	err = k.UnmarshalWithConf("", mainConfig, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			Result:           mainConfig,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed so telemetry lines up across environments.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// ServerTimeouts returns the read, write and idle timeouts as durations.
func (s ServerConfig) ServerTimeouts() (read, write, idle time.Duration) {
	return time.Duration(s.ReadTimeout) * time.Second,
		time.Duration(s.WriteTimeout) * time.Second,
		time.Duration(s.IdleTimeout) * time.Second
}
