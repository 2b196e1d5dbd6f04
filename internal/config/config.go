// Package config defines the global configuration structure for the RainCheck
// service. Configuration is loaded once at process startup and is immutable
// thereafter. It follows 12-Factor App principles by strictly separating code
// from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
//
// Any missing required value or invalid format aborts startup (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the RainCheck service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"raincheck-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Domain configurations
	Server   ServerConfig
	Store    StoreConfig
	Advisor  AdvisorConfig
	Security SecurityConfig

	// Build metadata (injected via ldflags, not env)
	Build BuildInfo
}

// ServerConfig holds HTTP server tuning parameters.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	RequestTimeout  time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// StoreConfig selects and tunes the snapshot persistence backend.
// Driver "file" persists a gzip-compressed JSON document on local disk;
// "postgres" stores the same document in a single-row table.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"file" validate:"oneof=file postgres"`

	// File driver
	Path string `envconfig:"STORE_PATH" default:"data/users.json.gz"`

	// Postgres driver
	URL               string        `envconfig:"STORE_DATABASE_URL" validate:"required_if=Driver postgres,omitempty,url"`
	MaxConns          int           `envconfig:"STORE_DB_MAX_CONNS" default:"5"`
	MinConns          int           `envconfig:"STORE_DB_MIN_CONNS" default:"1"`
	MaxConnLifetime   time.Duration `envconfig:"STORE_DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"STORE_DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"STORE_DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// AdvisorConfig tunes the circuit breaker guarding the insight advisor.
type AdvisorConfig struct {
	Timeout            time.Duration `envconfig:"ADVISOR_TIMEOUT" default:"5s"`
	BreakerMaxRequests uint32        `envconfig:"ADVISOR_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval    time.Duration `envconfig:"ADVISOR_BREAKER_INTERVAL" default:"60s"`
	BreakerOpenTimeout time.Duration `envconfig:"ADVISOR_BREAKER_OPEN_TIMEOUT" default:"30s"`
	BreakerMaxFailures uint32        `envconfig:"ADVISOR_BREAKER_MAX_FAILURES" default:"5"`
}

// SecurityConfig holds CORS settings for the HTTP surface.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
