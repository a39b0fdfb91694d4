// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates
// that required values are present so the process fails fast on bad
// or missing config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values (DATABASE_URL) before anything connects.
//   - Provide defaults for optional blocks (server, pool, observability).
package config

import (
	"fmt"
	"time"

	"github.com/deppfellow/travel-sync/internal/errs"
	"github.com/deppfellow/travel-sync/internal/lib/utils"
	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into
	// the process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// ServiceName identifies this service in logs and APM.
const ServiceName = "travel-sync"

// Env var names are kept compatible with existing deployments of the sync
// server (DATABASE_URL, SYNC_API_KEY, ALLOWED_ORIGINS, ALLOWED_IPS), so the
// env provider maps a fixed table of names onto koanf keys instead of
// deriving keys from a prefix. Anything not in the table is ignored,
// and so is any variable set to "".
//
// e.g. TRAVELSYNC_DB_MAX_CONNS -> database.max_conns -> Config.Database.MaxConns
var envKeys = map[string]string{
	"DATABASE_URL":    "database.url",
	"SYNC_API_KEY":    "access.api_key",
	"ALLOWED_ORIGINS": "server.cors_allowed_origins",
	"ALLOWED_IPS":     "access.allowed_ips",
	"PORT":            "server.port",

	"TRAVELSYNC_ENV":                  "primary.env",
	"TRAVELSYNC_PORT":                 "server.port",
	"TRAVELSYNC_READ_TIMEOUT":         "server.read_timeout",
	"TRAVELSYNC_WRITE_TIMEOUT":        "server.write_timeout",
	"TRAVELSYNC_IDLE_TIMEOUT":         "server.idle_timeout",
	"TRAVELSYNC_DB_MAX_CONNS":         "database.max_conns",
	"TRAVELSYNC_DB_MIN_CONNS":         "database.min_conns",
	"TRAVELSYNC_DB_STATEMENT_TIMEOUT": "database.statement_timeout",
	"TRAVELSYNC_RATE_LIMIT_RPS":       "access.rate_limit_rps",
	"TRAVELSYNC_LOG_LEVEL":            "observability.logging.level",
	"TRAVELSYNC_LOG_FORMAT":           "observability.logging.format",
	"TRAVELSYNC_HEALTH_CHECK_TIMEOUT": "observability.health_checks.timeout",

	"NEW_RELIC_LICENSE_KEY":                 "observability.new_relic.license_key",
	"NEW_RELIC_APP_LOG_FORWARDING_ENABLED":  "observability.new_relic.app_log_forwarding_enabled",
	"NEW_RELIC_DISTRIBUTED_TRACING_ENABLED": "observability.new_relic.distributed_tracing_enabled",
	"NEW_RELIC_DEBUG_LOGGING":               "observability.new_relic.debug_logging",
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Access        AccessConfig         `koanf:"access"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout int    `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"gt=0"`

	// CORSAllowedOrigins is a comma-separated list; "*" allows any origin.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// DatabaseConfig contains the PostgreSQL DSN and pool tuning.
type DatabaseConfig struct {
	URL      string `koanf:"url" validate:"required"`
	MaxConns int32  `koanf:"max_conns" validate:"gt=0"`
	MinConns int32  `koanf:"min_conns" validate:"gte=0,ltefield=MaxConns"`

	// StatementTimeout bounds a single statement, in seconds.
	StatementTimeout int `koanf:"statement_timeout" validate:"gt=0"`
}

// AccessConfig holds the optional gates in front of /api.
//
// Empty APIKey disables the key check; an AllowedIPs list with no
// non-empty entries disables the allowlist.
type AccessConfig struct {
	APIKey       string  `koanf:"api_key"`
	AllowedIPs   string  `koanf:"allowed_ips"`
	RateLimitRPS float64 `koanf:"rate_limit_rps" validate:"gte=0"`
}

// AllowedOrigins returns the CORS origins as a list. An empty setting means "*".
func (s ServerConfig) AllowedOrigins() []string {
	origins := utils.SplitList(s.CORSAllowedOrigins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (s ServerConfig) AllowsAnyOrigin() bool {
	origins := s.AllowedOrigins()
	return len(origins) == 1 && origins[0] == "*"
}

// AllowedIPList returns the IP allowlist entries, trimmed, empties dropped.
func (a AccessConfig) AllowedIPList() []string {
	return utils.SplitList(a.AllowedIPs)
}

// StatementTimeoutDuration returns the per-statement timeout as a time.Duration.
func (d DatabaseConfig) StatementTimeoutDuration() time.Duration {
	return time.Duration(d.StatementTimeout) * time.Second
}

// defaultConfig returns the values used for every key the environment does not set.
func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: "*",
		},
		Database: DatabaseConfig{
			MaxConns:         5,
			MinConns:         1,
			StatementTimeout: 30,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, validates it, and returns the result.
//
// Behavior summary:
//   - Starts from defaultConfig()
//   - Loads the env vars named in envKeys, mapping them onto koanf keys
//   - Unmarshals into Config (unset keys keep their defaults)
//   - Validates struct tags and observability rules
//
// Every failure is returned as *errs.ConfigError; the caller decides to exit.
func LoadConfig() (*Config, error) {
	// The "." is the key-path delimiter, e.g. "server.port" -> Config.Server.Port
	k := koanf.New(".")

	// Returning an empty key makes the provider skip the variable: names
	// outside envKeys and variables set to "" never override a default.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return envKeys[key], value
	}), nil)
	if err != nil {
		return nil, errs.NewConfigError(fmt.Errorf("could not load env variables: %w", err))
	}

	mainConfig := defaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errs.NewConfigError(fmt.Errorf("could not unmarshal config: %w", err))
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, errs.NewConfigError(err)
	}

	// Service name and environment are not user-configurable.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errs.NewConfigError(err)
	}

	return mainConfig, nil
}
