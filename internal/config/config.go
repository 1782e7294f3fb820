// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when one exists), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for everything, so a bare environment runs locally.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read in two shapes:
	- Prefixed keys: CRM_ + path segments joined by a double underscore,
	  e.g. CRM_SERVER__PORT -> server.port -> Config.Server.Port
	- A handful of conventional, unprefixed names (PORT, MONGO_URI, ...)
	  that container platforms set for us. See aliases below.
*/

const envPrefix = "CRM_"

// aliases maps conventional env names onto koanf keys.
var aliases = map[string]string{
	"PORT":                  "server.port",
	"MONGO_URI":             "store.uri",
	"DATABASE_URL":          "store.uri",
	"ENVIRONMENT":           "primary.env",
	"LOG_LEVEL":             "observability.logging.level",
	"NEW_RELIC_LICENSE_KEY": "observability.new_relic.license_key",
}

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/metrics and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig controls the optional per-client request limiter.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"min=1"`
}

// StoreConfig describes the document store holding person records.
//
// URI is a MongoDB connection string for the mongo driver and a
// PostgreSQL URL for the postgres driver.
type StoreConfig struct {
	Driver         string        `koanf:"driver" validate:"required,oneof=mongo postgres"`
	URI            string        `koanf:"uri" validate:"required"`
	Database       string        `koanf:"database"`
	Collection     string        `koanf:"collection" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
}

// DatabaseName returns the configured database name, falling back to the
// path of the connection URI and finally to "crm_db".
func (s StoreConfig) DatabaseName() string {
	if s.Database != "" {
		return s.Database
	}
	if u, err := url.Parse(s.URI); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return "crm_db"
}

// Default returns the configuration used when no environment is provided.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "production"},
		Server: ServerConfig{
			Port:               "5000",
			ReadTimeout:        10,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Store: StoreConfig{
			Driver:         StoreDriverMongo,
			URI:            "mongodb://localhost:27017/crm_db",
			Collection:     "persons",
			ConnectTimeout: 10 * time.Second,
			AutoMigrate:    true,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey turns an environment variable name into a koanf key path.
// It returns "" for variables the application does not read, which makes
// the env provider skip them.
func envKey(name string) string {
	if key, ok := aliases[name]; ok {
		return key
	}
	if !strings.HasPrefix(name, envPrefix) {
		return ""
	}
	key := strings.TrimPrefix(name, envPrefix)
	return strings.ToLower(strings.ReplaceAll(key, "__", "."))
}

// splitList trims every item and drops the empty ones.
func splitList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables on top of
// Default(), validates it and returns the resulting config.
//
// Behavior summary:
//   - Reads CRM_* variables and the conventional aliases
//   - Unmarshals into a Config pre-populated with defaults
//   - Validates struct tags, then the observability block
//   - Forces the observability environment to match primary.env
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// Unknown variables map to "" and are dropped by the provider.
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Unmarshal only overwrites keys that are present, so defaults survive.
	// List values arrive as comma separated strings.
	mainConfig := Default()
	if err := k.UnmarshalWithConf("", mainConfig, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}
	mainConfig.Server.CORSAllowedOrigins = splitList(mainConfig.Server.CORSAllowedOrigins)

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	if mainConfig.Observability.ServiceName == "" {
		mainConfig.Observability.ServiceName = ServiceName
	}
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
