package config

import (
	"fmt"
	"time"
)

const (
	// ServiceName identifies this service in logs, metrics and APM dashboards.
	ServiceName = "crm-api"

	// Version is reported by the info endpoint and the crm_app_info metric.
	Version = "2.0.0"
)

// ObservabilityConfig groups all configuration related to telemetry and runtime visibility:
//   - logging settings (level, format, logger name)
//   - APM/tracing provider settings (New Relic)
//   - readiness check settings
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs/traces/APM dashboards.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment is a label used to split telemetry by environment.
	// It is always overwritten with primary.env by LoadConfig.
	Environment string `koanf:"environment" validate:"required"`

	Logging LoggingConfig `koanf:"logging" validate:"required"`

	NewRelic NewRelicConfig `koanf:"new_relic"`

	HealthChecks HealthChecksConfig `koanf:"health_checks" validate:"required"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required"`

	// Format selects the output format: "json" (default) or "console".
	Format string `koanf:"format" validate:"required,oneof=json console"`

	// Name is written into the "logger" field of every record.
	Name string `koanf:"name" validate:"required"`

	// SlowQueryThreshold marks store queries worth a warning in local SQL tracing.
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
// An empty LicenseKey disables the agent entirely.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	// DebugLogging sends agent debug output to stdout, which mixes formats.
	DebugLogging bool `koanf:"debug_logging"`
}

// Enabled reports whether a license key was provided.
func (c NewRelicConfig) Enabled() bool {
	return c.LicenseKey != ""
}

// HealthChecksConfig controls the readiness endpoint.
type HealthChecksConfig struct {
	// Timeout bounds a single store ping.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// DefaultObservabilityConfig provides a safe set of defaults.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "production",

		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			Name:               ServiceName,
			SlowQueryThreshold: 100 * time.Millisecond,
		},

		NewRelic: NewRelicConfig{
			LicenseKey:                "",
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false,
		},

		HealthChecks: HealthChecksConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Validate applies custom validation rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
//
// An unset level defaults to "info" in production and "debug" in development.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development", "local":
		if c.Logging.Level == "" {
			return "debug"
		}
	}

	return c.Logging.Level
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
