package config

import (
	"testing"
	"time"
)

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"PORT":                            "server.port",
		"MONGO_URI":                       "store.uri",
		"ENVIRONMENT":                     "primary.env",
		"CRM_SERVER__PORT":                "server.port",
		"CRM_STORE__CONNECT_TIMEOUT":      "store.connect_timeout",
		"CRM_SERVER__RATE_LIMIT__ENABLED": "server.rate_limit.enabled",
		"HOME":                            "",
		"CRMX_SERVER__PORT":               "",
	}

	for name, want := range cases {
		if got := envKey(name); got != want {
			t.Errorf("envKey(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "5000" {
		t.Errorf("expected default port 5000, got %q", cfg.Server.Port)
	}
	if cfg.Store.URI != "mongodb://localhost:27017/crm_db" {
		t.Errorf("unexpected default store uri %q", cfg.Store.URI)
	}
	if cfg.Store.Driver != StoreDriverMongo {
		t.Errorf("expected mongo driver, got %q", cfg.Store.Driver)
	}
	if cfg.Store.DatabaseName() != "crm_db" {
		t.Errorf("expected database crm_db, got %q", cfg.Store.DatabaseName())
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017/people")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CRM_STORE__COLLECTION", "contacts")
	t.Setenv("CRM_STORE__CONNECT_TIMEOUT", "3s")
	t.Setenv("CRM_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "8081" {
		t.Errorf("expected port 8081, got %q", cfg.Server.Port)
	}
	if cfg.Store.DatabaseName() != "people" {
		t.Errorf("expected database from uri, got %q", cfg.Store.DatabaseName())
	}
	if cfg.Store.Collection != "contacts" {
		t.Errorf("expected collection contacts, got %q", cfg.Store.Collection)
	}
	if cfg.Store.ConnectTimeout != 3*time.Second {
		t.Errorf("expected 3s connect timeout, got %s", cfg.Store.ConnectTimeout)
	}
	if got := cfg.Server.CORSAllowedOrigins; len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("expected 2 cors origins, got %v", got)
	}
	if cfg.Observability.Environment != "staging" {
		t.Errorf("observability env should follow primary env, got %q", cfg.Observability.Environment)
	}
	if cfg.Observability.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Observability.Logging.Level)
	}
	// Untouched nested defaults must survive a partial override.
	if cfg.Observability.Logging.Format != "json" {
		t.Errorf("expected json format to survive, got %q", cfg.Observability.Logging.Format)
	}
}

func TestLoadConfig_CORSOriginsTrimmed(t *testing.T) {
	t.Setenv("CRM_SERVER__CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	got := cfg.Server.CORSAllowedOrigins
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("unexpected cors origins %q", got)
	}
}

func TestLoadConfig_DefaultCORSOrigins(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got := cfg.Server.CORSAllowedOrigins; len(got) != 1 || got[0] != "*" {
		t.Errorf("expected default [*], got %q", got)
	}
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("CRM_STORE__DRIVER", "cassandra")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error for unknown driver")
	}
}

func TestLoadConfig_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	if got := c.GetLogLevel(); got != "info" {
		t.Errorf("production default: got %q", got)
	}

	c.Environment = "development"
	if got := c.GetLogLevel(); got != "debug" {
		t.Errorf("development default: got %q", got)
	}
}
