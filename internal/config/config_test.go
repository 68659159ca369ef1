package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "ENV", "development")
	setEnv(t, "DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.SatuSehatSyncInterval != time.Minute {
		t.Errorf("expected default sync interval 1m, got %s", cfg.SatuSehatSyncInterval)
	}
	if !cfg.UseMemoryStore() {
		t.Error("expected memory store without DATABASE_URL")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setEnv(t, "ENV", "development")
	setEnv(t, "PORT", "9090")
	setEnv(t, "DATABASE_URL", "postgres://localhost/simrs")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.UseMemoryStore() {
		t.Error("expected SQL store with DATABASE_URL set")
	}
}

func TestValidate_ProductionRequiresDatabase(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for production without DATABASE_URL")
	}
}

func TestValidate_ProductionRequiresAuthSecret(t *testing.T) {
	cfg := &Config{Env: "production", DatabaseURL: "postgres://localhost/simrs"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for production without AUTH_SECRET")
	}
}

func TestValidate_ShortAuthSecret(t *testing.T) {
	cfg := &Config{Env: "development", AuthSecret: "short"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short AUTH_SECRET")
	}
}

func TestValidate_DevDefaultsOK(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSatuSehatEnabled(t *testing.T) {
	cfg := &Config{
		SatuSehatBaseURL:      "https://api.satusehat.kemkes.go.id/fhir-r4/v1",
		SatuSehatAuthURL:      "https://api.satusehat.kemkes.go.id/oauth2/v1",
		SatuSehatClientID:     "client",
		SatuSehatClientSecret: "secret",
	}
	if !cfg.SatuSehatEnabled() {
		t.Error("expected Satu Sehat enabled with full credentials")
	}
	cfg.SatuSehatClientSecret = ""
	if cfg.SatuSehatEnabled() {
		t.Error("expected Satu Sehat disabled without secret")
	}
}
