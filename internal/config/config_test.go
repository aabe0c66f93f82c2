package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 20270 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Forecast.Engine != "forecaster" {
		t.Fatalf("unexpected engine: %s", cfg.Forecast.Engine)
	}
	if cfg.Forecast.DefaultHorizon != 30 || cfg.Forecast.MinObservations != 30 {
		t.Fatalf("unexpected forecast defaults: %+v", cfg.Forecast)
	}
	if cfg.Forecast.DateColumn != "date" || cfg.Forecast.ValueColumn != "units_sold" {
		t.Fatalf("unexpected column defaults: %+v", cfg.Forecast)
	}
	if cfg.Auth.TokenExpireMinutes != 30 {
		t.Fatalf("unexpected token expiry: %d", cfg.Auth.TokenExpireMinutes)
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	if isPortSpecifiedInToml([]byte("[server]\nport = 8080\n")) != true {
		t.Fatal("port should be detected")
	}
	if isPortSpecifiedInToml([]byte("[server]\ndev_mode = true\n")) != false {
		t.Fatal("missing port should not be detected")
	}
	if isPortSpecifiedInToml([]byte("not toml at all {{")) != false {
		t.Fatal("invalid toml should not be detected")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("ORACLE_DATA_DIR", "/var/lib/oracle")
	t.Setenv("PORT", "9090")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("jwt secret not applied: %s", cfg.Auth.JWTSecret)
	}
	if cfg.Data.DataDir != "/var/lib/oracle" {
		t.Fatalf("data dir not applied: %s", cfg.Data.DataDir)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port not applied: %d", cfg.Server.Port)
	}
}

func TestApplyEnvFallbackSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	cfg := DefaultConfig()
	applyEnv(cfg)

	if cfg.Auth.JWTSecret == "" {
		t.Fatal("expected fallback secret")
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dataDir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("ensure data dir: %v", err)
	}

	for _, sub := range []string{"uploads", "exports"} {
		if _, err := os.Stat(filepath.Join(dataDir, sub)); err != nil {
			t.Fatalf("subdir %s not created: %v", sub, err)
		}
	}
}

func TestGetDataPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = "/data"

	got := GetDataPath(cfg, "uploads", "file.csv")
	if got != "/data/uploads/file.csv" {
		t.Fatalf("unexpected path: %s", got)
	}
}
