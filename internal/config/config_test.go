package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "TOKEN_TTL_HOURS", "DEV", "JWT_SECRET"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Addr() != ":5000" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if cfg.Auth.TokenTTL != 100*time.Hour {
		t.Errorf("TokenTTL = %v, want 100h", cfg.Auth.TokenTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate in dev: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("TOKEN_TTL_HOURS", "2")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("METRICS", "no")

	cfg := Load()
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("invalid DB_PORT should fall back to default, got %d", cfg.Database.Port)
	}
	if cfg.App.Metrics {
		t.Error("METRICS=no should disable metrics")
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Database.Driver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown driver")
	}

	cfg = Load()
	cfg.App.Dev = false
	cfg.Auth.JWTSecret = "dev-secret-change-me"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for default secret outside dev")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=u password=p dbname=n sslmode=disable" {
		t.Errorf("DSN() = %q", got)
	}
}
