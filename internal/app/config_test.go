package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("CONTENT_RELOAD_INTERVAL", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DatabaseDriver != DriverPostgres || cfg.Port != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.ContentReloadOnStart || cfg.ContentReloadInterval != 0 || cfg.ReloadLockTTL != 5*time.Minute {
		t.Fatalf("unexpected reload defaults: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("CONTENT_RELOAD_INTERVAL", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Fatalf("driver=%q", cfg.DatabaseDriver)
	}
	if cfg.ContentReloadInterval != 15*time.Minute {
		t.Fatalf("interval=%s", cfg.ContentReloadInterval)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"DATABASE_DRIVER": "mysql",
		"PORT":            "http",
		"LOG_MODE":        "verbose",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("%s=%s accepted", key, val)
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	if err := LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DSAQUEST_TEST_ENV_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("DSAQUEST_TEST_ENV_VALUE", "")
	os.Unsetenv("DSAQUEST_TEST_ENV_VALUE")
	if err := LoadEnvFiles(path); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv("DSAQUEST_TEST_ENV_VALUE"); got != "from-file" {
		t.Fatalf("value=%q", got)
	}
}
