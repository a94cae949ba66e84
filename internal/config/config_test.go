package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_PRETTY", "DB_PATH", "CATALOG_URL", "CATALOG_FILE", "CATALOG_TIMEOUT", "PLAY_TOKEN_SECRET", "COOKIE_SECURE"} {
		t.Setenv(k, "") // restores the original value after the test
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != ":5175" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("level = %v", cfg.Level())
	}
	if cfg.DBPath != "./data/flagquiz.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.CatalogURL != "https://restcountries.com/v3.1/all?fields=name,flags" {
		t.Errorf("catalog url = %q", cfg.CatalogURL)
	}
	if cfg.CatalogTimeout != 15*time.Second {
		t.Errorf("catalog timeout = %v", cfg.CatalogTimeout)
	}
	if !cfg.LogPretty || cfg.CookieSecure {
		t.Errorf("unexpected bool defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_FILE", "/tmp/countries.json")
	t.Setenv("CATALOG_TIMEOUT", "2s")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != ":9000" || cfg.Level() != zerolog.DebugLevel {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.CatalogFile != "/tmp/countries.json" || cfg.CatalogTimeout != 2*time.Second || !cfg.CookieSecure {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct{ key, value string }{
		{"LOG_LEVEL", "loud"},
		{"CATALOG_TIMEOUT", "soon"},
		{"COOKIE_SECURE", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
