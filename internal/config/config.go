// internal/config/config.go
//
// Environment-driven configuration. main loads an optional .env file first
// (godotenv), then Load parses the process environment into Config.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`

	// DBPath is the SQLite file holding the best score; ":memory:" keeps it in memory.
	DBPath string `env:"DB_PATH" envDefault:"./data/flagquiz.db"`

	CatalogURL     string        `env:"CATALOG_URL" envDefault:"https://restcountries.com/v3.1/all?fields=name,flags"`
	CatalogFile    string        `env:"CATALOG_FILE"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"15s"`

	// PlayTokenSecret signs play tokens. Empty means a random per-process secret.
	PlayTokenSecret string `env:"PLAY_TOKEN_SECRET"`
	CookieSecure    bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return &cfg, nil
}

// Level returns the parsed log level (validated by Load).
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }
