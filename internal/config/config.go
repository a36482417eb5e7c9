package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-driven configuration. Command-line flags override
// the listen address and database path; token secrets are only ever read from
// the environment or auto-generated into the settings table.
type Config struct {
	Addr          string `env:"INVENTAR_ADDR" envDefault:":8080"`
	DBPath        string `env:"INVENTAR_DB" envDefault:"inventar.sqlite3"`
	LogPath       string `env:"INVENTAR_LOG"`
	AdminUser     string `env:"INVENTAR_ADMIN_USER" envDefault:"Admin"`
	AccessSecret  string `env:"INVENTAR_ACCESS_SECRET"`
	RefreshSecret string `env:"INVENTAR_REFRESH_SECRET"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
