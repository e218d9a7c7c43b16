package config

import (
	"log"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds everything the terminal needs to start: where the backend
// lives, where to listen, and where local state goes.
type Config struct {
	Address     string `env:"ADDRESS" envDefault:":3000"`
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"http://localhost:5000/api/v1"`
	StatePath   string `env:"STATE_PATH" envDefault:"ironpress.db"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

// Origins splits the comma-separated CORS origin list.
func (c *Config) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
