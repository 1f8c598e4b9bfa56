package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// DatabaseURL selects Postgres for the leaderboard; empty uses SQLite at DBPath.
	DBPath      string `env:"DB_PATH" envDefault:"data/leaderboard.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL selects Redis for sessions; empty keeps them in memory.
	RedisURL     string        `env:"REDIS_URL"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	CountriesURL      string        `env:"COUNTRIES_URL" envDefault:"https://restcountries.com/v3.1/all?fields=name,capital,population,languages,currencies,flag"`
	CountriesTimeout  time.Duration `env:"COUNTRIES_TIMEOUT" envDefault:"12s"`
	CountriesCacheTTL time.Duration `env:"COUNTRIES_CACHE_TTL" envDefault:"6h"`
	FallbackPath      string        `env:"FALLBACK_PATH" envDefault:"data/countries_fallback.json"`
	FallbackRefresh   time.Duration `env:"FALLBACK_REFRESH" envDefault:"168h"`

	DevToolsEnabled      bool   `env:"DEV_TOOLS_ENABLED" envDefault:"false"`
	DevToolsPasswordHash string `env:"DEV_TOOLS_PASSWORD_HASH"`

	LeaderboardLimit int `env:"LEADERBOARD_LIMIT" envDefault:"20"`
}

// Load reads an optional .env file, then parses the environment. Variables
// already set take precedence over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.LeaderboardLimit <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_LIMIT must be positive, got %d", cfg.LeaderboardLimit)
	}
	return &cfg, nil
}
