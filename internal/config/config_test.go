package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.DBPath != "data/leaderboard.db" || cfg.DatabaseURL != "" {
		t.Errorf("database = %q, %q", cfg.DBPath, cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.CountriesTimeout != 12*time.Second || cfg.CountriesCacheTTL != 6*time.Hour {
		t.Errorf("countries timing = %v, %v", cfg.CountriesTimeout, cfg.CountriesCacheTTL)
	}
	if cfg.FallbackRefresh != 7*24*time.Hour {
		t.Errorf("FallbackRefresh = %v", cfg.FallbackRefresh)
	}
	if cfg.DevToolsEnabled {
		t.Error("dev tools enabled by default")
	}
	if cfg.LeaderboardLimit != 20 {
		t.Errorf("LeaderboardLimit = %d", cfg.LeaderboardLimit)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATABASE_URL", "postgres://quiz@localhost/quiz")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DEV_TOOLS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://quiz@localhost/quiz" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute || !cfg.DevToolsEnabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("LEADERBOARD_LIMIT=50\nHTTP_ADDR=:7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTTP_ADDR", ":6000")
	t.Cleanup(func() { os.Unsetenv("LEADERBOARD_LIMIT") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LeaderboardLimit != 50 {
		t.Errorf("LeaderboardLimit = %d, want value from file", cfg.LeaderboardLimit)
	}
	if cfg.HTTPAddr != ":6000" {
		t.Errorf("HTTPAddr = %q, want environment to win", cfg.HTTPAddr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SESSION_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad duration")
	}

	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("LEADERBOARD_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero limit")
	}
}
