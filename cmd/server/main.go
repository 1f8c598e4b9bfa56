package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/geoquiz/internal/config"
	"github.com/playperu/geoquiz/internal/countries"
	"github.com/playperu/geoquiz/internal/database"
	"github.com/playperu/geoquiz/internal/handler/health"
	"github.com/playperu/geoquiz/internal/handler/livefeed"
	"github.com/playperu/geoquiz/internal/leaderboard"
	"github.com/playperu/geoquiz/internal/migrations"
	"github.com/playperu/geoquiz/internal/server"
	"github.com/playperu/geoquiz/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	checks := map[string]health.Checker{}

	// --- Leaderboard ---
	store, closeStore, err := openLeaderboard(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	checks["leaderboard"] = store

	broker := leaderboard.NewBroker()
	board := leaderboard.NewPublishing(store, broker)

	// --- Sessions ---
	var sessions session.Store
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		rs := session.NewRedisStore(rdb, cfg.SessionTTL)
		checks["sessions"] = rs
		sessions = rs
	} else {
		logger.Warn("REDIS_URL not set, keeping sessions in memory")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	// --- Countries ---
	source := countries.NewSource(countries.Options{
		URL:      cfg.CountriesURL,
		Timeout:  cfg.CountriesTimeout,
		CacheTTL: cfg.CountriesCacheTTL,
		Fallback: &countries.FallbackFile{Path: cfg.FallbackPath, MaxAge: cfg.FallbackRefresh},
	}, logger)
	checks["countries"] = source

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Countries:            source,
		Sessions:             sessions,
		Leaderboard:          board,
		Broker:               broker,
		CookieSecure:         cfg.CookieSecure,
		SessionTTL:           cfg.SessionTTL,
		LeaderboardLimit:     cfg.LeaderboardLimit,
		DevToolsEnabled:      cfg.DevToolsEnabled,
		DevToolsPasswordHash: cfg.DevToolsPasswordHash,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
		r.Mount("/ws", livefeed.NewHandler(logger, broker).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		source.Warm(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// leaderboardStore is what main needs from either backend.
type leaderboardStore interface {
	leaderboard.Store
	health.Checker
}

// openLeaderboard picks Postgres when DATABASE_URL is set and SQLite
// otherwise, and brings the schema up to date.
func openLeaderboard(ctx context.Context, cfg *config.Config, logger *slog.Logger) (leaderboardStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL, database.PoolConfig{
			MaxConns:        10,
			MaxConnLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		db := stdlib.OpenDBFromPool(pool)
		if err := migrations.Run(db, migrations.DialectPostgres); err != nil {
			db.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to postgres")

		return leaderboard.NewPGStore(pool), func() {
			db.Close()
			pool.Close()
		}, nil
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	if err := migrations.Run(db, migrations.DialectSQLite); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	return leaderboard.NewSQLStore(db), func() { db.Close() }, nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
