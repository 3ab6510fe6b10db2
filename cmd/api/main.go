package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/safe-ui/safe_assets/internal/analytics"
	"github.com/safe-ui/safe_assets/internal/catalog"
	"github.com/safe-ui/safe_assets/internal/collectibles"
	"github.com/safe-ui/safe_assets/internal/config"
	"github.com/safe-ui/safe_assets/internal/infra"
	"github.com/safe-ui/safe_assets/internal/logging"
	"github.com/safe-ui/safe_assets/internal/routes"
	"github.com/safe-ui/safe_assets/internal/server"
	"github.com/safe-ui/safe_assets/internal/store"
)

const hydrateTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	st := store.New(logger)

	var sources []catalog.Source
	if cfg.SeedFile != "" {
		sources = append(sources, catalog.NewYAMLSource(cfg.SeedFile))
	}
	if db != nil {
		pg := catalog.NewPostgresSource(db, cfg.SafeAddress)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("prepare catalog schema", "error", err)
			os.Exit(1)
		}
		sources = append(sources, pg)
	}

	hydrateCtx, cancelHydrate := context.WithTimeout(ctx, hydrateTimeout)
	err = catalog.Hydrate(hydrateCtx, st, logger, sources...)
	cancelHydrate()
	if err != nil {
		logger.Error("hydrate store", "error", err)
		os.Exit(1)
	}

	var tracker analytics.Tracker = analytics.NewLoggerTracker(logger)
	if cache != nil {
		tracker = analytics.NewRedisTracker(cache, cfg.AnalyticsListKey)
	}
	sessions := collectibles.NewSessions(st, tracker, cfg.SessionTTL, logger)

	srv, err := server.New(routes.Deps{
		Cfg:      cfg,
		DB:       db,
		Cache:    cache,
		Logger:   logger,
		Store:    st,
		Sessions: sessions,
	})
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly", "store_version", st.State().Version())
}
