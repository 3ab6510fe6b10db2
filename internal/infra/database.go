package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Catalog reads happen once at startup, so the pool stays small.
const (
	pgMaxConns          = 4
	pgHealthCheckPeriod = time.Minute
	pgConnectTimeout    = 5 * time.Second
)

// NewPostgresPool opens a small PostgreSQL pool for catalog reads and checks
// it with a ping.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > pgMaxConns {
		cfg.MaxConns = pgMaxConns
	}
	cfg.HealthCheckPeriod = pgHealthCheckPeriod
	cfg.ConnConfig.ConnectTimeout = pgConnectTimeout
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = "safe_assets"
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
