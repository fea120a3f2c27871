// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/store"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// Option adjusts pool construction.
type Option func(*pgxpool.Config)

// WithPreparedStatements registers the API read queries on every new
// connection. The players table must already exist.
func WithPreparedStatements() Option {
	return func(pc *pgxpool.Config) {
		pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return registerPreparedStatements(ctx, conn)
		}
	}
}

// New creates and validates a new connection pool. Every failure is a
// *store.ConnectionError.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Pool, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, &store.ConnectionError{Err: err}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, &store.ConnectionError{Err: fmt.Errorf("parse database URL: %w", err)}
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	for _, opt := range opts {
		opt(poolCfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &store.ConnectionError{Err: fmt.Errorf("create pool: %w", err)}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &store.ConnectionError{Err: fmt.Errorf("ping database: %w", err)}
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "SELECT 1").Scan(&n)
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range store.Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
