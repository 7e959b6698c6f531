// Package db opens the configured record store.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tasktree/internal/config"
	"tasktree/pkg/record"
)

// Connect opens a Postgres pool and checks it is reachable.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Open returns the record store selected by cfg and a function that releases it.
func Open(ctx context.Context, cfg *config.Config) (record.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return record.NewPgStore(pool), pool.Close, nil
	case config.BackendSQLite:
		sqlDB, err := record.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return record.NewSQLiteStore(sqlDB), func() { _ = sqlDB.Close() }, nil
	case config.BackendMemory:
		return record.NewMemStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", record.ErrUnknownBackend, cfg.Backend)
	}
}
