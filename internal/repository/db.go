package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for the dispatch stores. Reservations are short single-row updates.
const (
	poolMaxConns          = 16
	poolMinConns          = 2
	poolMaxConnIdleTime   = 5 * time.Minute
	poolHealthCheckPeriod = 30 * time.Second
	poolPingTimeout       = 3 * time.Second
)

// NewPool parses dsn, opens a pgx pool tagged with the service name and pings it.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = poolMaxConns
	cfg.MinConns = poolMinConns
	cfg.MaxConnIdleTime = poolMaxConnIdleTime
	cfg.HealthCheckPeriod = poolHealthCheckPeriod
	cfg.ConnConfig.RuntimeParams["application_name"] = "courier-dispatch"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, poolPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
