package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/repository"
	"courier-dispatch/internal/repository/memory"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/ledger"
	"courier-dispatch/internal/service/shop"
)

var (
	newPool = repository.NewPool
	migrate = repository.Migrate
)

func connectDbWithRetry(ctx context.Context, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
	var lastErr error
	const attemptTimeout = 3 * time.Second
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		pool, err := newPool(attemptCtx, dsn)
		cancel()
		if err == nil {
			log.Printf("db connected on attempt %d", i)
			return pool, nil
		}
		lastErr = err
		log.Printf("db connect failed (attempt %d/%d): %v", i, retries, err)
		if i < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", retries, lastErr)
}

// stores holds the repositories of the selected backend. pool is nil for memory.
type stores struct {
	couriers courier.Repository
	orders   ledger.Repository
	shops    shop.Repository
	pool     *pgxpool.Pool
}

func (s *stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func openStores(
	ctx context.Context,
	cfg *config.Config,
	logger logx.Logger,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) (*stores, error) {
	switch cfg.Storage {
	case config.BackendMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		shops := memory.NewShopRepo()
		return &stores{
			couriers: memory.NewCourierRepo(),
			orders:   memory.NewOrderRepo(shops),
			shops:    shops,
		}, nil
	case config.BackendPostgres, "":
		pool, err := dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &stores{
			couriers: repository.NewCourierRepo(pool),
			orders:   repository.NewOrderRepo(pool),
			shops:    repository.NewShopRepo(pool),
			pool:     pool,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// redisHandle carries the optional Redis client; client is nil for the grid index.
type redisHandle struct {
	client *redis.Client
}

func (h *redisHandle) Close() error {
	if h.client == nil {
		return nil
	}
	return h.client.Close()
}

func connectRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
