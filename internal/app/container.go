package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/geo"
	"courier-dispatch/internal/geocode"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/ledger"
	"courier-dispatch/internal/service/shop"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect    func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	redisConnect func(context.Context, config.Redis) (*redis.Client, error)
	loadConfig   func() (*config.Config, error)
	logFatalf    func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:    connectDbWithRetry,
		redisConnect: connectRedis,
		loadConfig:   config.Load,
		logFatalf:    log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithRedisConnect sets the Redis connection function
func (b *ContainerBuilder) WithRedisConnect(fn func(context.Context, config.Redis) (*redis.Client, error)) *ContainerBuilder {
	if fn != nil {
		b.redisConnect = fn
	}
	return b
}

// WithConfig replaces config.Load
func (b *ContainerBuilder) WithConfig(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP service container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerHTTP)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerWorker)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context, edge func(*dig.Container) error) (*dig.Container, error) {
	container := dig.New()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"core", func() error { return registerCore(container, ctx, b.loadConfig) }},
		{"storage", func() error { return registerStorage(container, b.dbConnect) }},
		{"geo", func() error { return registerGeo(container, b.redisConnect) }},
		{"events", func() error { return registerEvents(container) }},
		{"service", func() error { return registerService(container) }},
		{"edge", func() error { return edge(container) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return container, nil
}

// MustBuildContainer builds the HTTP service container with default dependencies.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container with default dependencies.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, load func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		load,
		NewLogger,
		newRegisterer,
		newDispatchMetrics,
		newHTTPMetrics,
		newGeocoderRetries,
		newRateLimitCounter,
	)
}

func registerStorage(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	return provideAll(container,
		func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*stores, error) {
			return openStores(ctx, cfg, logger, dbConnect)
		},
		func(s *stores) courier.Repository { return s.couriers },
		func(s *stores) ledger.Repository { return s.orders },
		func(s *stores) shop.Repository { return s.shops },
	)
}

// indexes publishes the courier and shop proximity indexes under their names.
type indexes struct {
	dig.Out
	Couriers geo.Index `name:"courier_index"`
	Shops    geo.Index `name:"shop_index"`
}

func registerGeo(container *dig.Container, redisConnect func(context.Context, config.Redis) (*redis.Client, error)) error {
	return provideAll(container,
		func(ctx context.Context, cfg *config.Config) (*redisHandle, error) {
			if cfg.Index.Backend != config.BackendRedis {
				return &redisHandle{}, nil
			}
			c, err := redisConnect(ctx, cfg.Redis)
			if err != nil {
				return nil, err
			}
			return &redisHandle{client: c}, nil
		},
		func(cfg *config.Config, rh *redisHandle) indexes {
			if rh.client != nil {
				return indexes{
					Couriers: geo.NewRedisIndex(rh.client, "dispatch:geo:couriers"),
					Shops:    geo.NewRedisIndex(rh.client, "dispatch:geo:shops"),
				}
			}
			return indexes{
				Couriers: geo.NewGridIndex(cfg.Index.CellDegrees),
				Shops:    geo.NewGridIndex(cfg.Index.CellDegrees),
			}
		},
		newGeocoder,
	)
}

func newGeocoder(cfg *config.Config, logger logx.Logger, retries geocoderRetries) ledger.Geocoder {
	g := cfg.Geocoder
	if g.BaseURL == "" {
		logger.Warn("geocoder disabled; orders need explicit coordinates")
		return geocode.Disabled{}
	}
	return geocode.NewRetrying(
		geocode.NewNominatim(g.BaseURL, g.UserAgent, g.Timeout, logger),
		logger,
		retries.Counter,
		geocode.RetryConfig{MaxAttempts: g.MaxAttempts, BaseDelay: g.BaseDelay, MaxDelay: g.MaxDelay},
	)
}

func registerEvents(container *dig.Container) error {
	return provideAll(container,
		newPublisher,
		func(p eventPublisher) courier.Publisher { return p },
		func(p eventPublisher) ledger.Publisher { return p },
	)
}

type serviceIn struct {
	dig.In
	Config       *config.Config
	Logger       logx.Logger
	CourierRepo  courier.Repository
	CourierIndex geo.Index `name:"courier_index"`
	ShopRepo     shop.Repository
	ShopIndex    geo.Index `name:"shop_index"`
	Publisher    courier.Publisher
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(in serviceIn) *courier.Service {
			return courier.NewService(in.CourierRepo, in.CourierIndex, in.Publisher, in.Config.Dispatch.OperationTimeout, in.Logger)
		},
		func(in serviceIn) *shop.Service {
			return shop.NewService(in.ShopRepo, in.ShopIndex, in.Config.Dispatch.OperationTimeout)
		},
		func(
			cfg *config.Config,
			repo ledger.Repository,
			g ledger.Geocoder,
			couriers *courier.Service,
			p ledger.Publisher,
			logger logx.Logger,
		) *ledger.Service {
			return ledger.NewService(repo, g, couriers, p, cfg.Dispatch.OperationTimeout, logger)
		},
		func(
			cfg *config.Config,
			couriers *courier.Service,
			orders *ledger.Service,
			shops *shop.Service,
			m *metrics.Dispatch,
			logger logx.Logger,
		) *dispatch.Service {
			return dispatch.NewService(couriers, orders, shops, dispatch.Options{
				RadiusMeters:           cfg.Dispatch.RadiusMeters,
				NearbyRadiusMeters:     cfg.Dispatch.NearbyRadiusMeters,
				MaxAttempts:            cfg.Dispatch.MaxAttempts,
				RedispatchOnDeactivate: cfg.Dispatch.RedispatchOnDeactivate,
				OperationTimeout:       cfg.Dispatch.OperationTimeout,
			}, m, logger)
		},
	)
}
