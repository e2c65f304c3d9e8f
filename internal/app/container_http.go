package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/http/handlers"
	httpmw "courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/http/middleware/ratelimit"
	"courier-dispatch/internal/http/router"
	"courier-dispatch/internal/logx"
)

func newRateLimiter(cfg *config.Config) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.Unlimited{}
	}
	return ratelimit.NewTokenBucket(ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	}, nil)
}

func newRateLimitMiddleware(logger logx.Logger, counter rateLimitCounter, limiter ratelimit.Limiter) *ratelimit.Middleware {
	return ratelimit.New(logger, counter.Counter, limiter)
}

type routerIn struct {
	dig.In
	Config    *config.Config
	Logger    logx.Logger
	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Couriers  *handlers.CourierHandler
	Shops     *handlers.ShopHandler
	RateLimit *ratelimit.Middleware
	Metrics   *httpmw.HTTPMetrics
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Logger:    in.Logger,
		Base:      in.Base,
		Orders:    in.Orders,
		Couriers:  in.Couriers,
		Shops:     in.Shops,
		RateLimit: in.RateLimit,
		Metrics:   in.Metrics,
		Exporter:  promhttp.Handler(),
		Timeout:   2 * in.Config.Dispatch.OperationTimeout,
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewOrderUsecase,
		handlers.NewDispatchUsecase,
		handlers.NewCourierUsecase,
		handlers.NewShopUsecase,
		handlers.NewOrderHandler,
		handlers.NewCourierHandler,
		func(cfg *config.Config) handlers.NearbyShopRadius {
			return handlers.NearbyShopRadius(cfg.Dispatch.ShopNearbyRadiusMeters)
		},
		handlers.NewShopHandler,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
	)
}
