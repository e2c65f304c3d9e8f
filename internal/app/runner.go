package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/shop"
)

const shutdownTimeout = 15 * time.Second

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type runIn struct {
	dig.In
	Ctx       context.Context
	Server    *http.Server
	Logger    logx.Logger
	Stores    *stores
	Redis     *redisHandle
	Publisher eventPublisher
	Couriers  *courier.Service
	Shops     *shop.Service
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

func serve(in runIn) error {
	defer closeResources(in)

	if err := warmIndexes(in.Ctx, in.Logger, in.Couriers, in.Shops); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	startServer(in.Server, in.Logger, errCh)

	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down service-dispatch")
	case err := <-errCh:
		return err
	}
	gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
	return nil
}

// warmIndexes loads stored positions so proximity queries see every entity after a restart.
func warmIndexes(ctx context.Context, logger logx.Logger, couriers *courier.Service, shops *shop.Service) error {
	nc, err := couriers.WarmIndex(ctx)
	if err != nil {
		return err
	}
	ns, err := shops.WarmIndex(ctx)
	if err != nil {
		return err
	}
	logger.Info("proximity indexes warmed", logx.Int("couriers", nc), logx.Int("shops", ns))
	return nil
}

func startServer(server *http.Server, logger logx.Logger, errCh chan<- error) {
	go func() {
		logger.Info("service-dispatch listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in runIn) {
	if err := in.Server.Close(); err != nil {
		in.Logger.Error("server close error", logx.Err(err))
	}
	if err := in.Publisher.Close(); err != nil {
		in.Logger.Error("event publisher close error", logx.Err(err))
	}
	if err := in.Redis.Close(); err != nil {
		in.Logger.Error("redis close error", logx.Err(err))
	}
	in.Stores.Close()
	_ = in.Logger.Sync()
}
