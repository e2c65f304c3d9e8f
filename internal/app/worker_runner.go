package app

import (
	"context"
	"errors"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/shop"
	"courier-dispatch/internal/transport/kafka"
)

// WorkerRunner runs the event consumer and the pending-order sweep.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker until its context is cancelled. Any other error panics.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

type workerIn struct {
	dig.In
	Ctx       context.Context
	Logger    logx.Logger
	Stores    *stores
	Redis     *redisHandle
	Publisher eventPublisher
	Consumer  *kafka.Consumer
	Sweep     *jobs.SweepJob
	Couriers  *courier.Service
	Shops     *shop.Service
}

// consumerRunner is the part of kafka.Consumer the worker drives.
type consumerRunner interface {
	Run(ctx context.Context) error
}

func workerRun(in workerIn) error {
	defer closeWorker(in)

	if err := warmIndexes(in.Ctx, in.Logger, in.Couriers, in.Shops); err != nil {
		return err
	}
	in.Logger.Info("service-dispatch-worker started")
	return superviseWorker(in.Ctx, in.Consumer, in.Sweep)
}

// superviseWorker runs both loops until ctx ends; one failing stops the other.
func superviseWorker(ctx context.Context, consumer consumerRunner, sweep *jobs.SweepJob) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumer.Run(gctx) })
	g.Go(func() error { return sweep.Run(gctx) })
	return g.Wait()
}

func closeWorker(in workerIn) {
	if in.Consumer != nil {
		if err := in.Consumer.Close(); err != nil {
			in.Logger.Error("kafka close error", logx.Err(err))
		}
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
