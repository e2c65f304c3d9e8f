package app

import (
	"context"
	"time"

	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/orders"
	"courier-dispatch/internal/transport/kafka"
)

// eventPublisher is the outbound event sink shared by the services.
type eventPublisher interface {
	Publish(ctx context.Context, e domain.Event) error
	Close() error
}

var newKafkaProducer = kafka.NewProducer

// sweepTimeout bounds one pass over pending orders.
const sweepTimeout = time.Minute

func newPublisher(cfg *config.Config, logger logx.Logger) (eventPublisher, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("kafka disabled, events are dropped")
		return kafka.NopPublisher{}, nil
	}
	p, err := newKafkaProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type processorIn struct {
	dig.In
	Config       *config.Config
	Logger       logx.Logger
	Dispatcher   *dispatch.Service
	CourierIndex geo.Index `name:"courier_index"`
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(in processorIn) *orders.Processor {
			return orders.NewProcessor(in.Dispatcher, in.CourierIndex, in.Config.Dispatch.SweepBatch, in.Logger)
		},
		func(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, p.Handle)
		},
		func(cfg *config.Config, logger logx.Logger, d *dispatch.Service) *jobs.SweepJob {
			return jobs.NewSweepJob(d, cfg.Dispatch.SweepSpec, cfg.Dispatch.SweepBatch, sweepTimeout, logger)
		},
	)
}
