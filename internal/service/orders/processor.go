// Package orders reacts to dispatch events consumed by the worker.
package orders

import (
	"context"
	"errors"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/transport/kafka"
)

// Processor processes dispatch events
type Processor struct {
	dispatcher Dispatcher
	locations  Locations
	batch      int
	logger     logx.Logger
	factory    *actionFactory
}

// NewProcessor creates a Processor. batch bounds the sweep triggered when a
// courier frees up. locations may be nil.
func NewProcessor(d Dispatcher, locations Locations, batch int, logger logx.Logger) *Processor {
	if batch < 1 {
		batch = 50
	}
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		dispatcher: d,
		locations:  locations,
		batch:      batch,
		logger:     logger.With(logx.String("component", "event_processor")),
	}
	p.factory = newActionFactory(p.onReturnedToPool, p.onStatusChanged, p.onCourierStatus, p.onLocation)
	return p
}

// Handle processes a single event. Unknown event types are ignored.
func (p *Processor) Handle(ctx context.Context, e domain.Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Type)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onReturnedToPool(ctx context.Context, e domain.Event) error {
	res, err := p.dispatcher.Redispatch(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return kafka.Permanent(err)
	}
	if err != nil {
		return err
	}
	if res.Assigned() {
		p.logger.Info("order redispatched",
			logx.String("event", "order_redispatched"),
			logx.OrderID(e.OrderID),
			logx.CourierID(res.Courier.ID),
		)
	}
	return nil
}

// onStatusChanged sweeps when a delivery frees a courier.
func (p *Processor) onStatusChanged(ctx context.Context, e domain.Event) error {
	if domain.OrderStatus(e.Status) != domain.OrderDelivered {
		return nil
	}
	return p.sweep(ctx, e)
}

// onCourierStatus sweeps when a courier becomes available and takes back
// whatever an offline courier still holds.
func (p *Processor) onCourierStatus(ctx context.Context, e domain.Event) error {
	switch domain.CourierStatus(e.Status) {
	case domain.CourierAvailable:
		return p.sweep(ctx, e)
	case domain.CourierOffline:
		return p.recall(ctx, e)
	default:
		return nil
	}
}

func (p *Processor) recall(ctx context.Context, e domain.Event) error {
	if e.CourierID == 0 {
		return nil
	}
	n, err := p.dispatcher.RecallOrders(ctx, e.CourierID)
	if errors.Is(err, apperr.ErrNotFound) {
		return kafka.Permanent(err)
	}
	if n > 0 {
		p.logger.Info("orders recalled from offline courier",
			logx.String("event", "orders_recalled"),
			logx.CourierID(e.CourierID),
			logx.Int("count", n),
		)
	}
	return err
}

func (p *Processor) onLocation(ctx context.Context, e domain.Event) error {
	if p.locations == nil || e.Location == nil || e.CourierID == 0 {
		return nil
	}
	if _, err := domain.NewPoint(e.Location.Lon, e.Location.Lat); err != nil {
		return kafka.Permanent(err)
	}
	return p.locations.Upsert(ctx, e.CourierID, *e.Location)
}

func (p *Processor) sweep(ctx context.Context, e domain.Event) error {
	n, err := p.dispatcher.SweepPending(ctx, p.batch)
	if err != nil {
		return err
	}
	if n > 0 {
		p.logger.Info("pending orders assigned",
			logx.String("trigger", string(e.Type)),
			logx.Int("assigned", n),
		)
	}
	return nil
}
