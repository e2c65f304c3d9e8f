// Package dispatch matches pending orders with the nearest free courier.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/metrics"
	"courier-dispatch/internal/service/courier"
)

const (
	// DefaultNearbyLimit is used when a nearby query does not ask for a size.
	DefaultNearbyLimit = 10
	// MaxNearbyLimit caps nearby query results.
	MaxNearbyLimit = 50
)

// Options tunes matching.
type Options struct {
	RadiusMeters           float64
	NearbyRadiusMeters     float64
	MaxAttempts            int
	RedispatchOnDeactivate bool
	// OperationTimeout bounds the steps that must finish once a courier is
	// reserved, even after the caller has gone away.
	OperationTimeout time.Duration
}

// Result is the outcome of a dispatch. Courier is nil when the order stayed pending.
type Result struct {
	Order   domain.Order
	Courier *domain.Courier
}

// Assigned reports whether a courier was bound to the order.
func (r Result) Assigned() bool { return r.Courier != nil }

// Service orchestrates the courier registry and the order ledger.
type Service struct {
	couriers Couriers
	orders   Orders
	shops    Shops
	opts     Options
	metrics  *metrics.Dispatch
	logger   logx.Logger
}

// NewService creates a dispatcher.
func NewService(couriers Couriers, orders Orders, shops Shops, opts Options, m *metrics.Dispatch, logger logx.Logger) *Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = 50_000
	}
	if opts.NearbyRadiusMeters <= 0 {
		opts.NearbyRadiusMeters = 100_000
	}
	if opts.OperationTimeout <= 0 {
		opts.OperationTimeout = 3 * time.Second
	}
	if m == nil {
		m = metrics.NewDispatch()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		couriers: couriers,
		orders:   orders,
		shops:    shops,
		opts:     opts,
		metrics:  m,
		logger:   logger.With(logx.String("component", "dispatcher")),
	}
}

// Dispatch binds the nearest reservable courier within the assignment radius
// of origin to o. Candidates lost to a concurrent reservation are skipped
// and the search is repeated, at most MaxAttempts times.
func (s *Service) Dispatch(ctx context.Context, o domain.Order, origin domain.Point) (Result, error) {
	excluded := make(map[int64]struct{})
	filter := func(c domain.Courier) bool {
		if _, skip := excluded[c.ID]; skip {
			return false
		}
		return c.Reservable()
	}

	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		s.metrics.Attempts.Inc()

		cand, err := s.couriers.Nearest(ctx, origin, filter, s.opts.RadiusMeters)
		if err != nil {
			return Result{}, fmt.Errorf("dispatch order %d: %w", o.ID, err)
		}
		if cand == nil {
			break
		}

		ok, err := s.couriers.TryReserve(ctx, cand.ID)
		if err != nil {
			return Result{}, fmt.Errorf("dispatch order %d: reserve courier %d: %w", o.ID, cand.ID, err)
		}
		if !ok {
			s.metrics.ReservationConflicts.Inc()
			s.logger.Info("courier taken concurrently",
				logx.String("event", "reservation_conflict"),
				logx.OrderID(o.ID),
				logx.CourierID(cand.ID),
				logx.Int("attempt", attempt),
			)
			excluded[cand.ID] = struct{}{}
			continue
		}

		return s.bind(ctx, o, *cand, attempt)
	}

	s.metrics.Unassigned.Inc()
	s.logger.Info("no courier available", logx.OrderID(o.ID))
	return Result{Order: o}, nil
}

// settle detaches ctx from the caller for the steps after a reservation.
func (s *Service) settle(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.opts.OperationTimeout)
}

// bind assigns o to the reserved courier cand.
func (s *Service) bind(ctx context.Context, o domain.Order, cand domain.Courier, attempt int) (Result, error) {
	ctx, cancel := s.settle(ctx)
	defer cancel()

	assigned, err := s.orders.Assign(ctx, o.ID, cand.ID)
	if err != nil {
		if rerr := s.couriers.Release(ctx, cand.ID); rerr != nil {
			s.logger.Error("compensating release failed",
				logx.OrderID(o.ID),
				logx.CourierID(cand.ID),
				logx.Err(rerr),
			)
		}
		if errors.Is(err, apperr.ErrInvalidTransition) {
			s.logger.Info("order no longer pending", logx.OrderID(o.ID))
			return Result{Order: o}, nil
		}
		return Result{}, err
	}

	// The courier may have been deactivated after the reservation. Its
	// recall could have listed its orders before this one was assigned.
	c, err := s.couriers.Get(ctx, cand.ID)
	switch {
	case err != nil:
		s.logger.Warn("courier re-check failed",
			logx.OrderID(o.ID),
			logx.CourierID(cand.ID),
			logx.Err(err),
		)
		c = &cand
		c.Status = domain.CourierBusy
	case !c.Active || c.Status != domain.CourierBusy:
		return s.unbind(ctx, assigned, *c)
	}

	s.metrics.Assigned.Inc()
	s.logger.Info("courier reserved",
		logx.String("event", "courier_reserved"),
		logx.OrderID(o.ID),
		logx.CourierID(c.ID),
		logx.Int("attempt", attempt),
	)
	return Result{Order: assigned, Courier: c}, nil
}

// unbind returns an order assigned to a courier that went offline meanwhile.
func (s *Service) unbind(ctx context.Context, o domain.Order, c domain.Courier) (Result, error) {
	back, err := s.orders.ReturnToPool(ctx, o.ID)
	if errors.Is(err, apperr.ErrInvalidTransition) {
		// already moved on by the courier's recall
		cur, gerr := s.orders.Get(ctx, o.ID)
		if gerr != nil {
			return Result{}, gerr
		}
		back, err = *cur, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("return order %d of offline courier %d: %w", o.ID, c.ID, err)
	}

	s.metrics.Unassigned.Inc()
	s.logger.Warn("courier went offline during assignment, order returned to pool",
		logx.String("event", "assignment_reverted"),
		logx.OrderID(o.ID),
		logx.CourierID(c.ID),
		logx.String("courier_status", string(c.Status)),
	)
	return Result{Order: back}, nil
}

// CreateOrder records a new order for its shop and tries to dispatch it.
// An order of a shop without a position is left pending.
func (s *Service) CreateOrder(ctx context.Context, cmd domain.CreateOrderCommand) (Result, error) {
	shop, err := s.shops.Get(ctx, cmd.ShopID)
	if err != nil {
		return Result{}, err
	}
	o, err := s.orders.Create(ctx, cmd)
	if err != nil {
		return Result{}, err
	}
	if shop.Location == nil {
		s.metrics.Unassigned.Inc()
		s.logger.Warn("shop has no location, order left pending",
			logx.OrderID(o.ID),
			logx.ShopID(shop.ID),
		)
		return Result{Order: o}, nil
	}
	return s.Dispatch(ctx, o, *shop.Location)
}

// SetCourierActive toggles a courier. On deactivation the courier goes
// offline before its held orders are returned to the pool. Repeating a
// deactivation retries orders a previous call failed to return.
func (s *Service) SetCourierActive(ctx context.Context, id int64, active bool) (domain.Courier, error) {
	c, err := s.couriers.SetActive(ctx, id, active)
	if err != nil || active {
		return c, err
	}
	_, err = s.recall(ctx, id)
	return c, err
}

// RecallOrders returns the orders still held by an inactive courier to the
// pool and reports how many were returned. Active couriers keep theirs.
func (s *Service) RecallOrders(ctx context.Context, id int64) (int, error) {
	c, err := s.couriers.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Active {
		return 0, nil
	}
	return s.recall(ctx, id)
}

func (s *Service) recall(ctx context.Context, id int64) (int, error) {
	reverted, err := s.orders.ReturnCourierOrders(context.WithoutCancel(ctx), id)
	if len(reverted) > 0 {
		s.logger.Info("orders returned to pool",
			logx.CourierID(id),
			logx.Int("count", len(reverted)),
		)
	}
	if err != nil {
		s.logger.Error("courier still holds orders",
			logx.String("event", "recall_incomplete"),
			logx.CourierID(id),
			logx.Err(err),
		)
		err = fmt.Errorf("return orders of courier %d: %w", id, err)
	}
	if s.opts.RedispatchOnDeactivate {
		for _, o := range reverted {
			if _, rerr := s.Redispatch(ctx, o.ID); rerr != nil {
				s.logger.Warn("redispatch failed", logx.OrderID(o.ID), logx.Err(rerr))
			}
		}
	}
	return len(reverted), err
}

// ReportCourierLocation stores a courier position.
func (s *Service) ReportCourierLocation(ctx context.Context, id int64, p domain.Point) error {
	return s.couriers.ReportLocation(ctx, id, p)
}

// FindNearestCouriers lists reservable couriers around origin within the nearby radius.
func (s *Service) FindNearestCouriers(ctx context.Context, origin domain.Point, limit int) ([]courier.Nearby, error) {
	switch {
	case limit <= 0:
		limit = DefaultNearbyLimit
	case limit > MaxNearbyLimit:
		limit = MaxNearbyLimit
	}
	return s.couriers.FindNearest(ctx, origin, s.opts.NearbyRadiusMeters, limit)
}

// Redispatch tries to assign a pending order from its shop position.
// Orders in any other status are returned as they are.
func (s *Service) Redispatch(ctx context.Context, orderID int64) (Result, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return Result{}, err
	}
	if o.Status != domain.OrderPending {
		return Result{Order: *o}, nil
	}
	shop, err := s.shops.Get(ctx, o.ShopID)
	if err != nil {
		return Result{}, err
	}
	if shop.Location == nil {
		return Result{Order: *o}, nil
	}
	return s.Dispatch(ctx, *o, *shop.Location)
}

// SweepPending re-dispatches up to limit pending orders, oldest first, and
// returns how many were assigned. A failing order is logged and skipped.
func (s *Service) SweepPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.orders.ListPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	shops := make(map[int64]*domain.Shop)
	assigned := 0
	for _, o := range pending {
		if err := ctx.Err(); err != nil {
			return assigned, err
		}
		shop, ok := shops[o.ShopID]
		if !ok {
			shop, err = s.shops.Get(ctx, o.ShopID)
			if err != nil {
				s.logger.Warn("sweep: shop lookup failed", logx.OrderID(o.ID), logx.Err(err))
				continue
			}
			shops[o.ShopID] = shop
		}
		if shop.Location == nil {
			continue
		}
		res, err := s.Dispatch(ctx, o, *shop.Location)
		if err != nil {
			s.logger.Warn("sweep: dispatch failed", logx.OrderID(o.ID), logx.Err(err))
			continue
		}
		if res.Assigned() {
			assigned++
		}
	}
	s.logger.Debug("sweep finished", logx.Int("pending", len(pending)), logx.Int("assigned", assigned))
	return assigned, nil
}
