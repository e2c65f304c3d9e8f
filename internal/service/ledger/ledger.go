// Package ledger owns order records and drives them through the delivery lifecycle.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// casAttempts bounds how often a transition is re-evaluated after losing a write race.
const casAttempts = 3

// courierStatuses are the statuses listed in a courier's own order view.
var courierStatuses = []domain.OrderStatus{domain.OrderAssigned, domain.OrderPicked, domain.OrderDelivered}

// activeStatuses are the statuses that hold a courier reservation.
var activeStatuses = []domain.OrderStatus{domain.OrderAssigned, domain.OrderPicked}

// Service is the order ledger.
type Service struct {
	repo             Repository
	geocoder         Geocoder
	couriers         CourierReleaser
	publisher        Publisher
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates an order ledger.
func NewService(
	repo Repository,
	geocoder Geocoder,
	couriers CourierReleaser,
	publisher Publisher,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		geocoder:         geocoder,
		couriers:         couriers,
		publisher:        publisher,
		operationTimeout: timeout,
		logger:           logger.With(logx.String("component", "order_ledger")),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create stores a pending order. Explicit coordinates win; otherwise the
// address is geocoded and an unresolvable address fails the call.
func (s *Service) Create(ctx context.Context, cmd domain.CreateOrderCommand) (domain.Order, error) {
	loc, err := s.resolve(ctx, cmd)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ShopID:           cmd.ShopID,
		CustomerName:     cmd.CustomerName,
		CustomerPhone:    cmd.CustomerPhone,
		DeliveryAddress:  cmd.FullAddress(),
		DeliveryDistrict: cmd.District,
		DeliveryLocation: loc,
		PackageDetails:   cmd.PackageDetails,
		Priority:         cmd.Priority,
		Status:           domain.OrderPending,
		CreatedAt:        s.now(),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	id, err := s.repo.Create(ctx, &o)
	if err != nil {
		return domain.Order{}, err
	}
	o.ID = id

	s.logger.Info("order created",
		logx.OrderID(id),
		logx.ShopID(o.ShopID),
		logx.String("priority", string(o.Priority)),
	)
	s.publish(ctx, domain.OrderEvent(domain.EventOrderCreated, o, o.CreatedAt))
	return o, nil
}

func (s *Service) resolve(ctx context.Context, cmd domain.CreateOrderCommand) (*domain.Point, error) {
	if cmd.DeliveryLocation != nil {
		p := *cmd.DeliveryLocation
		return &p, nil
	}
	if s.geocoder == nil {
		return nil, fmt.Errorf("%w: no geocoder configured", apperr.ErrAddressUnresolved)
	}
	p, err := s.geocoder.Resolve(ctx, cmd.Address, cmd.District)
	if err != nil {
		s.logger.Warn("geocoding failed", logx.String("district", cmd.District), logx.Err(err))
		return nil, fmt.Errorf("%w: %v", apperr.ErrAddressUnresolved, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %q", apperr.ErrAddressUnresolved, cmd.FullAddress())
	}
	return p, nil
}

// Get retrieves an order by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	return o, nil
}

// GetFor returns the order if caller may see it: the owning shop or the assigned courier.
func (s *Service) GetFor(ctx context.Context, id int64, caller domain.Caller) (*domain.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case caller.Role == domain.RoleSystem,
		caller.Role == domain.RoleShop && o.ShopID == caller.ID,
		caller.Role == domain.RoleCourier && o.AssignedTo(caller.ID):
		return o, nil
	}
	return nil, fmt.Errorf("order %d: %w", id, apperr.ErrUnauthorized)
}

// Transition moves an order to target on behalf of caller.
func (s *Service) Transition(ctx context.Context, orderID int64, caller domain.Caller, target domain.OrderStatus) (domain.Order, error) {
	ch, err := s.apply(ctx, orderID, func(o domain.Order) (domain.Change, error) {
		return domain.Transition(o, caller, target, s.now())
	})
	if err != nil {
		return domain.Order{}, err
	}
	evt := domain.EventOrderStatusChanged
	if target == domain.OrderPending {
		evt = domain.EventOrderReturnedToPool
	}
	return s.finish(ctx, ch, evt)
}

// Assign records courierID on a pending order. Only the dispatcher calls it,
// after reserving the courier.
func (s *Service) Assign(ctx context.Context, orderID, courierID int64) (domain.Order, error) {
	ch, err := s.apply(ctx, orderID, func(o domain.Order) (domain.Change, error) {
		return domain.Assign(o, courierID, s.now())
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.logger.Info("order assigned",
		logx.String("event", "order_assigned"),
		logx.OrderID(orderID),
		logx.CourierID(courierID),
	)
	return s.finish(ctx, ch, domain.EventOrderAssigned)
}

// ReturnToPool reverts an assigned or picked order to pending and releases its courier.
func (s *Service) ReturnToPool(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.Transition(ctx, orderID, domain.SystemCaller(), domain.OrderPending)
}

// ReturnCourierOrders reverts every order the courier holds. An order that
// fails is skipped and its error joined into the result, so a later call
// picks up whatever is still held.
func (s *Service) ReturnCourierOrders(ctx context.Context, courierID int64) ([]domain.Order, error) {
	listCtx, cancel := s.withTimeout(ctx)
	held, err := s.repo.ListByCourier(listCtx, courierID, activeStatuses)
	cancel()
	if err != nil {
		return nil, err
	}

	var (
		reverted = make([]domain.Order, 0, len(held))
		errs     []error
	)
	for _, o := range held {
		back, err := s.ReturnToPool(ctx, o.ID)
		if errors.Is(err, apperr.ErrInvalidTransition) {
			// finished or reverted concurrently
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("order %d: %w", o.ID, err))
			continue
		}
		reverted = append(reverted, back)
	}
	return reverted, errors.Join(errs...)
}

// ListByShop returns the orders of a shop, newest first.
func (s *Service) ListByShop(ctx context.Context, shopID int64) ([]domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByShop(ctx, shopID)
}

// ListByCourier returns the assigned, picked and delivered orders of a courier.
func (s *Service) ListByCourier(ctx context.Context, courierID int64) ([]domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByCourier(ctx, courierID, courierStatuses)
}

// ListPending returns up to limit pending orders, oldest first.
func (s *Service) ListPending(ctx context.Context, limit int) ([]domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListPending(ctx, limit)
}

// apply loads the order, computes the change and writes it conditionally,
// re-evaluating against fresh state when another writer got there first.
func (s *Service) apply(ctx context.Context, orderID int64, step func(domain.Order) (domain.Change, error)) (domain.Change, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for attempt := 1; attempt <= casAttempts; attempt++ {
		o, err := s.repo.Get(ctx, orderID)
		if err != nil {
			return domain.Change{}, err
		}
		if o == nil {
			return domain.Change{}, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
		}
		ch, err := step(*o)
		if err != nil {
			return domain.Change{}, fmt.Errorf("order %d: %w", orderID, err)
		}
		ok, err := s.repo.Update(ctx, ch)
		if err != nil {
			return domain.Change{}, err
		}
		if ok {
			return ch, nil
		}
		s.logger.Debug("order changed concurrently", logx.OrderID(orderID), logx.Int("attempt", attempt))
	}
	return domain.Change{}, fmt.Errorf("order %d: %w: concurrent updates", orderID, apperr.ErrConflict)
}

// finish runs the side effects of a persisted change.
func (s *Service) finish(ctx context.Context, ch domain.Change, evt domain.EventType) (domain.Order, error) {
	// the change is stored; follow-ups outlive the caller
	ctx, cancel := s.withTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if courierID, ok := ch.ReleasedCourier(); ok && s.couriers != nil {
		if err := s.couriers.Release(ctx, courierID); err != nil {
			s.logger.Error("release courier failed",
				logx.OrderID(ch.After.ID),
				logx.CourierID(courierID),
				logx.Err(err),
			)
			return ch.After, fmt.Errorf("release courier %d: %w", courierID, err)
		}
	}
	s.publish(ctx, domain.OrderEvent(evt, ch.After, s.now()))
	return ch.After, nil
}

func (s *Service) publish(ctx context.Context, e domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("publish event failed", logx.String("event", string(e.Type)), logx.Err(err))
	}
}
