// Package courier implements the courier registry: positions, availability and
// reservation of couriers.
package courier

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
	"courier-dispatch/internal/logx"
)

// Filter selects couriers during a proximity search.
type Filter func(domain.Courier) bool

// Reservable accepts active, available couriers.
func Reservable(c domain.Courier) bool { return c.Reservable() }

// Nearby is a courier with its distance from a query origin.
type Nearby struct {
	Courier        domain.Courier
	DistanceMeters float64
}

// Service coordinates courier business logic and orchestrates repository calls.
type Service struct {
	repo             Repository
	index            geo.Index
	publisher        Publisher
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures a courier Service.
func NewService(r Repository, index geo.Index, p Publisher, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		index:            index,
		publisher:        p,
		operationTimeout: timeout,
		logger:           logger.With(logx.String("component", "courier_registry")),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Register creates an inactive, offline courier.
func (s *Service) Register(ctx context.Context, name, phone string) (domain.Courier, error) {
	c, err := domain.NewCourier(name, phone)
	if err != nil {
		return domain.Courier{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.repo.Create(ctx, &c)
	if err != nil {
		return domain.Courier{}, err
	}
	c.ID = id
	return c, nil
}

// Get retrieves a courier by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

// ReportLocation overwrites the courier position, then refreshes the index.
func (s *Service) ReportLocation(ctx context.Context, id int64, p domain.Point) error {
	if _, err := domain.NewPoint(p.Lon, p.Lat); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdateLocation(ctx, id, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	if err := s.index.Upsert(ctx, id, p); err != nil {
		return fmt.Errorf("index courier %d: %w", id, err)
	}

	e := domain.NewEvent(domain.EventCourierLocationUpdate, s.now())
	e.CourierID = id
	e.Location = &p
	s.publish(ctx, e)
	return nil
}

// SetActive toggles the active flag. Deactivation forces offline; activation
// makes the courier available unless it is still busy.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return domain.Courier{}, err
	}
	if c == nil {
		return domain.Courier{}, fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}

	s.logger.Info("courier active changed",
		logx.CourierID(id),
		logx.Bool("active", c.Active),
		logx.String("status", string(c.Status)),
	)
	e := domain.NewEvent(domain.EventCourierStatusChanged, s.now())
	e.CourierID = id
	e.Status = string(c.Status)
	s.publish(ctx, e)
	return *c, nil
}

// TryReserve atomically moves an active, available courier to busy.
// It reports false for any other state; only infrastructure failures are errors.
func (s *Service) TryReserve(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.Reserve(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Debug("courier reserved", logx.CourierID(id))
	}
	return ok, nil
}

// Release returns a busy courier to available. A courier that is not busy or
// not active is left as it is.
func (s *Service) Release(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	released, found, err := s.repo.Release(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	if released {
		s.logger.Debug("courier released", logx.CourierID(id))
	}
	return nil
}

// Nearest returns the closest courier within radiusMeters of origin that
// satisfies filter, or nil. Ties go to the lower id.
func (s *Service) Nearest(ctx context.Context, origin domain.Point, filter Filter, radiusMeters float64) (*domain.Courier, error) {
	found, err := s.search(ctx, origin, filter, radiusMeters, 1)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0].Courier, nil
}

// FindNearest lists up to limit reservable couriers within radiusMeters of origin.
func (s *Service) FindNearest(ctx context.Context, origin domain.Point, radiusMeters float64, limit int) ([]Nearby, error) {
	if _, err := domain.NewPoint(origin.Lon, origin.Lat); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperr.ErrInvalid)
	}
	return s.search(ctx, origin, Reservable, radiusMeters, limit)
}

func (s *Service) search(ctx context.Context, origin domain.Point, filter Filter, radiusMeters float64, limit int) ([]Nearby, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	candidates, err := s.index.Within(ctx, origin, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	couriers, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Courier, len(couriers))
	for _, c := range couriers {
		byID[c.ID] = c
	}

	var out []Nearby
	for _, cand := range candidates {
		c, ok := byID[cand.ID]
		if !ok || (filter != nil && !filter(c)) {
			continue
		}
		out = append(out, Nearby{Courier: c, DistanceMeters: cand.DistanceMeters})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// WarmIndex loads every stored courier position into the index.
func (s *Service) WarmIndex(ctx context.Context) (int, error) {
	located, err := s.repo.ListLocated(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range located {
		if err := s.index.Upsert(ctx, c.ID, *c.Location); err != nil {
			return 0, fmt.Errorf("index courier %d: %w", c.ID, err)
		}
	}
	return len(located), nil
}

func (s *Service) publish(ctx context.Context, e domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("publish event failed", logx.String("event", string(e.Type)), logx.Err(err))
	}
}
