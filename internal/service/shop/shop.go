// Package shop manages shops and their pickup positions.
package shop

import (
	"context"
	"fmt"
	"time"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geo"
)

// Nearby is a shop with its distance from a query origin.
type Nearby struct {
	Shop           domain.Shop
	DistanceMeters float64
}

// Service is the shop directory.
type Service struct {
	repo             Repository
	index            geo.Index
	operationTimeout time.Duration
}

// NewService creates a shop Service.
func NewService(r Repository, index geo.Index, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, index: index, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Register creates a shop, indexing it when a location is given.
func (s *Service) Register(ctx context.Context, name, address string, location *domain.Point) (domain.Shop, error) {
	sh, err := domain.NewShop(name, address, location)
	if err != nil {
		return domain.Shop{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.repo.Create(ctx, &sh)
	if err != nil {
		return domain.Shop{}, err
	}
	sh.ID = id
	if sh.Location != nil {
		if err := s.index.Upsert(ctx, id, *sh.Location); err != nil {
			return domain.Shop{}, fmt.Errorf("index shop %d: %w", id, err)
		}
	}
	return sh, nil
}

// Get retrieves a shop by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Shop, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	sh, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, fmt.Errorf("shop %d: %w", id, apperr.ErrNotFound)
	}
	return sh, nil
}

// UpdateLocation sets the pickup position of a shop.
func (s *Service) UpdateLocation(ctx context.Context, id int64, p domain.Point) error {
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
		return fmt.Errorf("shop %d: %w", id, apperr.ErrNotFound)
	}
	if err := s.index.Upsert(ctx, id, p); err != nil {
		return fmt.Errorf("index shop %d: %w", id, err)
	}
	return nil
}

// Nearby lists up to limit shops within radiusMeters of origin, closest first.
func (s *Service) Nearby(ctx context.Context, origin domain.Point, radiusMeters float64, limit int) ([]Nearby, error) {
	if _, err := domain.NewPoint(origin.Lon, origin.Lat); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	candidates, err := s.index.Within(ctx, origin, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	shops, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Shop, len(shops))
	for _, sh := range shops {
		byID[sh.ID] = sh
	}

	out := make([]Nearby, 0, len(candidates))
	for _, c := range candidates {
		if sh, ok := byID[c.ID]; ok {
			out = append(out, Nearby{Shop: sh, DistanceMeters: c.DistanceMeters})
		}
	}
	return out, nil
}

// WarmIndex loads stored shop positions into the index.
func (s *Service) WarmIndex(ctx context.Context) (int, error) {
	located, err := s.repo.ListLocated(ctx)
	if err != nil {
		return 0, err
	}
	for _, sh := range located {
		if err := s.index.Upsert(ctx, sh.ID, *sh.Location); err != nil {
			return 0, fmt.Errorf("index shop %d: %w", sh.ID, err)
		}
	}
	return len(located), nil
}
