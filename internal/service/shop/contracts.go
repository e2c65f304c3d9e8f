package shop

import (
	"context"

	"courier-dispatch/internal/domain"
)

// Repository defines storage operations for shops.
type Repository interface {
	Create(ctx context.Context, s *domain.Shop) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Shop, error)
	GetMany(ctx context.Context, ids []int64) ([]domain.Shop, error)
	ListLocated(ctx context.Context) ([]domain.Shop, error)
	UpdateLocation(ctx context.Context, id int64, p domain.Point) (bool, error)
}
