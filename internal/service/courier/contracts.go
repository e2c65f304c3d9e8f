//go:generate mockgen -source=contracts.go -destination=courier_mocks_test.go -package=courier_test

package courier

import (
	"context"

	"courier-dispatch/internal/domain"
)

// Repository defines storage operations required by the registry.
// Lookups return (nil, nil) for unknown ids.
type Repository interface {
	Create(ctx context.Context, c *domain.Courier) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	GetMany(ctx context.Context, ids []int64) ([]domain.Courier, error)
	ListLocated(ctx context.Context) ([]domain.Courier, error)
	UpdateLocation(ctx context.Context, id int64, p domain.Point) (bool, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Courier, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	// Release reports whether the courier was freed and whether it exists at all.
	Release(ctx context.Context, id int64) (released, found bool, err error)
}

// Publisher announces courier state changes.
type Publisher interface {
	Publish(ctx context.Context, e domain.Event) error
}
