//go:generate mockgen -source=contracts.go -destination=ledger_mocks_test.go -package=ledger_test

package ledger

import (
	"context"

	"courier-dispatch/internal/domain"
)

// Repository defines order storage. Lookups return (nil, nil) for unknown ids.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	// Update persists ch.After only if the stored row still matches ch.Before.
	Update(ctx context.Context, ch domain.Change) (bool, error)
	ListByShop(ctx context.Context, shopID int64) ([]domain.Order, error)
	ListByCourier(ctx context.Context, courierID int64, statuses []domain.OrderStatus) ([]domain.Order, error)
	ListPending(ctx context.Context, limit int) ([]domain.Order, error)
}

// Geocoder resolves a delivery address. It returns nil when nothing matches.
type Geocoder interface {
	Resolve(ctx context.Context, address, district string) (*domain.Point, error)
}

// CourierReleaser ends a courier's reservation.
type CourierReleaser interface {
	Release(ctx context.Context, courierID int64) error
}

// Publisher announces order state changes.
type Publisher interface {
	Publish(ctx context.Context, e domain.Event) error
}
