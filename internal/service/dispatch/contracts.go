//go:generate mockgen -source=contracts.go -destination=dispatch_mocks_test.go -package=dispatch_test

package dispatch

import (
	"context"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/courier"
)

// Couriers is the courier registry as seen by the dispatcher.
type Couriers interface {
	Nearest(ctx context.Context, origin domain.Point, filter courier.Filter, radiusMeters float64) (*domain.Courier, error)
	FindNearest(ctx context.Context, origin domain.Point, radiusMeters float64, limit int) ([]courier.Nearby, error)
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	TryReserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) (domain.Courier, error)
	ReportLocation(ctx context.Context, id int64, p domain.Point) error
}

// Orders is the order ledger as seen by the dispatcher.
type Orders interface {
	Create(ctx context.Context, cmd domain.CreateOrderCommand) (domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Assign(ctx context.Context, orderID, courierID int64) (domain.Order, error)
	ReturnToPool(ctx context.Context, orderID int64) (domain.Order, error)
	ReturnCourierOrders(ctx context.Context, courierID int64) ([]domain.Order, error)
	ListPending(ctx context.Context, limit int) ([]domain.Order, error)
}

// Shops resolves pickup positions.
type Shops interface {
	Get(ctx context.Context, id int64) (*domain.Shop, error)
}
