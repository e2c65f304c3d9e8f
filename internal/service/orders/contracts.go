//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/dispatch"
)

// Dispatcher abstracts the subset of dispatcher operations
// needed by Processor when handling dispatch events
type Dispatcher interface {
	Redispatch(ctx context.Context, orderID int64) (dispatch.Result, error)
	SweepPending(ctx context.Context, limit int) (int, error)
	RecallOrders(ctx context.Context, courierID int64) (int, error)
}

// Locations receives courier positions observed on the event stream.
type Locations interface {
	Upsert(ctx context.Context, id int64, p domain.Point) error
}
