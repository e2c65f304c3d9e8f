package handlers

import (
	"context"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/ledger"
	"courier-dispatch/internal/service/shop"
)

type orderUsecase interface {
	GetFor(ctx context.Context, id int64, c domain.Caller) (*domain.Order, error)
	Transition(ctx context.Context, orderID int64, c domain.Caller, target domain.OrderStatus) (domain.Order, error)
	ListByShop(ctx context.Context, shopID int64) ([]domain.Order, error)
	ListByCourier(ctx context.Context, courierID int64) ([]domain.Order, error)
}

// NewOrderUsecase exposes the order ledger to handlers.
func NewOrderUsecase(svc *ledger.Service) orderUsecase {
	return svc
}

type dispatchUsecase interface {
	CreateOrder(ctx context.Context, cmd domain.CreateOrderCommand) (dispatch.Result, error)
	SetCourierActive(ctx context.Context, id int64, active bool) (domain.Courier, error)
	ReportCourierLocation(ctx context.Context, id int64, p domain.Point) error
	FindNearestCouriers(ctx context.Context, origin domain.Point, limit int) ([]courier.Nearby, error)
}

// NewDispatchUsecase exposes the dispatcher to handlers.
func NewDispatchUsecase(svc *dispatch.Service) dispatchUsecase {
	return svc
}

type courierUsecase interface {
	Register(ctx context.Context, name, phone string) (domain.Courier, error)
	Get(ctx context.Context, id int64) (*domain.Courier, error)
}

// NewCourierUsecase exposes the courier registry to handlers.
func NewCourierUsecase(svc *courier.Service) courierUsecase {
	return svc
}

type shopUsecase interface {
	Register(ctx context.Context, name, address string, location *domain.Point) (domain.Shop, error)
	Get(ctx context.Context, id int64) (*domain.Shop, error)
	UpdateLocation(ctx context.Context, id int64, p domain.Point) error
	Nearby(ctx context.Context, origin domain.Point, radiusMeters float64, limit int) ([]shop.Nearby, error)
}

// NewShopUsecase exposes the shop directory to handlers.
func NewShopUsecase(svc *shop.Service) shopUsecase {
	return svc
}
