package domain

import "time"

type (
	// OrderStatus represents the lifecycle status of an order.
	OrderStatus string
	// Priority represents the delivery priority of an order.
	Priority string
)

// Order is a delivery request placed by a shop.
type Order struct {
	ID               int64
	ShopID           int64
	AssignedCourier  *int64
	CustomerName     string
	CustomerPhone    string
	DeliveryAddress  string
	DeliveryDistrict string
	DeliveryLocation *Point
	PackageDetails   string
	Priority         Priority
	Status           OrderStatus

	CreatedAt          time.Time
	AssignedAt         *time.Time
	PickedAt           *time.Time
	DeliveredAt        *time.Time
	ActualDeliveryTime *time.Time
}

// AssignedTo reports whether the order is held by the given courier.
func (o Order) AssignedTo(courierID int64) bool {
	return o.AssignedCourier != nil && *o.AssignedCourier == courierID
}

// Clone returns a deep copy of the order so that pointer fields may be mutated safely.
func (o Order) Clone() Order {
	c := o
	c.AssignedCourier = clonePtr(o.AssignedCourier)
	c.DeliveryLocation = clonePtr(o.DeliveryLocation)
	c.AssignedAt = clonePtr(o.AssignedAt)
	c.PickedAt = clonePtr(o.PickedAt)
	c.DeliveredAt = clonePtr(o.DeliveredAt)
	c.ActualDeliveryTime = clonePtr(o.ActualDeliveryTime)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
