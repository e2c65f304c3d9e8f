package domain

import "time"

// CourierStatus represents the dispatch status of a courier.
type CourierStatus string

// Courier represents a delivery courier.
type Courier struct {
	ID        int64
	Name      string
	Phone     string
	Location  *Point
	Active    bool
	Status    CourierStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservable reports whether the courier may be reserved for an order.
func (c Courier) Reservable() bool {
	return c.Active && c.Status == CourierAvailable
}

// StatusAfterActivation returns the status a courier takes when its active flag flips.
// A busy courier stays busy when reactivated.
func (c Courier) StatusAfterActivation(active bool) CourierStatus {
	switch {
	case !active:
		return CourierOffline
	case c.Status == CourierBusy:
		return CourierBusy
	default:
		return CourierAvailable
	}
}
