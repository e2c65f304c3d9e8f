package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a dispatch event.
type EventType string

// List of published event types
const (
	EventOrderCreated          EventType = "order.created"
	EventOrderAssigned         EventType = "order.assigned"
	EventOrderStatusChanged    EventType = "order.status_changed"
	EventOrderReturnedToPool   EventType = "order.returned_to_pool"
	EventCourierStatusChanged  EventType = "courier.status_changed"
	EventCourierLocationUpdate EventType = "courier.location_updated"
)

// Event is a state change announced to other services.
type Event struct {
	ID         string
	Type       EventType
	OccurredAt time.Time
	OrderID    int64
	CourierID  int64
	ShopID     int64
	Status     string
	Location   *Point
}

// NewEvent stamps an event with a fresh id.
func NewEvent(t EventType, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, OccurredAt: at}
}

// OrderEvent builds an event describing o.
func OrderEvent(t EventType, o Order, at time.Time) Event {
	e := NewEvent(t, at)
	e.OrderID = o.ID
	e.ShopID = o.ShopID
	e.Status = string(o.Status)
	if o.AssignedCourier != nil {
		e.CourierID = *o.AssignedCourier
	}
	return e
}
