package domain

import "regexp"

// List of possible courier statuses
const (
	CourierOffline   CourierStatus = "offline"
	CourierAvailable CourierStatus = "available"
	CourierBusy      CourierStatus = "busy"
)

// List of possible order statuses
const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderPicked    OrderStatus = "picked"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// List of order priorities
const (
	PriorityNormal  Priority = "normal"
	PriorityUrgent  Priority = "urgent"
	PriorityExpress Priority = "express"
)

var allowedCourierStatuses = [...]CourierStatus{
	CourierOffline, CourierAvailable, CourierBusy,
}

// OrderStatuses lists every order status.
var OrderStatuses = [...]OrderStatus{
	OrderPending, OrderAssigned, OrderPicked, OrderDelivered, OrderCancelled,
}

var allowedPriorities = [...]Priority{
	PriorityNormal, PriorityUrgent, PriorityExpress,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedCourierStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Valid checks if the Priority is valid
func (p Priority) Valid() bool {
	for _, v := range allowedPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
