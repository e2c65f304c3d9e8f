package domain

import (
	"fmt"
	"time"

	"courier-dispatch/internal/apperr"
)

type edge struct {
	from OrderStatus
	to   OrderStatus
}

// transitions maps every legal edge to the only role allowed to take it.
var transitions = map[edge]Role{
	{OrderPending, OrderAssigned}:  RoleSystem,
	{OrderPending, OrderCancelled}: RoleShop,
	{OrderAssigned, OrderPicked}:   RoleCourier,
	{OrderAssigned, OrderPending}:  RoleSystem,
	{OrderPicked, OrderDelivered}:  RoleCourier,
	{OrderPicked, OrderPending}:    RoleSystem,
}

// Change is the outcome of a successful transition.
type Change struct {
	Before Order
	After  Order
}

// ReleasedCourier returns the courier whose reservation ends with this change.
func (c Change) ReleasedCourier() (int64, bool) {
	if c.Before.AssignedCourier == nil {
		return 0, false
	}
	switch c.After.Status {
	case OrderDelivered, OrderPending:
		return *c.Before.AssignedCourier, true
	}
	return 0, false
}

// CheckTransition validates that caller may move o to target.
//
// Identity is checked first: a shop must own the order and a courier must hold it.
// An edge missing from the table is ErrInvalidTransition; an edge owned by
// another role is ErrUnauthorized.
func CheckTransition(o Order, caller Caller, target OrderStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, target)
	}

	switch caller.Role {
	case RoleShop:
		if o.ShopID != caller.ID {
			return fmt.Errorf("%w: order %d belongs to another shop", apperr.ErrUnauthorized, o.ID)
		}
	case RoleCourier:
		if !o.AssignedTo(caller.ID) {
			return fmt.Errorf("%w: order %d is not assigned to courier %d", apperr.ErrUnauthorized, o.ID, caller.ID)
		}
	case RoleSystem:
	default:
		return fmt.Errorf("%w: role %q", apperr.ErrUnauthorized, caller.Role)
	}

	who, ok := transitions[edge{o.Status, target}]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, o.Status, target)
	}
	if who != caller.Role {
		return fmt.Errorf("%w: %s -> %s requires %s", apperr.ErrUnauthorized, o.Status, target, who)
	}
	return nil
}

// Transition applies target to a copy of o. The input is never modified.
// Assignment needs a courier and goes through Assign instead.
func Transition(o Order, caller Caller, target OrderStatus, now time.Time) (Change, error) {
	if target == OrderAssigned {
		return Change{}, fmt.Errorf("%w: assignment requires a courier", apperr.ErrInvalidTransition)
	}
	if err := CheckTransition(o, caller, target); err != nil {
		return Change{}, err
	}

	next := o.Clone()
	next.Status = target
	switch target {
	case OrderPicked:
		next.PickedAt = &now
	case OrderDelivered:
		next.DeliveredAt = &now
		next.ActualDeliveryTime = &now
	case OrderPending:
		next.AssignedCourier = nil
		next.AssignedAt = nil
		next.PickedAt = nil
	}
	return Change{Before: o, After: next}, nil
}

// Assign moves a pending order to assigned for courierID.
func Assign(o Order, courierID int64, now time.Time) (Change, error) {
	if err := CheckTransition(o, SystemCaller(), OrderAssigned); err != nil {
		return Change{}, err
	}
	next := o.Clone()
	next.Status = OrderAssigned
	next.AssignedCourier = &courierID
	next.AssignedAt = &now
	return Change{Before: o, After: next}, nil
}
