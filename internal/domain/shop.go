package domain

import "time"

// Shop is a merchant that places orders.
type Shop struct {
	ID          int64
	Name        string
	AddressText string
	Location    *Point
	CreatedAt   time.Time
}
