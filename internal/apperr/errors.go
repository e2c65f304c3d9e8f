package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when the caller may not act on the entity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition is returned when the requested status change is not in the transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrAddressUnresolved is returned when a delivery address could not be geocoded.
var ErrAddressUnresolved = errors.New("address unresolved")

// ErrReservationConflict signals that a courier was taken between selection and reservation.
// It never leaves the dispatcher.
var ErrReservationConflict = errors.New("reservation conflict")
