package domain

import (
	"fmt"
	"strings"

	"courier-dispatch/internal/apperr"
)

// Role identifies the kind of actor performing an operation.
type Role string

// List of caller roles
const (
	RoleShop    Role = "shop"
	RoleCourier Role = "courier"
	RoleSystem  Role = "system"
)

// Caller is the authenticated identity behind a request.
// ID is the shop or courier id; it is ignored for RoleSystem.
type Caller struct {
	Role Role
	ID   int64
}

// SystemCaller returns the identity used by the dispatcher.
func SystemCaller() Caller { return Caller{Role: RoleSystem} }

// ParseRole parses an externally supplied role. The system role cannot be claimed from outside.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleShop, RoleCourier:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", apperr.ErrUnauthorized, s)
	}
}
