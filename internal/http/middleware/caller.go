package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// Caller identity headers.
const (
	HeaderCallerRole = "X-Caller-Role"
	HeaderCallerID   = "X-Caller-ID"
)

type callerKey struct{}

// WithCaller stores c in ctx.
func WithCaller(ctx context.Context, c domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller attached by Identify.
func CallerFrom(ctx context.Context) (domain.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(domain.Caller)
	return c, ok
}

// Identify reads the caller headers. Requests without them pass through
// anonymously; malformed headers are rejected with 403.
func Identify(logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawRole := r.Header.Get(HeaderCallerRole)
			rawID := r.Header.Get(HeaderCallerID)
			if rawRole == "" && rawID == "" {
				next.ServeHTTP(w, r)
				return
			}

			role, err := domain.ParseRole(rawRole)
			if err != nil {
				logger.Warn("bad caller role", logx.String("role", rawRole))
				deny(w, "unknown caller role")
				return
			}
			id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
			if err != nil || id <= 0 {
				logger.Warn("bad caller id", logx.String("id", rawID))
				deny(w, "invalid caller id")
				return
			}

			ctx := WithCaller(r.Context(), domain.Caller{Role: role, ID: id})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require admits only callers with one of roles.
func Require(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := CallerFrom(r.Context())
			if !ok {
				deny(w, "caller identity required")
				return
			}
			for _, role := range roles {
				if c.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, "role "+string(c.Role)+" may not call this endpoint")
		})
	}
}

func deny(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
