// Package ratelimit throttles HTTP requests per caller.
package ratelimit

import (
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/http/middleware"
	"courier-dispatch/internal/logx"
)

// Middleware rejects requests over the limit with 429.
type Middleware struct {
	logger  logx.Logger
	counter prometheus.Counter
	limiter Limiter
}

// New creates a Middleware. A nil limiter admits everything.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter) *Middleware {
	if limiter == nil {
		limiter = Unlimited{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Middleware{logger: logger, counter: counter, limiter: limiter}
}

// Handler returns chi-style middleware. It must run after middleware.Identify.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limitKey(r)
			if m.limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("key", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
				// клиент мог оборвать соединение
				m.logger.Debug("rate limit response write failed", logx.Err(err))
			}
		})
	}
}

// limitKey buckets identified callers by role and id, anonymous ones by address.
func limitKey(r *http.Request) string {
	if c, ok := middleware.CallerFrom(r.Context()); ok {
		return string(c.Role) + ":" + strconv.FormatInt(c.ID, 10)
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
