package geocode

import (
	"context"
	"errors"
	"net"
	"time"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig описывает поведение Retrying
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Retrying repeats lookups that failed for transient reasons, with exponential backoff.
type Retrying struct {
	next    Resolver
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	wait    func(context.Context, time.Duration) bool
}

// NewRetrying wraps next. It returns nil if next is nil.
func NewRetrying(next Resolver, logger logx.Logger, retries counter, cfg RetryConfig) *Retrying {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Retrying{next: next, logger: logger, retries: retries, cfg: cfg, wait: sleepWithContext}
}

// Resolve calls the wrapped resolver until it succeeds, fails permanently,
// or runs out of attempts.
func (r *Retrying) Resolve(ctx context.Context, address, district string) (*domain.Point, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		p, err := r.next.Resolve(ctx, address, district)
		if err == nil {
			return p, nil
		}
		lastErr = err

		// контекст отменён, попытки исчерпаны или ошибка постоянная
		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(r.cfg.BaseDelay, r.cfg.MaxDelay, attempt)
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.Warn("geocoder retry",
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !r.wait(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable определяет, является ли ошибка повторяемой
func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}

// backoff вычисляет задержку повтора
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
