package ratelimit

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// Unlimited admits every request. Used when rate limiting is disabled.
type Unlimited struct{}

// Allow always returns true.
func (Unlimited) Allow(string) bool { return true }
