package ratelimit

import (
	"sync"
	"time"
)

// Config tunes TokenBucket.
type Config struct {
	Rate       float64       // tokens refilled per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped; 0 keeps them forever
	MaxBuckets int           // 0 means unbounded
}

// TokenBucket keeps one bucket per key. When MaxBuckets is reached, idle
// buckets are evicted first; if none can go, new keys are refused.
type TokenBucket struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	at     time.Time
}

// NewTokenBucket returns a limiter. A nil now uses time.Now.
func NewTokenBucket(cfg Config, now func() time.Time) *TokenBucket {
	if now == nil {
		now = time.Now
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucket{cfg: cfg, now: now, buckets: make(map[string]*bucket)}
}

// Allow spends one token from key's bucket.
func (l *TokenBucket) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.TTL > 0 && now.Sub(l.lastSweep) >= l.sweepEvery() {
		l.evictIdle(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		if l.full() && l.evictIdle(now) == 0 {
			return false
		}
		b = &bucket{tokens: float64(l.cfg.Burst), at: now}
		l.buckets[key] = b
	}

	b.refill(now, l.cfg.Rate, float64(l.cfg.Burst))
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len reports how many keys are tracked.
func (l *TokenBucket) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucket) full() bool {
	return l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets
}

func (l *TokenBucket) sweepEvery() time.Duration {
	if half := l.cfg.TTL / 2; half > time.Minute {
		return half
	}
	return time.Minute
}

// evictIdle must be called with mu held.
func (l *TokenBucket) evictIdle(now time.Time) int {
	l.lastSweep = now
	if l.cfg.TTL <= 0 {
		return 0
	}
	n := 0
	for k, b := range l.buckets {
		if now.Sub(b.at) > l.cfg.TTL {
			delete(l.buckets, k)
			n++
		}
	}
	return n
}

func (b *bucket) refill(now time.Time, rate, burst float64) {
	dt := now.Sub(b.at)
	if dt <= 0 {
		return
	}
	b.tokens += dt.Seconds() * rate
	if b.tokens > burst {
		b.tokens = burst
	}
	b.at = now
}
