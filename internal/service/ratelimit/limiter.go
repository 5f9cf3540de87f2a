package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket for one client key.
type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a per-key token-bucket limiter used to throttle inbound
// API clients. Upstream providers are paced by Pacer instead.
type Limiter struct {
	capacity float64
	refill   float64 // tokens per second

	mu  sync.Mutex
	m   map[string]*bucket
	now func() time.Time
}

// NewLimiter creates a limiter where each key holds at most capacity
// tokens and refills at refillPerSec.
func NewLimiter(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		capacity: capacity,
		refill:   refillPerSec,
		m:        make(map[string]*bucket),
		now:      time.Now,
	}
}

// Allow consumes one token for key if available, refilling lazily.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
