package cache

import (
	"fmt"
	"sync"
	"time"
)

// Category of cached upstream data; each carries its own TTL.
type Category string

const (
	CategoryPrice   Category = "price"
	CategoryHistory Category = "history"
	CategoryNews    Category = "news"
)

// Entry is one cached upstream response. Entries are replaced, never
// mutated in place; stale entries stay available for fallback.
type Entry struct {
	Data      any
	Timestamp time.Time
}

// ResponseCache stores raw upstream responses keyed by
// provider:symbol:params. There is no eviction: entries outlive their TTL
// so callers can fall back to stale data when an upstream fails.
type ResponseCache struct {
	mu   sync.RWMutex
	m    map[string]Entry
	ttls map[Category]time.Duration
	now  func() time.Time
}

// NewResponseCache creates a cache with per-category TTLs.
func NewResponseCache(ttls map[Category]time.Duration) *ResponseCache {
	c := &ResponseCache{
		m:    make(map[string]Entry),
		ttls: make(map[Category]time.Duration, len(ttls)),
		now:  time.Now,
	}
	for k, v := range ttls {
		c.ttls[k] = v
	}
	return c
}

// Key composes a cache key from provider, symbol and call parameters.
func Key(provider, symbol string, params ...any) string {
	key := provider + ":" + symbol
	for _, p := range params {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Get returns the entry for key regardless of freshness.
func (c *ResponseCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	return e, ok
}

// Put stores data under key stamped with the current time.
func (c *ResponseCache) Put(key string, data any) {
	c.mu.Lock()
	c.m[key] = Entry{Data: data, Timestamp: c.now()}
	c.mu.Unlock()
}

// Fresh reports whether the entry is within its category TTL.
func (c *ResponseCache) Fresh(e Entry, cat Category) bool {
	ttl, ok := c.ttls[cat]
	if !ok || ttl <= 0 {
		return false
	}
	return c.now().Sub(e.Timestamp) < ttl
}

// TTL returns the configured TTL for a category.
func (c *ResponseCache) TTL(cat Category) time.Duration {
	return c.ttls[cat]
}
