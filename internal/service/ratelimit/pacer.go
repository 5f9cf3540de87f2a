package ratelimit

import (
	"context"
	"sync"
	"time"
)

// gate tracks the last request time for one upstream provider.
type gate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// Pacer enforces a minimum interval between calls per provider key.
// Concurrent callers to the same key serialize on a single critical
// section and are released in lock-acquisition order; there is no fair
// queue and starvation under heavy load is accepted.
type Pacer struct {
	mu    sync.Mutex
	gates map[string]*gate
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a pacer with the given per-key minimum intervals.
func NewPacer(intervals map[string]time.Duration) *Pacer {
	p := &Pacer{
		gates: make(map[string]*gate, len(intervals)),
		now:   time.Now,
		sleep: sleepCtx,
	}
	for k, d := range intervals {
		p.gates[k] = &gate{interval: d}
	}
	return p
}

func (p *Pacer) gateFor(key string) *gate {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gates[key]
	if !ok {
		g = &gate{}
		p.gates[key] = g
	}
	return g
}

// Allow reports whether a request could be made right now without waiting.
func (p *Pacer) Allow(key string) bool {
	g := p.gateFor(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	return p.now().Sub(g.last) >= g.interval
}

// WaitTime returns the remaining delay before the next request is allowed.
func (p *Pacer) WaitTime(key string) time.Duration {
	g := p.gateFor(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	remaining := g.interval - p.now().Sub(g.last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Wait suspends the caller until the minimum interval since the previous
// request has elapsed, then stamps now as the new last-request time. The
// gate mutex is held throughout, so callers release in lock order.
func (p *Pacer) Wait(ctx context.Context, key string) error {
	g := p.gateFor(key)
	g.mu.Lock()
	defer g.mu.Unlock()

	if remaining := g.interval - p.now().Sub(g.last); remaining > 0 {
		if err := p.sleep(ctx, remaining); err != nil {
			return err
		}
	}
	g.last = p.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
