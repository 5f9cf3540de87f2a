package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacerFirstCallImmediate(t *testing.T) {
	p := NewPacer(map[string]time.Duration{"api": 6 * time.Second})

	var slept time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		slept += d
		return nil
	}

	if err := p.Wait(context.Background(), "api"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 0 {
		t.Fatalf("first call should not sleep, slept %v", slept)
	}
}

func TestPacerEnforcesInterval(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewPacer(map[string]time.Duration{"api": 6 * time.Second})
	p.now = func() time.Time { return now }

	var slept time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		slept += d
		now = now.Add(d)
		return nil
	}

	_ = p.Wait(context.Background(), "api")
	now = now.Add(2 * time.Second)
	_ = p.Wait(context.Background(), "api")

	if slept != 4*time.Second {
		t.Fatalf("expected 4s sleep to honor the interval, got %v", slept)
	}
}

func TestPacerAllowAndWaitTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewPacer(map[string]time.Duration{"api": 6 * time.Second})
	p.now = func() time.Time { return now }
	p.sleep = func(context.Context, time.Duration) error { return nil }

	if !p.Allow("api") {
		t.Fatalf("fresh key should allow immediately")
	}
	_ = p.Wait(context.Background(), "api")

	if p.Allow("api") {
		t.Fatalf("second call inside interval should not be allowed")
	}
	if got := p.WaitTime("api"); got != 6*time.Second {
		t.Fatalf("expected 6s wait, got %v", got)
	}

	now = now.Add(6 * time.Second)
	if !p.Allow("api") {
		t.Fatalf("interval elapsed, should allow")
	}
	if got := p.WaitTime("api"); got != 0 {
		t.Fatalf("expected no wait, got %v", got)
	}
}

func TestPacerCancelledContext(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewPacer(map[string]time.Duration{"api": 6 * time.Second})
	p.now = func() time.Time { return now }

	_ = p.Wait(context.Background(), "api")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx, "api"); err == nil {
		t.Fatalf("expected context error while pacing")
	}
}

func TestPacerUnknownKey(t *testing.T) {
	p := NewPacer(nil)
	// Unknown keys get a zero interval and never block.
	if err := p.Wait(context.Background(), "other"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Allow("other") {
		t.Fatalf("zero-interval key should always allow")
	}
}
