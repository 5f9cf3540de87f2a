package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterBurstThenDeny(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(3, 1)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d within capacity should pass", i)
		}
	}
	if l.Allow("client") {
		t.Fatalf("request past capacity should be denied")
	}
}

func TestLimiterRefill(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, 1)
	l.now = func() time.Time { return now }

	_ = l.Allow("client")
	_ = l.Allow("client")
	if l.Allow("client") {
		t.Fatalf("bucket should be empty")
	}

	now = now.Add(time.Second)
	if !l.Allow("client") {
		t.Fatalf("one token should have refilled after a second")
	}
	if l.Allow("client") {
		t.Fatalf("only one token refilled")
	}
}

func TestLimiterRefillCapped(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, 1)
	l.now = func() time.Time { return now }

	_ = l.Allow("client")
	now = now.Add(time.Hour)

	// Long idle refills to capacity, never past it.
	if !l.Allow("client") || !l.Allow("client") {
		t.Fatalf("expected two tokens after refill to capacity")
	}
	if l.Allow("client") {
		t.Fatalf("capacity cap exceeded")
	}
}

func TestLimiterKeysIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("a") {
		t.Fatalf("key a should pass")
	}
	if !l.Allow("b") {
		t.Fatalf("key b has its own bucket")
	}
	if l.Allow("a") {
		t.Fatalf("key a should be exhausted")
	}
}
