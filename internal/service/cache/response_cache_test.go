package cache

import (
	"testing"
	"time"
)

func TestKeyComposition(t *testing.T) {
	if got := Key("coingecko:price", "BTC"); got != "coingecko:price:BTC" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key("coingecko:history", "BTC", "90d"); got != "coingecko:history:BTC:90d" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestGetMissing(t *testing.T) {
	c := NewResponseCache(nil)
	if _, ok := c.Get("nope"); ok {
		t.Fatalf("expected miss")
	}
}

func TestFreshness(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewResponseCache(map[Category]time.Duration{CategoryPrice: 2 * time.Minute})
	c.now = func() time.Time { return now }

	c.Put("coingecko:price:BTC", 42.0)

	e, ok := c.Get("coingecko:price:BTC")
	if !ok {
		t.Fatalf("expected hit")
	}
	if !c.Fresh(e, CategoryPrice) {
		t.Fatalf("entry should be fresh immediately after put")
	}

	now = now.Add(3 * time.Minute)
	if c.Fresh(e, CategoryPrice) {
		t.Fatalf("entry past TTL should be stale")
	}

	// Stale entries stay retrievable for fallback.
	if _, ok := c.Get("coingecko:price:BTC"); !ok {
		t.Fatalf("stale entry must remain retrievable")
	}
}

func TestFreshUnknownCategory(t *testing.T) {
	c := NewResponseCache(nil)
	c.Put("k", 1)
	e, _ := c.Get("k")
	if c.Fresh(e, CategoryNews) {
		t.Fatalf("category without TTL must never be fresh")
	}
}

func TestPutReplaces(t *testing.T) {
	c := NewResponseCache(map[Category]time.Duration{CategoryPrice: time.Minute})
	c.Put("k", 1)
	c.Put("k", 2)
	e, _ := c.Get("k")
	if e.Data.(int) != 2 {
		t.Fatalf("expected replacement, got %v", e.Data)
	}
}
