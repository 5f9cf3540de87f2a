package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
	rcache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/pkg/logger"
)

type stubPrices struct {
	q     *models.Quote
	err   error
	calls int
}

func (s *stubPrices) SpotPrice(_ context.Context, symbol string) (*models.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	q := *s.q
	q.Symbol = symbol
	return &q, nil
}

type stubHistory struct {
	h     *models.MarketHistory
	err   error
	calls int
}

func (s *stubHistory) MarketChart(_ context.Context, symbol string, _ int) (*models.MarketHistory, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	h := *s.h
	h.Symbol = symbol
	return &h, nil
}

type stubNews struct {
	p        *models.NewsPage
	err      error
	calls    int
	lastPage string
}

func (s *stubNews) News(_ context.Context, _, page string, _ int) (*models.NewsPage, error) {
	s.calls++
	s.lastPage = page
	if s.err != nil {
		return nil, s.err
	}
	return s.p, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testCache() *rcache.ResponseCache {
	return rcache.NewResponseCache(map[rcache.Category]time.Duration{
		rcache.CategoryPrice:   2 * time.Minute,
		rcache.CategoryHistory: 10 * time.Minute,
		rcache.CategoryNews:    20 * time.Minute,
	})
}

func newTestFetcher(t *testing.T, p *stubPrices, h *stubHistory, n *stubNews) *Fetcher {
	t.Helper()
	return NewFetcher(p, h, n, testCache(), ratelimit.NewPacer(nil), testLogger(t))
}

// newStaleFetcher uses nanosecond TTLs so every cached entry is already
// stale on the next read.
func newStaleFetcher(t *testing.T, p *stubPrices, h *stubHistory, n *stubNews) *Fetcher {
	t.Helper()
	c := rcache.NewResponseCache(map[rcache.Category]time.Duration{
		rcache.CategoryPrice:   time.Nanosecond,
		rcache.CategoryHistory: time.Nanosecond,
		rcache.CategoryNews:    time.Nanosecond,
	})
	return NewFetcher(p, h, n, c, ratelimit.NewPacer(nil), testLogger(t))
}

func TestPriceCachesUpstreamResult(t *testing.T) {
	p := &stubPrices{q: &models.Quote{Price: 50000, Change24h: 2.5}}
	f := newTestFetcher(t, p, &stubHistory{}, &stubNews{})

	q1, err := f.Price(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q1.Cached {
		t.Fatalf("first fetch should not be marked cached")
	}

	q2, err := f.Price(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q2.Cached {
		t.Fatalf("second fetch should come from cache")
	}
	if p.calls != 1 {
		t.Fatalf("upstream called %d times, want 1", p.calls)
	}
	if q2.Price != 50000 {
		t.Fatalf("unexpected cached price %v", q2.Price)
	}
}

func TestPriceStaleFallback(t *testing.T) {
	p := &stubPrices{q: &models.Quote{Price: 50000}}
	f := newStaleFetcher(t, p, &stubHistory{}, &stubNews{})

	if _, err := f.Price(context.Background(), "BTC"); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}
	p.err = errors.New("upstream down")

	q, err := f.Price(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if !q.Cached {
		t.Fatalf("stale quote must be marked cached")
	}
	if q.Price != 50000 {
		t.Fatalf("expected stale price 50000, got %v", q.Price)
	}
}

func TestPriceDegradesToZeroQuote(t *testing.T) {
	p := &stubPrices{err: errors.New("upstream down")}
	f := newTestFetcher(t, p, &stubHistory{}, &stubNews{})

	q, err := f.Price(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("price should degrade, not fail: %v", err)
	}
	if q.Price != 0 || q.Symbol != "BTC" {
		t.Fatalf("unexpected degraded quote %+v", q)
	}
}

func TestHistoryNoDataError(t *testing.T) {
	h := &stubHistory{err: errors.New("upstream down")}
	f := newTestFetcher(t, &stubPrices{}, h, &stubNews{})

	_, err := f.History(context.Background(), "BTC", 90)
	if err == nil {
		t.Fatalf("expected error with no cache to fall back on")
	}
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestHistoryStaleFallback(t *testing.T) {
	h := &stubHistory{h: &models.MarketHistory{Prices: []float64{1, 2, 3}, Volumes: []float64{1, 1, 1}}}
	f := newStaleFetcher(t, &stubPrices{}, h, &stubNews{})

	if _, err := f.History(context.Background(), "BTC", 90); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}
	h.err = errors.New("upstream down")

	got, err := f.History(context.Background(), "BTC", 90)
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if !got.Cached || len(got.Prices) != 3 {
		t.Fatalf("unexpected stale history %+v", got)
	}
}

func TestNewsDegradesToEmptyPage(t *testing.T) {
	n := &stubNews{err: errors.New("upstream down")}
	f := newTestFetcher(t, &stubPrices{}, &stubHistory{}, n)

	p, err := f.News(context.Background(), "BTC", "", 10)
	if err != nil {
		t.Fatalf("news should degrade, not fail: %v", err)
	}
	if len(p.Items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(p.Items))
	}
}

func TestNewsPageTokenKeysCacheEntries(t *testing.T) {
	n := &stubNews{p: &models.NewsPage{NextPage: "tok-2"}}
	f := newTestFetcher(t, &stubPrices{}, &stubHistory{}, n)

	if _, err := f.News(context.Background(), "BTC", "", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.News(context.Background(), "BTC", "tok-2", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.calls != 2 {
		t.Fatalf("distinct pages must each reach upstream, got %d calls", n.calls)
	}
	if n.lastPage != "tok-2" {
		t.Fatalf("page token not forwarded, provider saw %q", n.lastPage)
	}

	got, err := f.News(context.Background(), "BTC", "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Cached || n.calls != 2 {
		t.Fatalf("repeat of first page should be served from cache (cached=%v, calls=%d)", got.Cached, n.calls)
	}
}

func TestPriceServesStaleWhenRateLimited(t *testing.T) {
	p := &stubPrices{q: &models.Quote{Price: 50000}}
	c := rcache.NewResponseCache(map[rcache.Category]time.Duration{
		rcache.CategoryPrice: time.Nanosecond,
	})
	pacer := ratelimit.NewPacer(map[string]time.Duration{"coingecko": 500 * time.Millisecond})
	f := NewFetcher(p, &stubHistory{}, &stubNews{}, c, pacer, testLogger(t))

	if _, err := f.Price(context.Background(), "BTC"); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}

	start := time.Now()
	q, err := f.Price(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("upstream called %d times, want the stale entry instead", p.calls)
	}
	if !q.Cached {
		t.Fatalf("rate-limited response must be marked cached")
	}
	if q.Price != 50000 {
		t.Fatalf("unexpected stale price %v", q.Price)
	}
	if elapsed := time.Since(start); elapsed >= 500*time.Millisecond {
		t.Fatalf("stale response took %v, should not wait out the limiter", elapsed)
	}
}

func TestPriceWaitsWhenRateLimitedWithoutCache(t *testing.T) {
	p := &stubPrices{q: &models.Quote{Price: 50000}}
	pacer := ratelimit.NewPacer(map[string]time.Duration{"coingecko": 50 * time.Millisecond})
	f := NewFetcher(p, &stubHistory{}, &stubNews{}, testCache(), pacer, testLogger(t))

	if _, err := f.Price(context.Background(), "BTC"); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}

	start := time.Now()
	if _, err := f.Price(context.Background(), "ETH"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("upstream called %d times, want 2", p.calls)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("second symbol went upstream after only %v, pacing not applied", elapsed)
	}
}
