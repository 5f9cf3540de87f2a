package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCoinID(t *testing.T) {
	cases := []struct {
		symbol string
		want   string
	}{
		{"BTC", "bitcoin"},
		{"btc", "bitcoin"},
		{"ETH", "ethereum"},
		{"UNKNOWN", "unknown"},
	}
	for _, tc := range cases {
		if got := CoinID(tc.symbol); got != tc.want {
			t.Fatalf("CoinID(%q) = %q, want %q", tc.symbol, got, tc.want)
		}
	}
}

func TestSpotPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin" {
			t.Errorf("ids = %q, want bitcoin", got)
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "demo-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":64250.5,"usd_24h_change":2.4,"usd_market_cap":1260000000000}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "demo-key", 5*time.Second)
	q, err := c.SpotPrice(context.Background(), "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "BTC" {
		t.Fatalf("symbol = %q, want BTC", q.Symbol)
	}
	if q.Price != 64250.5 {
		t.Fatalf("price = %v", q.Price)
	}
	if q.Change24h != 2.4 {
		t.Fatalf("change = %v", q.Change24h)
	}
	if q.MarketCap != 1260000000000 {
		t.Fatalf("market cap = %v", q.MarketCap)
	}
	if q.UpdatedAt.IsZero() {
		t.Fatalf("updated_at must be set")
	}
}

func TestSpotPriceMissingEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	if _, err := c.SpotPrice(context.Background(), "BTC"); err == nil {
		t.Fatalf("expected error for missing coin entry")
	}
}

func TestMarketChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("days"); got != "90" {
			t.Errorf("days = %q, want 90", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"prices":[[1700000000000,100],[1700086400000,104],[1700172800000,102]],
			"market_caps":[[1700000000000,1.0e12],[1700086400000,1.1e12],[1700172800000,1.05e12]],
			"total_volumes":[[1700000000000,5.0e9],[1700086400000,6.0e9],[1700172800000,5.5e9]]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	h, err := c.MarketChart(context.Background(), "BTC", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Symbol != "BTC" {
		t.Fatalf("symbol = %q", h.Symbol)
	}
	if len(h.Prices) != 3 || h.Prices[2] != 102 {
		t.Fatalf("prices = %v", h.Prices)
	}
	if len(h.Volumes) != 3 || h.Volumes[1] != 6.0e9 {
		t.Fatalf("volumes = %v", h.Volumes)
	}
	if len(h.Timestamps) != 3 || h.Timestamps[0].UnixMilli() != 1700000000000 {
		t.Fatalf("timestamps = %v", h.Timestamps)
	}
	if h.MarketCap != 1.05e12 {
		t.Fatalf("market cap = %v", h.MarketCap)
	}
	// (102-104)/104*100
	want := (102.0 - 104.0) / 104.0 * 100
	if h.Change24h != want {
		t.Fatalf("change = %v, want %v", h.Change24h, want)
	}
}

func TestMarketChartVolumeLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"prices":[[1700000000000,100],[1700086400000,104]],
			"market_caps":[[1700000000000,1.0e12],[1700086400000,1.1e12]],
			"total_volumes":[[1700000000000,5.0e9]]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	if _, err := c.MarketChart(context.Background(), "BTC", 30); err == nil {
		t.Fatalf("expected error when volume and price series diverge")
	}
}

func TestMarketChartMalformedVolumePoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"prices":[[1700000000000,100],[1700086400000,104]],
			"market_caps":[],
			"total_volumes":[[1700000000000,5.0e9],[1700086400000]]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	if _, err := c.MarketChart(context.Background(), "BTC", 30); err == nil {
		t.Fatalf("expected error for malformed volume point")
	}
}

func TestMarketChartEmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices":[],"market_caps":[],"total_volumes":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 5*time.Second)
	if _, err := c.MarketChart(context.Background(), "BTC", 30); err == nil {
		t.Fatalf("expected error for empty price series")
	}
}
