package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinPulse/internal/domain/models"
	domsvc "CoinPulse/internal/domain/service"
	phttp "CoinPulse/pkg/http"
)

// coinIDs maps common ticker symbols to CoinGecko coin ids.
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
}

// Client fetches spot prices and market history from the CoinGecko API.
type Client struct {
	baseURL string
	apiKey  string
	http    *phttp.Client
	now     func() time.Time
}

var (
	_ domsvc.PriceProvider   = (*Client)(nil)
	_ domsvc.HistoryProvider = (*Client)(nil)
)

// New creates a CoinGecko client.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    phttp.NewClient(phttp.WithTimeout(timeout)),
		now:     time.Now,
	}
}

// CoinID resolves a ticker symbol to the CoinGecko coin id. Unknown
// symbols fall back to the lowercased symbol itself.
func CoinID(symbol string) string {
	if id, ok := coinIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// SpotPrice returns the current USD quote for a symbol.
func (c *Client) SpotPrice(ctx context.Context, symbol string) (*models.Quote, error) {
	id := CoinID(symbol)

	var payload map[string]map[string]float64
	opts := &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    c.baseURL + "/simple/price",
		QueryParams: map[string][]string{
			"ids":                 {id},
			"vs_currencies":       {"usd"},
			"include_24hr_change": {"true"},
			"include_market_cap":  {"true"},
		},
		Headers: c.headers(),
	}
	if err := c.http.SendAndParse(ctx, opts, &payload); err != nil {
		return nil, fmt.Errorf("coingecko price %s: %w", symbol, err)
	}

	entry, ok := payload[id]
	if !ok {
		return nil, fmt.Errorf("coingecko price %s: no entry for %q in response", symbol, id)
	}
	price, ok := entry["usd"]
	if !ok {
		return nil, fmt.Errorf("coingecko price %s: missing usd field", symbol)
	}

	return &models.Quote{
		Symbol:    strings.ToUpper(symbol),
		Price:     price,
		Change24h: entry["usd_24h_change"],
		MarketCap: entry["usd_market_cap"],
		UpdatedAt: c.now(),
	}, nil
}

type marketChartResponse struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// MarketChart returns daily price and volume history for a symbol.
func (c *Client) MarketChart(ctx context.Context, symbol string, days int) (*models.MarketHistory, error) {
	id := CoinID(symbol)

	var payload marketChartResponse
	opts := &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    c.baseURL + "/coins/" + id + "/market_chart",
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"days":        {strconv.Itoa(days)},
			"interval":    {"daily"},
		},
		Headers: c.headers(),
	}
	if err := c.http.SendAndParse(ctx, opts, &payload); err != nil {
		return nil, fmt.Errorf("coingecko chart %s: %w", symbol, err)
	}

	if len(payload.Prices) == 0 {
		return nil, fmt.Errorf("coingecko chart %s: empty price series", symbol)
	}

	h := &models.MarketHistory{
		Symbol:     strings.ToUpper(symbol),
		Prices:     make([]float64, 0, len(payload.Prices)),
		Volumes:    make([]float64, 0, len(payload.TotalVolumes)),
		Timestamps: make([]time.Time, 0, len(payload.Prices)),
	}
	for _, p := range payload.Prices {
		if len(p) < 2 {
			return nil, fmt.Errorf("coingecko chart %s: malformed price point", symbol)
		}
		h.Timestamps = append(h.Timestamps, time.UnixMilli(int64(p[0])))
		h.Prices = append(h.Prices, p[1])
	}
	if len(payload.TotalVolumes) != len(payload.Prices) {
		return nil, fmt.Errorf("coingecko chart %s: volume series length %d does not match price series length %d",
			symbol, len(payload.TotalVolumes), len(payload.Prices))
	}
	for _, v := range payload.TotalVolumes {
		if len(v) < 2 {
			return nil, fmt.Errorf("coingecko chart %s: malformed volume point", symbol)
		}
		h.Volumes = append(h.Volumes, v[1])
	}
	if n := len(payload.MarketCaps); n > 0 && len(payload.MarketCaps[n-1]) >= 2 {
		h.MarketCap = payload.MarketCaps[n-1][1]
	}
	if n := len(h.Prices); n >= 2 && h.Prices[n-2] != 0 {
		h.Change24h = (h.Prices[n-1] - h.Prices[n-2]) / h.Prices[n-2] * 100
	}
	return h, nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h["x-cg-demo-api-key"] = c.apiKey
	}
	return h
}
