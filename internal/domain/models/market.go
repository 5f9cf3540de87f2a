package models

import "time"

// Quote is the latest spot price snapshot for a symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"`
	MarketCap float64   `json:"market_cap"`
	UpdatedAt time.Time `json:"updated_at"`
	Cached    bool      `json:"cached"`
}

// MarketHistory holds aligned OHLC-close/volume series for a symbol.
// Prices, Volumes and Timestamps always have the same length and are
// ordered chronologically ascending.
type MarketHistory struct {
	Symbol     string      `json:"symbol"`
	Prices     []float64   `json:"prices"`
	Volumes    []float64   `json:"volumes"`
	Timestamps []time.Time `json:"timestamps"`
	MarketCap  float64     `json:"market_cap"`
	Change24h  float64     `json:"change_24h"`
	Cached     bool        `json:"cached"`
}

// CurrentPrice returns the last price in the series, or 0 for an empty series.
func (h *MarketHistory) CurrentPrice() float64 {
	if len(h.Prices) == 0 {
		return 0
	}
	return h.Prices[len(h.Prices)-1]
}

// NewsItem is a single news article as consumed by the sentiment engine.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// NewsPage is one page of news results for a symbol.
type NewsPage struct {
	Symbol   string     `json:"symbol"`
	Items    []NewsItem `json:"items"`
	NextPage string     `json:"next_page,omitempty"`
	Cached   bool       `json:"cached"`
}
