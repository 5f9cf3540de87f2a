package service

import (
	"context"

	"CoinPulse/internal/domain/models"
)

// PriceProvider fetches the current spot price for a symbol.
type PriceProvider interface {
	SpotPrice(ctx context.Context, symbol string) (*models.Quote, error)
}

// HistoryProvider fetches historical price/volume series for a symbol.
type HistoryProvider interface {
	MarketChart(ctx context.Context, symbol string, days int) (*models.MarketHistory, error)
}

// NewsProvider fetches news articles matching a query.
type NewsProvider interface {
	News(ctx context.Context, query, page string, limit int) (*models.NewsPage, error)
}

// NarrativeFormatter turns an indicator/sentiment snapshot into prose.
// Implementations may call external generative services; the numeric
// pipeline never depends on their output being well-formed.
type NarrativeFormatter interface {
	Narrative(ctx context.Context, ind models.TechnicalIndicators, sent models.MarketSentiment) (string, error)
}
