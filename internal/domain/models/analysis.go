package models

import "time"

// MarketStructure summarizes the current price structure.
type MarketStructure struct {
	Support       float64 `json:"support"`
	Resistance    float64 `json:"resistance"`
	Phase         string  `json:"phase"`
	OBVTrend      string  `json:"obv_trend"`
	TrendStrength float64 `json:"trend_strength"` // |price-MA50|/MA50
}

// MarketConditions is the coarse regime summary shown on dashboards.
type MarketConditions struct {
	Phase           string  `json:"phase"`
	Volatility      float64 `json:"volatility"`
	VolatilityLevel string  `json:"volatility_level"` // low/moderate/high
	Sentiment       string  `json:"sentiment"`
	PriceChange24h  float64 `json:"price_change_24h"`
}

// AnalysisResult is the single public output of the analysis pipeline and
// the only contract the presentation layer depends on.
type AnalysisResult struct {
	Symbol       string              `json:"symbol"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Sequence     uint64              `json:"-"`
	CurrentPrice float64             `json:"current_price"`
	Technical    TechnicalIndicators `json:"technicalAnalysis"`
	Sentiment    MarketSentiment     `json:"sentimentAnalysis"`
	Narrative    string              `json:"aiPrediction,omitempty"`
	Structure    MarketStructure     `json:"marketStructure"`
	Prediction   PredictionSet       `json:"priceTargets"`
	Signals      []string            `json:"signals"`
	Strategy     TradingStrategy     `json:"strategy"`
	Conditions   MarketConditions    `json:"marketConditions"`
	// Cached reports that at least one input came from a cache entry,
	// whether a fresh hit or a stale copy served after an upstream
	// failure, rather than a live upstream call.
	Cached bool `json:"cached,omitempty"`
}
