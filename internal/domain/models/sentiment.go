package models

// Sentiment classification labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Impact tiers for news sentiment.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// SentimentStats is the positive/negative/neutral percentage split.
// The three values always sum to 100.
type SentimentStats struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// SentimentResult is the scored sentiment of a single text item.
// Score is on a signed [-1,1] scale; Confidence is in [30,95].
type SentimentResult struct {
	Label      string         `json:"label"`
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
	Stats      SentimentStats `json:"stats"`
	Impact     string         `json:"impact"`
}

// MarketSentiment aggregates per-article sentiment across a news set.
type MarketSentiment struct {
	Label      string         `json:"label"`
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
	Stats      SentimentStats `json:"stats"`
	Impact     string         `json:"impact"`
	Articles   int            `json:"articles"`
	// PriceBias is the price-action sentiment derived from the 24h change
	// (Bullish/Bearish/Neutral), independent of the news corpus.
	PriceBias string `json:"price_bias"`
}
