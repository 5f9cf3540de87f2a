package models

// Trading recommendations produced by the strategy rule table.
const (
	RecommendBuy        = "Buy"
	RecommendSell       = "Sell"
	RecommendHold       = "Hold"
	RecommendTakeProfit = "Take Profit"
)

// Strategy timeframes.
const (
	TimeframeShort  = "Short-term"
	TimeframeMedium = "Medium-term"
	TimeframeLong   = "Long-term"
)

// EntryLevels is the three-tier entry price ladder.
type EntryLevels struct {
	Conservative float64 `json:"conservative"`
	Moderate     float64 `json:"moderate"`
	Aggressive   float64 `json:"aggressive"`
}

// StopLevels is the stop-loss ladder below the entry price.
// Distance from price is strictly monotonic: tight < normal < wide.
type StopLevels struct {
	Tight  float64 `json:"tight"`
	Normal float64 `json:"normal"`
	Wide   float64 `json:"wide"`
}

// TargetLevels is the ascending take-profit ladder.
type TargetLevels struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Final     float64 `json:"final"`
}

// TradingStrategy is the derived, read-only strategy output.
type TradingStrategy struct {
	Recommendation string       `json:"recommendation"`
	Confidence     float64      `json:"confidence"`
	Entries        EntryLevels  `json:"entries"`
	StopLoss       StopLevels   `json:"stop_loss"`
	Targets        TargetLevels `json:"targets"`
	Timeframe      string       `json:"timeframe"`
	Rationale      []string     `json:"rationale"`
}
