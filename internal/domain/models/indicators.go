package models

// Market phase labels derived from price vs. moving averages.
const (
	PhaseBull         = "Bull Market"
	PhaseBear         = "Bear Market"
	PhaseCorrection   = "Correction"
	PhaseAccumulation = "Accumulation"
)

// MACD holds the MACD line, its signal line and the histogram, plus a
// human-readable interpretation of the current momentum.
type MACD struct {
	Value             float64 `json:"value"`
	Signal            float64 `json:"signal"`
	Histogram         float64 `json:"histogram"`
	Interpretation    string  `json:"interpretation"`
	PotentialReversal bool    `json:"potential_reversal"`
}

// TechnicalIndicators is the full indicator snapshot computed per analysis.
// Derived fresh on every call, never mutated.
type TechnicalIndicators struct {
	RSI         float64 `json:"rsi"`
	MACD        MACD    `json:"macd"`
	MA20        float64 `json:"ma20"`
	MA50        float64 `json:"ma50"`
	MA200       float64 `json:"ma200"`
	StochRSI    float64 `json:"stoch_rsi"`
	OBV         float64 `json:"obv"`
	OBVTrend    string  `json:"obv_trend"`
	VolumeRatio float64 `json:"volume_ratio"`
	Volatility  float64 `json:"volatility"` // annualized, percent
	Support     float64 `json:"support"`
	Resistance  float64 `json:"resistance"`
	MarketPhase string  `json:"market_phase"`
	// Degraded is set when the series was too short for the full
	// indicator windows and best-effort values were used instead.
	Degraded bool `json:"degraded,omitempty"`
}
