package analysis

import (
	"math"

	"CoinPulse/internal/domain/models"
)

// horizonParams are the per-horizon tuning constants: volatility scaling,
// support/resistance boundary fraction, momentum multiplier, band clamps,
// confidence blend weights and time decay.
type horizonParams struct {
	name            string
	volFactor       float64
	boundaryFrac    float64
	momentumMult    float64
	supportClamp    float64
	resistanceClamp float64
	wRSI            float64
	wMACD           float64
	wTrend          float64
	wVol            float64
	decay           float64
}

// Near-term horizons weight RSI/MACD more; long-term weights trend and
// inverse volatility more.
var horizons = []horizonParams{
	{models.Horizon24H, 0.1, 0.2, 1, 1.00, 1.00, 0.35, 0.30, 0.20, 0.15, 1.0},
	{models.Horizon7D, 0.2, 0.4, 2, 0.95, 1.05, 0.30, 0.25, 0.25, 0.20, 0.9},
	{models.Horizon30D, 0.3, 0.6, 3, 0.90, 1.10, 0.20, 0.15, 0.35, 0.30, 0.8},
}

// Predict derives a price band and confidence for each horizon from the
// indicator snapshot. Bands always satisfy low <= high; they are clamped
// into widening support/resistance envelopes per horizon.
func Predict(price float64, ind models.TechnicalIndicators) models.PredictionSet {
	out := models.PredictionSet{Targets: make([]models.PriceTarget, 0, len(horizons))}
	for _, hp := range horizons {
		out.Targets = append(out.Targets, predictHorizon(price, ind, hp))
	}
	return out
}

func predictHorizon(price float64, ind models.TechnicalIndicators, hp horizonParams) models.PriceTarget {
	volRange := price * (ind.Volatility / 100) * hp.volFactor

	boundaryLow, boundaryHigh := 0.0, 0.0
	if ind.Support > 0 && price > ind.Support {
		boundaryLow = hp.boundaryFrac * (price - ind.Support)
	}
	if ind.Resistance > price {
		boundaryHigh = hp.boundaryFrac * (ind.Resistance - price)
	}

	momentumBias := 0.0
	if ind.MA50 > 0 {
		momentumBias = (ind.MA20 - ind.MA50) / ind.MA50 * price * 0.1 * hp.momentumMult
	}

	low := price - (volRange + boundaryLow) + momentumBias
	high := price + (volRange + boundaryHigh) + momentumBias

	if ind.Support > 0 {
		if floor := ind.Support * hp.supportClamp; low < floor {
			low = floor
		}
	}
	if ind.Resistance > 0 {
		if ceil := ind.Resistance * hp.resistanceClamp; high > ceil {
			high = ceil
		}
	}
	if low > high {
		low, high = high, low
	}

	return models.PriceTarget{
		Horizon:    hp.name,
		Low:        low,
		High:       high,
		Confidence: predictionConfidence(price, ind, hp),
	}
}

// predictionConfidence blends RSI extremity, MACD histogram/signal ratio,
// trend strength and inverse volatility with horizon weights, then applies
// a momentum-direction factor and time decay. Clamped to [30,95].
func predictionConfidence(price float64, ind models.TechnicalIndicators, hp horizonParams) float64 {
	rsiComponent := math.Abs(ind.RSI-50) / 50

	macdComponent := 0.0
	if s := math.Abs(ind.MACD.Signal); s > 1e-9 {
		macdComponent = math.Min(1, math.Abs(ind.MACD.Histogram)/s)
	}

	trendComponent := 0.0
	if ind.MA50 > 0 {
		trendComponent = math.Min(1, math.Abs(price-ind.MA50)/ind.MA50*10)
	}

	volComponent := 1 / (1 + ind.Volatility/100)

	blend := hp.wRSI*rsiComponent + hp.wMACD*macdComponent +
		hp.wTrend*trendComponent + hp.wVol*volComponent

	momentum := 1.0
	switch {
	case ind.MA20 > ind.MA50*1.001:
		momentum = 1.1
	case ind.MA20 < ind.MA50*0.999:
		momentum = 0.9
	}

	return clamp(blend*100*momentum*hp.decay, 30, 95)
}

// TrendStrength is the relative distance of price from the 50-period MA.
func TrendStrength(price, ma50 float64) float64 {
	if ma50 <= 0 {
		return 0
	}
	return math.Abs(price-ma50) / ma50
}
