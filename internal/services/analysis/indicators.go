package analysis

import (
	"fmt"
	"math"
	"sort"

	"CoinPulse/internal/domain/models"
)

// Default indicator windows.
const (
	RSIPeriod    = 14
	VolumePeriod = 20
)

// RSI computes the Wilder-smoothed relative strength index over the given
// period. Short series degrade to the available deltas instead of failing;
// fewer than two points yields the neutral 50.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < 2 {
		return 50
	}

	seed := period
	if len(prices)-1 < seed {
		seed = len(prices) - 1
	}

	var avgGain, avgLoss float64
	for i := 1; i <= seed; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(seed)
	avgLoss /= float64(seed)

	for i := seed + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// EMASeries computes the exponential moving average series seeded with the
// first price.
func EMASeries(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// EMA returns the last value of the exponential moving average.
func EMA(prices []float64, period int) float64 {
	s := EMASeries(prices, period)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// SMA computes the arithmetic mean of the last period values, or of the
// whole series when it is shorter than the period.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 || period <= 0 {
		return 0
	}
	if period > len(prices) {
		period = len(prices)
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}

// ComputeMACD computes MACD(12,26,9) with interpretation. The histogram is
// positive exactly when EMA12 exceeds EMA26 relative to the signal line.
func ComputeMACD(prices []float64) models.MACD {
	if len(prices) == 0 {
		return models.MACD{Interpretation: "insufficient data"}
	}

	ema12 := EMASeries(prices, 12)
	ema26 := EMASeries(prices, 26)
	macdLine := make([]float64, len(prices))
	for i := range prices {
		macdLine[i] = ema12[i] - ema26[i]
	}
	signal := EMASeries(macdLine, 9)

	last := len(prices) - 1
	m := models.MACD{
		Value:     macdLine[last],
		Signal:    signal[last],
		Histogram: macdLine[last] - signal[last],
	}
	m.PotentialReversal = math.Abs(m.Value-m.Signal) < 0.1
	m.Interpretation = interpretMACD(m)
	return m
}

func interpretMACD(m models.MACD) string {
	strength := "weak"
	if math.Abs(m.Histogram) > math.Abs(m.Signal)*0.5 {
		strength = "strong"
	}
	direction := "bearish"
	if m.Histogram > 0 {
		direction = "bullish"
	}

	trend := "mixed trend"
	switch {
	case m.Value > 0 && m.Signal > 0:
		trend = "uptrend"
	case m.Value < 0 && m.Signal < 0:
		trend = "downtrend"
	}

	out := fmt.Sprintf("%s %s momentum, %s", strength, direction, trend)
	if m.PotentialReversal {
		out += ", potential reversal"
	}
	return out
}

// SupportResistance returns the 25th/75th percentile prices of the series.
// A simple quartile split, not a peak/trough detector.
func SupportResistance(prices []float64) (support, resistance float64) {
	if len(prices) == 0 {
		return 0, 0
	}
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	n := len(sorted)
	support = sorted[int(float64(n-1)*0.25)]
	resistance = sorted[int(float64(n-1)*0.75)]
	return support, resistance
}

// StochasticRSI places the latest RSI within the observed RSI range of the
// trailing window, scaled to [0,100]. A flat RSI range yields 50.
func StochasticRSI(prices []float64, period int) float64 {
	if len(prices) < 3 {
		return 50
	}

	rsis := rsiSeries(prices, period)
	if len(rsis) == 0 {
		return 50
	}
	window := period
	if window > len(rsis) {
		window = len(rsis)
	}
	slice := rsis[len(rsis)-window:]

	minRSI, maxRSI := slice[0], slice[0]
	for _, v := range slice {
		if v < minRSI {
			minRSI = v
		}
		if v > maxRSI {
			maxRSI = v
		}
	}
	if maxRSI == minRSI {
		return 50
	}
	return (slice[len(slice)-1] - minRSI) / (maxRSI - minRSI) * 100
}

// rsiSeries computes the incremental Wilder RSI at every point after the
// seed window.
func rsiSeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < 2 {
		return nil
	}
	seed := period
	if len(prices)-1 < seed {
		seed = len(prices) - 1
	}

	var avgGain, avgLoss float64
	for i := 1; i <= seed; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(seed)
	avgLoss /= float64(seed)

	at := func(g, l float64) float64 {
		if l == 0 {
			return 100
		}
		return 100 - 100/(1+g/l)
	}

	out := []float64{at(avgGain, avgLoss)}
	for i := seed + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out = append(out, at(avgGain, avgLoss))
	}
	return out
}

// OBV computes the cumulative on-balance volume and its trend label from
// the last five periods.
func OBV(prices, volumes []float64) (obv float64, trend string) {
	n := len(prices)
	if len(volumes) < n {
		n = len(volumes)
	}
	if n < 2 {
		return 0, "Bearish"
	}

	series := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case prices[i] > prices[i-1]:
			series[i] = series[i-1] + volumes[i]
		case prices[i] < prices[i-1]:
			series[i] = series[i-1] - volumes[i]
		default:
			series[i] = series[i-1]
		}
	}

	start := n - 5
	if start < 0 {
		start = 0
	}
	trend = "Bearish"
	if series[n-1] > series[start] {
		trend = "Bullish"
	}
	return series[n-1], trend
}

// Volatility returns the annualized volatility percentage from daily
// log returns: stdev * sqrt(365) * 100.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(365) * 100
}

// VolumeRatio compares the current volume to the trailing period mean.
func VolumeRatio(volumes []float64, period int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	if period <= 0 {
		period = VolumePeriod
	}
	if period > len(volumes) {
		period = len(volumes)
	}
	sum := 0.0
	for i := len(volumes) - period; i < len(volumes); i++ {
		sum += volumes[i]
	}
	mean := sum / float64(period)
	if mean == 0 {
		return 0
	}
	return volumes[len(volumes)-1] / mean
}

// MarketPhase classifies the regime from price vs. the 50/200 moving averages.
func MarketPhase(price, ma50, ma200 float64) string {
	aboveMA50 := price > ma50
	aboveMA200 := price > ma200
	goldenAlign := ma50 > ma200

	switch {
	case aboveMA50 && aboveMA200 && goldenAlign:
		return models.PhaseBull
	case !aboveMA50 && !aboveMA200 && !goldenAlign:
		return models.PhaseBear
	case aboveMA200 && !aboveMA50:
		return models.PhaseCorrection
	default:
		return models.PhaseAccumulation
	}
}

// Compute assembles the full indicator snapshot from a market history.
func Compute(h *models.MarketHistory) models.TechnicalIndicators {
	prices := h.Prices
	volumes := h.Volumes

	ind := models.TechnicalIndicators{
		RSI:         RSI(prices, RSIPeriod),
		MACD:        ComputeMACD(prices),
		MA20:        SMA(prices, 20),
		MA50:        SMA(prices, 50),
		MA200:       SMA(prices, 200),
		StochRSI:    StochasticRSI(prices, RSIPeriod),
		VolumeRatio: VolumeRatio(volumes, VolumePeriod),
		Volatility:  Volatility(prices),
		Degraded:    len(prices) < 200,
	}
	ind.Support, ind.Resistance = SupportResistance(prices)
	ind.OBV, ind.OBVTrend = OBV(prices, volumes)
	ind.MarketPhase = MarketPhase(h.CurrentPrice(), ind.MA50, ind.MA200)
	return ind
}
