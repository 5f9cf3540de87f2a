package analysis

import (
	"fmt"
	"math"
	"sort"

	"CoinPulse/internal/domain/models"
)

// Stop-loss and target ladders, percent off the current price.
// Distances must stay monotonic: tight < normal < wide.
const (
	stopTightPct  = 0.02
	stopNormalPct = 0.04
	stopWidePct   = 0.07

	targetPrimaryPct   = 0.05
	targetSecondaryPct = 0.10
	targetFinalPct     = 0.20
)

// Strategize derives the entry/stop/target ladders and a recommendation
// from the indicator and sentiment snapshots. Pure and state-free.
func Strategize(price float64, ind models.TechnicalIndicators, sent models.MarketSentiment) models.TradingStrategy {
	rec, conf := recommend(ind)

	s := models.TradingStrategy{
		Recommendation: rec,
		Confidence:     conf,
		Entries:        entries(price, ind),
		StopLoss: models.StopLevels{
			Tight:  price * (1 - stopTightPct),
			Normal: price * (1 - stopNormalPct),
			Wide:   price * (1 - stopWidePct),
		},
		Targets: models.TargetLevels{
			Primary:   price * (1 + targetPrimaryPct),
			Secondary: price * (1 + targetSecondaryPct),
			Final:     price * (1 + targetFinalPct),
		},
		Timeframe: timeframe(price, ind),
		Rationale: rationale(price, ind, sent),
	}
	return s
}

// entries builds the three-tier entry ladder. The conservative entry is a
// volatility-scaled discount floored at support; the aggressive entry is a
// smaller premium capped at resistance.
func entries(price float64, ind models.TechnicalIndicators) models.EntryLevels {
	discount := clamp(ind.Volatility, 10, 60) / 1000 // 1%..6%

	conservative := price * (1 - discount)
	if ind.Support > 0 && conservative < ind.Support {
		conservative = ind.Support
	}

	aggressive := price * (1 + discount/2)
	if ind.Resistance > 0 && aggressive > ind.Resistance {
		aggressive = ind.Resistance
	}
	if aggressive < price {
		aggressive = price
	}

	return models.EntryLevels{
		Conservative: conservative,
		Moderate:     price,
		Aggressive:   aggressive,
	}
}

// recommend applies the rule table combining RSI extremity, MACD trend
// direction and market phase.
func recommend(ind models.TechnicalIndicators) (string, float64) {
	bullish := ind.MACD.Histogram > 0

	rec := models.RecommendHold
	switch {
	case ind.RSI > 70 && bullish:
		rec = models.RecommendTakeProfit
	case ind.RSI < 30 && !bullish:
		rec = models.RecommendBuy
	case ind.MarketPhase == models.PhaseAccumulation && ind.RSI < 40:
		rec = models.RecommendBuy
	case ind.MarketPhase == models.PhaseBear && ind.RSI > 60:
		rec = models.RecommendSell
	}

	conf := 40 + math.Abs(ind.RSI-50)
	if macdAgrees(rec, ind.MACD.Histogram) {
		conf += 10
	}
	return rec, clamp(conf, 30, 95)
}

func macdAgrees(rec string, histogram float64) bool {
	switch rec {
	case models.RecommendBuy:
		return histogram > 0
	case models.RecommendSell, models.RecommendTakeProfit:
		return histogram < 0
	default:
		return math.Abs(histogram) < 0.1
	}
}

// timeframe picks the holding horizon from volatility and trend strength.
func timeframe(price float64, ind models.TechnicalIndicators) string {
	switch {
	case ind.Volatility > 50:
		return models.TimeframeShort
	case TrendStrength(price, ind.MA50) > 0.7:
		return models.TimeframeLong
	default:
		return models.TimeframeMedium
	}
}

type ratedReason struct {
	strength float64
	text     string
}

// rationale lists human-readable indicator readouts, strongest signal
// first. Order is stable for equal strengths.
func rationale(price float64, ind models.TechnicalIndicators, sent models.MarketSentiment) []string {
	reasons := []ratedReason{
		{math.Abs(ind.RSI-50) / 50, rsiReason(ind.RSI)},
		{macdStrength(ind.MACD), "MACD shows " + ind.MACD.Interpretation},
		{phaseStrength(ind.MarketPhase), fmt.Sprintf("Market phase: %s", ind.MarketPhase)},
		{clamp(math.Abs(ind.VolumeRatio-1), 0, 1), volumeReason(ind.VolumeRatio)},
		{math.Abs(sent.Score), fmt.Sprintf("News sentiment is %s (%d articles)", sent.Label, sent.Articles)},
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].strength > reasons[j].strength
	})

	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = r.text
	}
	return out
}

func rsiReason(rsi float64) string {
	switch {
	case rsi > 70:
		return fmt.Sprintf("RSI %.0f signals overbought conditions", rsi)
	case rsi < 30:
		return fmt.Sprintf("RSI %.0f signals oversold conditions", rsi)
	default:
		return fmt.Sprintf("RSI %.0f is in neutral territory", rsi)
	}
}

func macdStrength(m models.MACD) float64 {
	if s := math.Abs(m.Signal); s > 1e-9 {
		return clamp(math.Abs(m.Histogram)/s, 0, 1)
	}
	return 0
}

func phaseStrength(phase string) float64 {
	switch phase {
	case models.PhaseBull, models.PhaseBear:
		return 0.6
	case models.PhaseCorrection:
		return 0.4
	default:
		return 0.3
	}
}

func volumeReason(ratio float64) string {
	switch {
	case ratio >= 1.5:
		return fmt.Sprintf("Volume %.1fx above the 20-period average", ratio)
	case ratio > 0 && ratio <= 0.5:
		return fmt.Sprintf("Volume %.1fx, well below the 20-period average", ratio)
	default:
		return "Volume is near its 20-period average"
	}
}

// Signals returns short trade-signal strings for dashboard badges,
// strongest conditions first.
func Signals(ind models.TechnicalIndicators, sent models.MarketSentiment) []string {
	var out []string
	if ind.RSI > 70 {
		out = append(out, "RSI overbought")
	}
	if ind.RSI < 30 {
		out = append(out, "RSI oversold")
	}
	if ind.MACD.PotentialReversal {
		out = append(out, "MACD potential reversal")
	} else if ind.MACD.Histogram > 0 {
		out = append(out, "MACD bullish momentum")
	} else if ind.MACD.Histogram < 0 {
		out = append(out, "MACD bearish momentum")
	}
	if ind.StochRSI > 80 {
		out = append(out, "Stochastic RSI stretched")
	}
	if ind.StochRSI < 20 {
		out = append(out, "Stochastic RSI compressed")
	}
	if ind.VolumeRatio >= 1.5 {
		out = append(out, "Volume spike")
	}
	if ind.OBVTrend == "Bullish" {
		out = append(out, "OBV accumulation")
	} else {
		out = append(out, "OBV distribution")
	}
	if sent.Label != models.SentimentNeutral {
		out = append(out, "News sentiment "+sent.Label)
	}
	return out
}
