package analysis

import (
	"testing"

	"CoinPulse/internal/domain/models"
)

func TestStrategizeLevels(t *testing.T) {
	ind := testIndicators()
	s := Strategize(100, ind, models.MarketSentiment{Label: models.SentimentNeutral})

	if !(s.StopLoss.Tight > s.StopLoss.Normal && s.StopLoss.Normal > s.StopLoss.Wide) {
		t.Fatalf("stop ladder not monotonic: %+v", s.StopLoss)
	}
	if s.StopLoss.Tight != 98 || s.StopLoss.Normal != 96 || s.StopLoss.Wide != 93 {
		t.Fatalf("unexpected stops: %+v", s.StopLoss)
	}
	if s.Targets.Primary != 105 || s.Targets.Secondary != 110 || s.Targets.Final != 120 {
		t.Fatalf("unexpected targets: %+v", s.Targets)
	}
	if !(s.Targets.Primary < s.Targets.Secondary && s.Targets.Secondary < s.Targets.Final) {
		t.Fatalf("target ladder not monotonic: %+v", s.Targets)
	}
}

func TestEntriesRespectStructure(t *testing.T) {
	ind := testIndicators()
	e := entries(100, ind)

	if e.Conservative >= e.Moderate {
		t.Fatalf("conservative %v must sit below moderate %v", e.Conservative, e.Moderate)
	}
	if e.Aggressive < e.Moderate {
		t.Fatalf("aggressive %v must not sit below moderate %v", e.Aggressive, e.Moderate)
	}
	if e.Conservative < ind.Support {
		t.Fatalf("conservative %v below support %v", e.Conservative, ind.Support)
	}
	if e.Aggressive > ind.Resistance {
		t.Fatalf("aggressive %v above resistance %v", e.Aggressive, ind.Resistance)
	}
}

func TestEntriesFloorAtSupport(t *testing.T) {
	ind := testIndicators()
	ind.Support = 99.5
	ind.Volatility = 60 // 6% discount would undercut support
	e := entries(100, ind)
	if e.Conservative != 99.5 {
		t.Fatalf("expected conservative floored at support, got %v", e.Conservative)
	}
}

func TestRecommendRules(t *testing.T) {
	cases := []struct {
		name      string
		rsi       float64
		histogram float64
		phase     string
		want      string
	}{
		{"overbought with momentum", 75, 0.5, models.PhaseBull, models.RecommendTakeProfit},
		{"oversold exhausted", 25, -0.5, models.PhaseBear, models.RecommendBuy},
		{"accumulation dip", 35, 0.5, models.PhaseAccumulation, models.RecommendBuy},
		{"bear rally", 65, 0.5, models.PhaseBear, models.RecommendSell},
		{"nothing special", 55, 0.5, models.PhaseBull, models.RecommendHold},
	}
	for _, c := range cases {
		ind := models.TechnicalIndicators{
			RSI:         c.rsi,
			MACD:        models.MACD{Histogram: c.histogram},
			MarketPhase: c.phase,
		}
		rec, conf := recommend(ind)
		if rec != c.want {
			t.Fatalf("%s: got %q, want %q", c.name, rec, c.want)
		}
		if conf < 30 || conf > 95 {
			t.Fatalf("%s: confidence %v out of [30,95]", c.name, conf)
		}
	}
}

func TestRecommendConfidenceMACDBonus(t *testing.T) {
	// Accumulation-dip buy fires regardless of histogram sign, so only the
	// agreement bonus differs between the two calls.
	base := models.TechnicalIndicators{RSI: 35, MACD: models.MACD{Histogram: -0.5}, MarketPhase: models.PhaseAccumulation}
	_, without := recommend(base)

	agree := base
	agree.MACD.Histogram = 0.5
	_, with := recommend(agree)

	if with != without+10 {
		t.Fatalf("MACD agreement should add 10: %v vs %v", with, without)
	}
}

func TestTimeframe(t *testing.T) {
	ind := testIndicators()

	ind.Volatility = 60
	if got := timeframe(100, ind); got != models.TimeframeShort {
		t.Fatalf("high volatility should be short-term, got %q", got)
	}

	ind.Volatility = 20
	ind.MA50 = 50 // trend strength 1.0
	if got := timeframe(100, ind); got != models.TimeframeLong {
		t.Fatalf("strong trend should be long-term, got %q", got)
	}

	ind.MA50 = 100
	if got := timeframe(100, ind); got != models.TimeframeMedium {
		t.Fatalf("default should be medium-term, got %q", got)
	}
}

func TestRationaleStrongestFirst(t *testing.T) {
	ind := testIndicators()
	ind.RSI = 85 // RSI extremity 0.7 should outrank everything else
	ind.MACD = models.MACD{Value: 0.1, Signal: 0.1, Histogram: 0, Interpretation: "weak bearish momentum, mixed trend"}
	ind.VolumeRatio = 1.0

	reasons := rationale(100, ind, models.MarketSentiment{Label: models.SentimentNeutral})
	if len(reasons) != 5 {
		t.Fatalf("expected 5 rationale entries, got %d", len(reasons))
	}
	if reasons[0] != "RSI 85 signals overbought conditions" {
		t.Fatalf("strongest signal should lead, got %q", reasons[0])
	}
}

func TestSignals(t *testing.T) {
	ind := testIndicators()
	ind.RSI = 75
	ind.VolumeRatio = 2.0
	ind.OBVTrend = "Bullish"
	ind.MACD = models.MACD{Value: 1.2, Signal: 1.0, Histogram: 0.2}

	got := Signals(ind, models.MarketSentiment{Label: models.SentimentPositive})

	want := map[string]bool{
		"RSI overbought":          true,
		"MACD bullish momentum":   true,
		"Volume spike":            true,
		"OBV accumulation":        true,
		"News sentiment positive": true,
	}
	for _, s := range got {
		delete(want, s)
	}
	if len(want) != 0 {
		t.Fatalf("missing signals: %v (got %v)", want, got)
	}
}
