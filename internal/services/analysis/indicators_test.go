package analysis

import (
	"math"
	"testing"

	"CoinPulse/internal/domain/models"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRSITooShort(t *testing.T) {
	if got := RSI([]float64{100}, 14); got != 50 {
		t.Fatalf("expected neutral 50, got %v", got)
	}
	if got := RSI(nil, 14); got != 50 {
		t.Fatalf("expected neutral 50 for empty series, got %v", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	if got := RSI(prices, 14); got != 100 {
		t.Fatalf("monotonic gains should clamp to 100, got %v", got)
	}
}

func TestRSIDegradesOnShortSeries(t *testing.T) {
	// 5 points: seed shrinks to the 4 available deltas.
	prices := []float64{100, 102, 101, 103, 102}
	got := RSI(prices, 14)
	if got <= 0 || got >= 100 {
		t.Fatalf("mixed short series should stay inside (0,100), got %v", got)
	}
}

func TestRSIBounds(t *testing.T) {
	prices := []float64{50, 48, 52, 47, 53, 49, 51, 46, 54, 50, 48, 52, 47, 53, 49, 51}
	got := RSI(prices, 14)
	if got < 0 || got > 100 {
		t.Fatalf("RSI out of bounds: %v", got)
	}
}

func TestSMAFallsBackToFullSeries(t *testing.T) {
	prices := []float64{10, 20, 30}
	if got := SMA(prices, 50); got != 20 {
		t.Fatalf("expected mean of full series 20, got %v", got)
	}
}

func TestSMAWindow(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	if got := SMA(prices, 3); got != 5 {
		t.Fatalf("expected mean of last 3 = 5, got %v", got)
	}
}

func TestEMASeriesSeed(t *testing.T) {
	prices := []float64{10, 12, 14}
	s := EMASeries(prices, 2)
	if s[0] != 10 {
		t.Fatalf("EMA must seed with first price, got %v", s[0])
	}
	// k = 2/3; next = (12-10)*2/3 + 10
	if !almostEqual(s[1], 10+2.0*2/3, 1e-9) {
		t.Fatalf("unexpected ema[1]: %v", s[1])
	}
}

func TestMACDFlatSeriesReversal(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100
	}
	m := ComputeMACD(prices)
	if m.Value != 0 || m.Signal != 0 || m.Histogram != 0 {
		t.Fatalf("flat series should give zero MACD, got %+v", m)
	}
	if !m.PotentialReversal {
		t.Fatalf("|macd-signal| < 0.1 should flag potential reversal")
	}
}

func TestMACDHistogramBracketsEMACrossover(t *testing.T) {
	// 40 declining days then 20 strong up days: the fast EMA crosses
	// back above the slow one and the histogram follows.
	up := make([]float64, 0, 60)
	for i := 0; i < 40; i++ {
		up = append(up, 130-float64(i))
	}
	for i := 1; i <= 20; i++ {
		up = append(up, 91+2.5*float64(i))
	}

	m := ComputeMACD(up)
	ema12, ema26 := EMA(up, 12), EMA(up, 26)
	if ema12 <= ema26 {
		t.Fatalf("fast EMA should lead after the rally: ema12=%v ema26=%v", ema12, ema26)
	}
	if !almostEqual(m.Value, ema12-ema26, 1e-9) {
		t.Fatalf("MACD value %v != ema12-ema26 %v", m.Value, ema12-ema26)
	}
	if m.Histogram <= 0 {
		t.Fatalf("histogram must be positive with ema12 above ema26, got %v", m.Histogram)
	}

	// Mirror series: rally then dump, histogram flips negative.
	down := make([]float64, 0, 60)
	for i := 0; i < 40; i++ {
		down = append(down, 90+float64(i))
	}
	for i := 1; i <= 20; i++ {
		down = append(down, 129-2.5*float64(i))
	}

	m = ComputeMACD(down)
	ema12, ema26 = EMA(down, 12), EMA(down, 26)
	if ema12 >= ema26 {
		t.Fatalf("fast EMA should lag after the dump: ema12=%v ema26=%v", ema12, ema26)
	}
	if m.Histogram >= 0 {
		t.Fatalf("histogram must be negative with ema12 below ema26, got %v", m.Histogram)
	}
	if (m.Histogram > 0) != (m.Value > m.Signal) {
		t.Fatalf("histogram sign must track macd vs signal: %+v", m)
	}
}

func TestMACDEmpty(t *testing.T) {
	m := ComputeMACD(nil)
	if m.Interpretation != "insufficient data" {
		t.Fatalf("unexpected interpretation %q", m.Interpretation)
	}
}

func TestSupportResistanceQuartiles(t *testing.T) {
	// 9 sorted values: index (9-1)*0.25=2 and (9-1)*0.75=6.
	prices := []float64{9, 1, 8, 2, 7, 3, 6, 4, 5}
	s, r := SupportResistance(prices)
	if s != 3 {
		t.Fatalf("expected support 3, got %v", s)
	}
	if r != 7 {
		t.Fatalf("expected resistance 7, got %v", r)
	}
}

func TestSupportResistanceEmpty(t *testing.T) {
	s, r := SupportResistance(nil)
	if s != 0 || r != 0 {
		t.Fatalf("expected zeros, got %v %v", s, r)
	}
}

func TestStochasticRSIFlat(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100
	}
	if got := StochasticRSI(prices, 14); got != 50 {
		t.Fatalf("flat RSI range should give 50, got %v", got)
	}
}

func TestStochasticRSIBounds(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/3)
	}
	got := StochasticRSI(prices, 14)
	if got < 0 || got > 100 {
		t.Fatalf("stoch RSI out of [0,100]: %v", got)
	}
}

func TestOBVTrend(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	volumes := []float64{10, 10, 10, 10, 10, 10}
	obv, trend := OBV(prices, volumes)
	if obv != 50 {
		t.Fatalf("expected cumulative obv 50, got %v", obv)
	}
	if trend != "Bullish" {
		t.Fatalf("rising prices should be Bullish, got %q", trend)
	}

	down := []float64{6, 5, 4, 3, 2, 1}
	_, trend = OBV(down, volumes)
	if trend != "Bearish" {
		t.Fatalf("falling prices should be Bearish, got %q", trend)
	}
}

func TestOBVTooShort(t *testing.T) {
	obv, trend := OBV([]float64{1}, []float64{10})
	if obv != 0 || trend != "Bearish" {
		t.Fatalf("short series should default, got %v %q", obv, trend)
	}
}

func TestVolatilityFlat(t *testing.T) {
	prices := []float64{100, 100, 100, 100}
	if got := Volatility(prices); got != 0 {
		t.Fatalf("flat series has zero volatility, got %v", got)
	}
}

func TestVolatilityPositive(t *testing.T) {
	prices := []float64{100, 110, 95, 120, 90}
	if got := Volatility(prices); got <= 0 {
		t.Fatalf("expected positive volatility, got %v", got)
	}
}

func TestVolumeRatio(t *testing.T) {
	volumes := []float64{10, 10, 10, 10, 20}
	// trailing mean of all 5 is 12; ratio 20/12.
	got := VolumeRatio(volumes, 20)
	if !almostEqual(got, 20.0/12.0, 1e-9) {
		t.Fatalf("unexpected ratio %v", got)
	}
}

func TestVolumeRatioEmpty(t *testing.T) {
	if got := VolumeRatio(nil, 20); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestMarketPhase(t *testing.T) {
	cases := []struct {
		name               string
		price, ma50, ma200 float64
		want               string
	}{
		{"bull", 110, 105, 100, models.PhaseBull},
		{"bear", 90, 95, 100, models.PhaseBear},
		{"correction", 102, 105, 100, models.PhaseCorrection},
		{"accumulation", 98, 95, 100, models.PhaseAccumulation},
	}
	for _, c := range cases {
		if got := MarketPhase(c.price, c.ma50, c.ma200); got != c.want {
			t.Fatalf("%s: expected %q, got %q", c.name, c.want, got)
		}
	}
}

func TestComputeDegradedFlag(t *testing.T) {
	h := &models.MarketHistory{
		Prices:  []float64{100, 101, 102, 103, 104, 105},
		Volumes: []float64{10, 11, 12, 13, 14, 15},
	}
	ind := Compute(h)
	if !ind.Degraded {
		t.Fatalf("series shorter than 200 points must be flagged degraded")
	}
	if ind.Support > ind.Resistance {
		t.Fatalf("support %v above resistance %v", ind.Support, ind.Resistance)
	}
	if ind.MarketPhase == "" {
		t.Fatalf("market phase must always be set")
	}
}
