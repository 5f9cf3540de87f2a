package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
)

type recordingRecorder struct {
	ch chan *models.AnalysisResult
}

func (r *recordingRecorder) Init(context.Context) error   { return nil }
func (r *recordingRecorder) Health(context.Context) error { return nil }
func (r *recordingRecorder) Close() error                 { return nil }
func (r *recordingRecorder) Record(_ context.Context, res *models.AnalysisResult) error {
	r.ch <- res
	return nil
}

type recordingPublisher struct {
	ch chan *models.AnalysisResult
}

func (p *recordingPublisher) Close() error { return nil }
func (p *recordingPublisher) Publish(_ context.Context, res *models.AnalysisResult) error {
	p.ch <- res
	return nil
}

func testHistoryData() *models.MarketHistory {
	prices := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	return &models.MarketHistory{Prices: prices, Volumes: volumes, Change24h: 1.0}
}

func newTestAnalyzer(t *testing.T, h *stubHistory, rec *recordingRecorder, pub *recordingPublisher) *Analyzer {
	t.Helper()
	f := newTestFetcher(t,
		&stubPrices{q: &models.Quote{Price: 159, Change24h: 1.0}},
		h,
		&stubNews{p: &models.NewsPage{}},
	)
	a := NewAnalyzer(f, nil, nil, nil, nil, testLogger(t))
	if rec != nil {
		a.recorder = rec
	}
	if pub != nil {
		a.publisher = pub
	}
	return a
}

func TestAnalyzeComposesResult(t *testing.T) {
	a := newTestAnalyzer(t, &stubHistory{h: testHistoryData()}, nil, nil)

	res, err := a.Analyze(context.Background(), "btc", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Symbol != "BTC" {
		t.Fatalf("symbol should be upper-cased, got %q", res.Symbol)
	}
	if res.CurrentPrice != 159 {
		t.Fatalf("unexpected price %v", res.CurrentPrice)
	}
	if len(res.Prediction.Targets) != 3 {
		t.Fatalf("expected 3 price targets, got %d", len(res.Prediction.Targets))
	}
	if res.Strategy.Recommendation == "" {
		t.Fatalf("strategy recommendation must be set")
	}
	if res.Technical.MarketPhase == "" {
		t.Fatalf("market phase must be set")
	}
	if res.Conditions.VolatilityLevel == "" {
		t.Fatalf("volatility level must be set")
	}
	if res.Sentiment.Label != models.SentimentNeutral {
		t.Fatalf("no news should aggregate to neutral, got %q", res.Sentiment.Label)
	}
	if res.Sentiment.PriceBias != "Neutral" {
		t.Fatalf("1%% move should be a neutral bias, got %q", res.Sentiment.PriceBias)
	}
	if len(res.Signals) == 0 {
		t.Fatalf("signals must not be empty")
	}
}

func TestAnalyzeFailsWithoutHistory(t *testing.T) {
	a := newTestAnalyzer(t, &stubHistory{err: errors.New("down")}, nil, nil)

	_, err := a.Analyze(context.Background(), "BTC", 90)
	if err == nil {
		t.Fatalf("history is mandatory, expected error")
	}
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestAnalyzeCommitsLatest(t *testing.T) {
	a := newTestAnalyzer(t, &stubHistory{h: testHistoryData()}, nil, nil)

	if _, ok := a.Latest("BTC"); ok {
		t.Fatalf("no snapshot should exist yet")
	}
	res, err := a.Analyze(context.Background(), "BTC", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := a.Latest("btc")
	if !ok || got != res {
		t.Fatalf("latest snapshot should be the committed result")
	}
}

func TestCommitRejectsSuperseded(t *testing.T) {
	a := newTestAnalyzer(t, &stubHistory{h: testHistoryData()}, nil, nil)

	seq1 := a.nextSeq("BTC")
	seq2 := a.nextSeq("BTC")
	if seq2 != seq1+1 {
		t.Fatalf("sequences must increase: %d then %d", seq1, seq2)
	}

	newer := &models.AnalysisResult{Symbol: "BTC", Sequence: seq2}
	older := &models.AnalysisResult{Symbol: "BTC", Sequence: seq1}

	if !a.commit(newer) {
		t.Fatalf("newer snapshot should commit")
	}
	if a.commit(older) {
		t.Fatalf("older snapshot must not replace a newer one")
	}
	got, _ := a.Latest("BTC")
	if got != newer {
		t.Fatalf("latest should still be the newer snapshot")
	}
}

func TestAnalyzePersistsAsync(t *testing.T) {
	rec := &recordingRecorder{ch: make(chan *models.AnalysisResult, 1)}
	pub := &recordingPublisher{ch: make(chan *models.AnalysisResult, 1)}
	a := newTestAnalyzer(t, &stubHistory{h: testHistoryData()}, rec, pub)

	res, err := a.Analyze(context.Background(), "BTC", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case got := <-rec.ch:
		if got != res {
			t.Fatalf("recorded snapshot differs from result")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("recorder was never called")
	}
	select {
	case got := <-pub.ch:
		if got != res {
			t.Fatalf("published snapshot differs from result")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher was never called")
	}
}
