package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	domsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/service/metrics"
	"CoinPulse/internal/services/analysis"
	"CoinPulse/pkg/logger"
)

// Analyzer runs the full analysis pipeline for a symbol: concurrent
// market data fetches, indicator and sentiment computation, prediction
// and strategy generation. Completed snapshots are handed to the
// recorder and publisher asynchronously.
type Analyzer struct {
	fetcher   *Fetcher
	narrative domsvc.NarrativeFormatter
	recorder  drepo.Recorder
	publisher drepo.Publisher
	metrics   drepo.Metrics
	log       *logger.Logger

	mu   sync.Mutex
	seqs map[string]uint64 // per-symbol commit sequence
	last map[string]*models.AnalysisResult
}

// NewAnalyzer creates an Analyzer. Recorder and publisher may be nil
// when persistence and event publishing are disabled.
func NewAnalyzer(
	fetcher *Fetcher,
	narrative domsvc.NarrativeFormatter,
	recorder drepo.Recorder,
	publisher drepo.Publisher,
	m drepo.Metrics,
	log *logger.Logger,
) *Analyzer {
	return &Analyzer{
		fetcher:   fetcher,
		narrative: narrative,
		recorder:  recorder,
		publisher: publisher,
		metrics:   m,
		log:       log,
		seqs:      make(map[string]uint64),
		last:      make(map[string]*models.AnalysisResult),
	}
}

// Analyze produces a full analysis snapshot for symbol using days of
// history. Price, history and news are fetched concurrently; history
// is the only mandatory input.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, days int) (*models.AnalysisResult, error) {
	symbol = strings.ToUpper(symbol)
	seq := a.nextSeq(symbol)
	start := time.Now()

	var (
		wg      sync.WaitGroup
		quote   *models.Quote
		history *models.MarketHistory
		news    *models.NewsPage
		histErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		quote, _ = a.fetcher.Price(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		history, histErr = a.fetcher.History(ctx, symbol, days)
	}()
	go func() {
		defer wg.Done()
		news, _ = a.fetcher.News(ctx, symbol, "", 10)
	}()
	wg.Wait()

	if histErr != nil {
		if a.metrics != nil {
			a.metrics.RecordError("history")
		}
		return nil, fmt.Errorf("analyze %s: %w", symbol, histErr)
	}

	// Price and news only return errors on context cancellation; guard
	// anyway so a partial failure cannot panic the pipeline.
	if quote == nil {
		quote = &models.Quote{Symbol: symbol}
	}
	if news == nil {
		news = &models.NewsPage{Symbol: symbol}
	}

	price := quote.Price
	if price == 0 {
		price = history.CurrentPrice()
	}
	change := quote.Change24h
	if change == 0 {
		change = history.Change24h
	}

	ind := analysis.Compute(history)

	sent := analysis.AggregateNews(symbol, news.Items)
	sent.PriceBias = analysis.PriceBias(change)

	pred := analysis.Predict(price, ind)
	strat := analysis.Strategize(price, ind, sent)

	res := &models.AnalysisResult{
		Symbol:       symbol,
		GeneratedAt:  time.Now(),
		Sequence:     seq,
		CurrentPrice: price,
		Technical:    ind,
		Sentiment:    sent,
		Structure: models.MarketStructure{
			Support:       ind.Support,
			Resistance:    ind.Resistance,
			Phase:         ind.MarketPhase,
			OBVTrend:      ind.OBVTrend,
			TrendStrength: analysis.TrendStrength(price, ind.MA50),
		},
		Prediction: pred,
		Signals:    analysis.Signals(ind, sent),
		Strategy:   strat,
		Conditions: models.MarketConditions{
			Phase:           ind.MarketPhase,
			Volatility:      ind.Volatility,
			VolatilityLevel: volatilityLevel(ind.Volatility),
			Sentiment:       sent.Label,
			PriceChange24h:  change,
		},
		Cached: quote.Cached || history.Cached || news.Cached,
	}

	// A failed narrative never fails the analysis.
	if a.narrative != nil {
		if text, err := a.narrative.Narrative(ctx, ind, sent); err == nil {
			res.Narrative = text
		} else {
			a.log.Warn("narrative generation failed", logger.String("symbol", symbol), logger.Error(err))
		}
	}

	if !a.commit(res) {
		// A newer analysis for this symbol finished first; its snapshot
		// stays current and this one is returned to the caller only.
		a.log.Debug("analysis superseded", logger.String("symbol", symbol), logger.Uint64("seq", seq))
		return res, nil
	}

	if a.metrics != nil {
		a.metrics.RecordAnalysis(symbol)
		a.metrics.RecordLastPrice(symbol, price)
		a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	}
	metrics.AnalysisDuration.WithLabelValues(symbol).Observe(time.Since(start).Seconds())

	a.persist(res)
	return res, nil
}

// Latest returns the most recently committed snapshot for a symbol.
func (a *Analyzer) Latest(symbol string) (*models.AnalysisResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	res, ok := a.last[strings.ToUpper(symbol)]
	return res, ok
}

func (a *Analyzer) nextSeq(symbol string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seqs[symbol]++
	return a.seqs[symbol]
}

// commit stores res as the current snapshot unless a higher-sequence
// snapshot for the same symbol already landed.
func (a *Analyzer) commit(res *models.AnalysisResult) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.last[res.Symbol]; ok && prev.Sequence > res.Sequence {
		return false
	}
	a.last[res.Symbol] = res
	return true
}

// persist hands the snapshot to the recorder and publisher off the
// request path. Failures are logged and counted, never surfaced.
func (a *Analyzer) persist(res *models.AnalysisResult) {
	if a.recorder != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.recorder.Record(ctx, res); err != nil {
				if a.metrics != nil {
					a.metrics.RecordError("record")
				}
				a.log.Error("record analysis failed", logger.String("symbol", res.Symbol), logger.Error(err))
			}
		}()
	}
	if a.publisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.publisher.Publish(ctx, res); err != nil {
				if a.metrics != nil {
					a.metrics.RecordError("publish")
				}
				a.log.Error("publish analysis failed", logger.String("symbol", res.Symbol), logger.Error(err))
			}
		}()
	}
}

func volatilityLevel(vol float64) string {
	switch {
	case vol > 50:
		return "high"
	case vol > 25:
		return "moderate"
	default:
		return "low"
	}
}
