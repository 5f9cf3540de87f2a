package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	domsvc "CoinPulse/internal/domain/service"
	rcache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/service/metrics"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/pkg/logger"
)

// ErrNoData means neither the upstream nor any cached copy could
// produce data for the request.
var ErrNoData = errors.New("no data available")

const (
	keyPrice   = "coingecko:price"
	keyHistory = "coingecko:history"
	keyNews    = "newsdata:news"
)

// Fetcher serves market data with caching, upstream pacing and stale
// fallback. Each fetch tries, in order: fresh cache entry, any cached
// entry when the upstream window is exhausted, paced upstream call,
// stale cache entry. Price fetches additionally fall back to a zero
// quote so the analysis pipeline can degrade instead of failing
// outright.
type Fetcher struct {
	prices  domsvc.PriceProvider
	history domsvc.HistoryProvider
	news    domsvc.NewsProvider
	cache   *rcache.ResponseCache
	pacer   *ratelimit.Pacer
	log     *logger.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(
	prices domsvc.PriceProvider,
	history domsvc.HistoryProvider,
	news domsvc.NewsProvider,
	cache *rcache.ResponseCache,
	pacer *ratelimit.Pacer,
	log *logger.Logger,
) *Fetcher {
	return &Fetcher{
		prices:  prices,
		history: history,
		news:    news,
		cache:   cache,
		pacer:   pacer,
		log:     log,
	}
}

// Price returns the current quote for a symbol. On upstream failure a
// stale cached quote is returned with Cached set; with no cache at all
// a zero-price quote is returned rather than an error.
func (f *Fetcher) Price(ctx context.Context, symbol string) (*models.Quote, error) {
	key := rcache.Key(keyPrice, symbol)

	if e, ok := f.cache.Get(key); ok && f.cache.Fresh(e, rcache.CategoryPrice) {
		metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryPrice), "hit").Inc()
		q := *e.Data.(*models.Quote)
		q.Cached = true
		return &q, nil
	}
	metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryPrice), "miss").Inc()

	// With the upstream window exhausted, any cached copy beats blocking.
	if !f.pacer.Allow("coingecko") {
		if e, ok := f.cache.Get(key); ok {
			metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryPrice), "stale").Inc()
			f.log.Debug("rate limited, serving cached price", logger.String("symbol", symbol))
			q := *e.Data.(*models.Quote)
			q.Cached = true
			return &q, nil
		}
	}

	if err := f.pacer.Wait(ctx, "coingecko"); err != nil {
		return nil, fmt.Errorf("pace coingecko: %w", err)
	}

	start := time.Now()
	q, err := f.prices.SpotPrice(ctx, symbol)
	metrics.FetchLatency.WithLabelValues("coingecko", "price").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrors.WithLabelValues("coingecko", "price").Inc()
		if e, ok := f.cache.Get(key); ok {
			metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryPrice), "stale").Inc()
			f.log.Warn("serving stale price", logger.String("symbol", symbol), logger.Error(err))
			stale := *e.Data.(*models.Quote)
			stale.Cached = true
			return &stale, nil
		}
		f.log.Warn("no price available, degrading to zero quote",
			logger.String("symbol", symbol), logger.Error(err))
		return &models.Quote{Symbol: symbol, UpdatedAt: time.Now()}, nil
	}

	f.cache.Put(key, q)
	return q, nil
}

// History returns price/volume history for a symbol over the given
// number of days. Stale cache is served on upstream failure; with no
// cached copy the error is ErrNoData-wrapped since indicators cannot
// be computed without a series.
func (f *Fetcher) History(ctx context.Context, symbol string, days int) (*models.MarketHistory, error) {
	key := rcache.Key(keyHistory, symbol, fmt.Sprintf("%dd", days))

	if e, ok := f.cache.Get(key); ok && f.cache.Fresh(e, rcache.CategoryHistory) {
		metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryHistory), "hit").Inc()
		h := *e.Data.(*models.MarketHistory)
		h.Cached = true
		return &h, nil
	}
	metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryHistory), "miss").Inc()

	if !f.pacer.Allow("coingecko") {
		if e, ok := f.cache.Get(key); ok {
			metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryHistory), "stale").Inc()
			f.log.Debug("rate limited, serving cached history", logger.String("symbol", symbol))
			h := *e.Data.(*models.MarketHistory)
			h.Cached = true
			return &h, nil
		}
	}

	if err := f.pacer.Wait(ctx, "coingecko"); err != nil {
		return nil, fmt.Errorf("pace coingecko: %w", err)
	}

	start := time.Now()
	h, err := f.history.MarketChart(ctx, symbol, days)
	metrics.FetchLatency.WithLabelValues("coingecko", "history").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrors.WithLabelValues("coingecko", "history").Inc()
		if e, ok := f.cache.Get(key); ok {
			metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryHistory), "stale").Inc()
			f.log.Warn("serving stale history", logger.String("symbol", symbol), logger.Error(err))
			stale := *e.Data.(*models.MarketHistory)
			stale.Cached = true
			return &stale, nil
		}
		return nil, fmt.Errorf("history %s: %w: %w", symbol, ErrNoData, err)
	}

	f.cache.Put(key, h)
	return h, nil
}

// News returns recent articles for a symbol. The page token comes from
// a previous NewsPage.NextPage; pass "" for the first page. News is
// optional input: on upstream failure with no cached copy an empty
// page is returned so sentiment can degrade to neutral.
func (f *Fetcher) News(ctx context.Context, symbol, page string, limit int) (*models.NewsPage, error) {
	key := rcache.Key(keyNews, symbol)
	if page != "" {
		key = rcache.Key(keyNews, symbol, page)
	}

	if e, ok := f.cache.Get(key); ok && f.cache.Fresh(e, rcache.CategoryNews) {
		metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryNews), "hit").Inc()
		p := *e.Data.(*models.NewsPage)
		p.Cached = true
		return &p, nil
	}
	metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryNews), "miss").Inc()

	if !f.pacer.Allow("newsdata") {
		if e, ok := f.cache.Get(key); ok {
			metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryNews), "stale").Inc()
			f.log.Debug("rate limited, serving cached news", logger.String("symbol", symbol))
			p := *e.Data.(*models.NewsPage)
			p.Cached = true
			return &p, nil
		}
	}

	if err := f.pacer.Wait(ctx, "newsdata"); err != nil {
		return nil, fmt.Errorf("pace newsdata: %w", err)
	}

	start := time.Now()
	p, err := f.news.News(ctx, symbol, page, limit)
	metrics.FetchLatency.WithLabelValues("newsdata", "news").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrors.WithLabelValues("newsdata", "news").Inc()
		if e, ok := f.cache.Get(key); ok {
			metrics.CacheOutcomes.WithLabelValues(string(rcache.CategoryNews), "stale").Inc()
			f.log.Warn("serving stale news", logger.String("symbol", symbol), logger.Error(err))
			stale := *e.Data.(*models.NewsPage)
			stale.Cached = true
			return &stale, nil
		}
		f.log.Warn("no news available, degrading to empty page",
			logger.String("symbol", symbol), logger.Error(err))
		return &models.NewsPage{Symbol: symbol}, nil
	}

	f.cache.Put(key, p)
	return p, nil
}
