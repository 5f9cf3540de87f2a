package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"CoinPulse/internal/domain/repository"
	domsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/handler/api"
	internalrepo "CoinPulse/internal/repository"
	icache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/service/coingecko"
	pipemetrics "CoinPulse/internal/service/metrics"
	"CoinPulse/internal/service/newsdata"
	"CoinPulse/internal/service/ratelimit"
	"CoinPulse/internal/services/analysis"
	"CoinPulse/internal/stream"
	"CoinPulse/internal/usecase"
	pcache "CoinPulse/pkg/cache"
	pkgch "CoinPulse/pkg/clickhouse"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	pkgkafka "CoinPulse/pkg/kafka"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/metrics"
	pkgqueue "CoinPulse/pkg/queue"
	"CoinPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder and registers
// the pipeline collectors.
func ProvideMetrics() repository.Metrics {
	pipemetrics.Register()
	return metrics.New()
}

// ProvidePacer creates the upstream pacer with per-provider intervals.
func ProvidePacer(cfg *config.Config) *ratelimit.Pacer {
	return ratelimit.NewPacer(map[string]time.Duration{
		"coingecko": cfg.CoinGecko.MinInterval,
		"newsdata":  cfg.NewsData.MinInterval,
	})
}

// ProvideLimiter creates the inbound per-client limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.NewLimiter(20, 10)
}

// ProvideResponseCache creates the upstream response cache.
func ProvideResponseCache(cfg *config.Config) *icache.ResponseCache {
	return icache.NewResponseCache(map[icache.Category]time.Duration{
		icache.CategoryPrice:   cfg.CacheTTL.Price,
		icache.CategoryHistory: cfg.CacheTTL.History,
		icache.CategoryNews:    cfg.CacheTTL.News,
	})
}

// ProvideCoinGecko creates the CoinGecko API client.
func ProvideCoinGecko(cfg *config.Config) *coingecko.Client {
	return coingecko.New(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey, cfg.CoinGecko.Timeout)
}

// ProvidePriceProvider exposes CoinGecko as the price source.
func ProvidePriceProvider(c *coingecko.Client) domsvc.PriceProvider { return c }

// ProvideHistoryProvider exposes CoinGecko as the history source.
func ProvideHistoryProvider(c *coingecko.Client) domsvc.HistoryProvider { return c }

// ProvideNewsProvider creates the NewsData API client.
func ProvideNewsProvider(cfg *config.Config) domsvc.NewsProvider {
	return newsdata.New(cfg.NewsData.BaseURL, cfg.NewsData.APIKey, cfg.NewsData.PageSize, cfg.NewsData.Timeout)
}

// ProvideNarrative creates the template-based narrative formatter.
func ProvideNarrative() domsvc.NarrativeFormatter {
	return analysis.NewTemplateNarrative()
}

// ProvideFetcher creates the cached, paced market data fetcher.
func ProvideFetcher(
	prices domsvc.PriceProvider,
	history domsvc.HistoryProvider,
	news domsvc.NewsProvider,
	cache *icache.ResponseCache,
	pacer *ratelimit.Pacer,
	log *applogger.Logger,
) *usecase.Fetcher {
	return usecase.NewFetcher(prices, history, news, cache, pacer, log)
}

// ProvideRedisCache creates the Redis cache backend, or nil when Redis
// is disabled.
func ProvideRedisCache(cfg *config.Config) (*pcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", cfg.Redis.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}
	return pcache.NewRedisCache(
		pcache.WithRedisHost(host),
		pcache.WithRedisPort(port),
		pcache.WithRedisPassword(cfg.Redis.Password),
		pcache.WithRedisDB(cfg.Redis.DB),
	)
}

// ProvideCacheService returns the response cache backend: layered
// memory+Redis when Redis is up, in-process memory otherwise.
func ProvideCacheService(rc *pcache.RedisCache) pcache.Service {
	if rc == nil {
		return pcache.NewMemoryCache()
	}
	return pcache.NewLayeredCache(rc)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when
// persistence is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideRecorder creates the snapshot recorder backed by ClickHouse,
// or a noop when persistence is disabled.
func ProvideRecorder(ch *pkgch.Client, log *applogger.Logger) repository.Recorder {
	if ch == nil {
		return internalrepo.NoopRecorder{}
	}
	return internalrepo.NewCHRecorder(ch, log)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when event
// publishing is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideHub creates the websocket broadcast hub, or nil when
// streaming is disabled.
func ProvideHub(cfg *config.Config, log *applogger.Logger) *stream.Hub {
	if !cfg.Stream.Enabled {
		return nil
	}
	return stream.NewHub(log)
}

// ProvidePublisher fans snapshots out to Kafka and the websocket hub;
// with both disabled it degrades to a noop.
func ProvidePublisher(cfg *config.Config, producer *pkgkafka.Producer, hub *stream.Hub) repository.Publisher {
	var targets []repository.Publisher
	if producer != nil {
		targets = append(targets, internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic))
	}
	if hub != nil {
		targets = append(targets, hub)
	}
	if len(targets) == 0 {
		return internalrepo.NoopPublisher{}
	}
	return stream.NewMultiPublisher(targets...)
}

// ProvideAnalyzer creates the analysis pipeline orchestrator.
func ProvideAnalyzer(
	fetcher *usecase.Fetcher,
	narrative domsvc.NarrativeFormatter,
	recorder repository.Recorder,
	publisher repository.Publisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(fetcher, narrative, recorder, publisher, m, log)
}

// ProvideRefreshJob creates the queue job handler for scheduled refreshes.
func ProvideRefreshJob(analyzer *usecase.Analyzer, log *applogger.Logger) *usecase.RefreshJob {
	return usecase.NewRefreshJob(analyzer, log)
}

// ProvideQueue creates the Redis-backed refresh queue, or nil when the
// refresh loop is disabled.
func ProvideQueue(cfg *config.Config, log *applogger.Logger, rc *pcache.RedisCache, job *usecase.RefreshJob) *pkgqueue.RedisQueue {
	if !cfg.Refresh.Enabled || rc == nil {
		return nil
	}
	q := pkgqueue.NewRedisQueue(log,
		&pkgqueue.QueueConfig{
			Workers:    cfg.Refresh.Workers,
			RetryLimit: 3,
			RetryDelay: 30 * time.Second,
		},
		rc.Client(),
		pkgqueue.ModeProducerConsumer,
		pkgqueue.WithKeyPrefix("coinpulse:queue"),
	)
	q.RegisterJob(job)
	return q
}

// ProvideScheduler creates the refresh scheduler, or nil when the
// refresh loop is disabled.
func ProvideScheduler(cfg *config.Config, q *pkgqueue.RedisQueue, log *applogger.Logger) *usecase.RefreshScheduler {
	if q == nil {
		return nil
	}
	return usecase.NewRefreshScheduler(q, cfg.Refresh.Symbols, 90, cfg.Refresh.Interval, log)
}

// ProvideHandler creates the HTTP handler surface.
func ProvideHandler(
	cfg *config.Config,
	log *applogger.Logger,
	analyzer *usecase.Analyzer,
	fetcher *usecase.Fetcher,
	limiter *ratelimit.Limiter,
	respCache pcache.Service,
) xhttp.Handler {
	return api.NewAnalysisHandler(log, analyzer, fetcher, limiter, respCache, cfg.CacheTTL.Response)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	hub *stream.Hub,
	queue *pkgqueue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	recorder repository.Recorder,
	publisher repository.Publisher,
) *server.App {
	// Aggregate repeated error logs through the queue when Redis is up.
	if queue != nil {
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "logs.aggregated",
			Publisher:      queue,
		})
	}
	return server.New(cfg, log, handler, hub, queue, scheduler, recorder, publisher)
}
