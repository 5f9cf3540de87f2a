//go:build wireinject
// +build wireinject

package di

import (
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Market data plumbing
		ProvidePacer,
		ProvideLimiter,
		ProvideResponseCache,
		ProvideCoinGecko,
		ProvidePriceProvider,
		ProvideHistoryProvider,
		ProvideNewsProvider,
		ProvideFetcher,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Snapshot sinks
		ProvideRecorder,
		ProvideHub,
		ProvidePublisher,

		// Pipeline
		ProvideNarrative,
		ProvideAnalyzer,
		ProvideRefreshJob,
		ProvideQueue,
		ProvideScheduler,

		// HTTP surface and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
