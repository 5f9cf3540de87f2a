package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Subsystem: "fetcher",
			Name:      "latency_seconds",
			Help:      "Latency of upstream fetches",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "kind"},
	)

	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Subsystem: "fetcher",
			Name:      "errors_total",
			Help:      "Upstream fetch errors by provider and kind",
		},
		[]string{"provider", "kind"},
	)

	CacheOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coinpulse",
			Subsystem: "cache",
			Name:      "outcomes_total",
			Help:      "Response cache outcomes (hit, miss, stale)",
		},
		[]string{"category", "outcome"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "End-to-end analysis duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"symbol"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(FetchLatency, FetchErrors, CacheOutcomes, AnalysisDuration)
	})
}
