package repository

import (
	"context"

	"CoinPulse/internal/domain/models"
)

// Recorder persists completed analysis snapshots.
type Recorder interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Record(ctx context.Context, res *models.AnalysisResult) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits completed analysis snapshots to an event backend.
type Publisher interface {
	Publish(ctx context.Context, res *models.AnalysisResult) error
	Close() error
}

// Metrics records operational metrics for the pipeline.
type Metrics interface {
	RecordAnalysis(symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
