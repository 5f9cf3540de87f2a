package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	pkgch "CoinPulse/pkg/clickhouse"
	applogger "CoinPulse/pkg/logger"
)

// analysisSchema holds every completed snapshot for offline review.
// MergeTree ordered by (symbol, generated_at) keeps per-symbol scans cheap.
var analysisSchema = []string{`
CREATE TABLE IF NOT EXISTS analysis_snapshots (
    symbol          LowCardinality(String),
    generated_at    DateTime64(3),
    price           Float64,
    rsi             Float64,
    macd            Float64,
    macd_signal     Float64,
    market_phase    LowCardinality(String),
    volatility      Float64,
    sentiment       LowCardinality(String),
    sentiment_score Float64,
    recommendation  LowCardinality(String),
    confidence      Float64,
    payload         String
) ENGINE = MergeTree()
ORDER BY (symbol, generated_at)
TTL toDateTime(generated_at) + INTERVAL 90 DAY
`}

// CHRecorder persists analysis snapshots to ClickHouse.
type CHRecorder struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

var _ drepo.Recorder = (*CHRecorder)(nil)

func NewCHRecorder(ch *pkgch.Client, l *applogger.Logger) *CHRecorder {
	return &CHRecorder{ch: ch, db: ch.DB(), l: l}
}

// Init ensures the snapshot table exists.
func (r *CHRecorder) Init(ctx context.Context) error {
	if err := r.ch.InitSchema(ctx, analysisSchema); err != nil {
		return fmt.Errorf("init analysis schema: %w", err)
	}
	return nil
}

func (r *CHRecorder) Record(ctx context.Context, res *models.AnalysisResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	const q = `
        INSERT INTO analysis_snapshots
            (symbol, generated_at, price, rsi, macd, macd_signal, market_phase,
             volatility, sentiment, sentiment_score, recommendation, confidence, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, q,
		res.Symbol,
		res.GeneratedAt,
		res.CurrentPrice,
		res.Technical.RSI,
		res.Technical.MACD.Value,
		res.Technical.MACD.Signal,
		res.Technical.MarketPhase,
		res.Technical.Volatility,
		res.Sentiment.Label,
		res.Sentiment.Score,
		res.Strategy.Recommendation,
		res.Strategy.Confidence,
		string(payload),
	)
	if err != nil {
		if r.l != nil {
			r.l.Error("clickhouse insert snapshot error",
				applogger.String("symbol", res.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (r *CHRecorder) Health(ctx context.Context) error {
	return r.ch.Health(ctx)
}

func (r *CHRecorder) Close() error {
	return r.ch.Close()
}

// NoopRecorder satisfies Recorder when persistence is disabled.
type NoopRecorder struct{}

var _ drepo.Recorder = (*NoopRecorder)(nil)

func (NoopRecorder) Init(context.Context) error                          { return nil }
func (NoopRecorder) Record(context.Context, *models.AnalysisResult) error { return nil }
func (NoopRecorder) Health(context.Context) error                        { return nil }
func (NoopRecorder) Close() error                                        { return nil }
