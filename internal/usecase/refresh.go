package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/pkg/logger"
	"CoinPulse/pkg/queue"
)

const refreshJobType = "analysis.refresh"

// RefreshPayload is the queue message asking for one symbol to be
// re-analyzed.
type RefreshPayload struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
}

// RefreshJob re-runs the analysis pipeline for a symbol so dashboard
// reads hit a warm snapshot instead of paying upstream latency.
type RefreshJob struct {
	analyzer *Analyzer
	log      *logger.Logger
}

var _ queue.Job = (*RefreshJob)(nil)

// NewRefreshJob creates the queue job handler for scheduled refreshes.
func NewRefreshJob(analyzer *Analyzer, log *logger.Logger) *RefreshJob {
	return &RefreshJob{analyzer: analyzer, log: log}
}

func (j *RefreshJob) Name() string { return "analysis-refresh" }
func (j *RefreshJob) Type() string { return refreshJobType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("refresh payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("refresh payload: empty symbol")
	}
	days := p.Days
	if days <= 0 {
		days = 90
	}

	if _, err := j.analyzer.Analyze(ctx, p.Symbol, days); err != nil {
		return fmt.Errorf("refresh %s: %w", p.Symbol, err)
	}
	j.log.Debug("refreshed analysis", logger.String("symbol", p.Symbol))
	return nil
}

// RefreshScheduler periodically enqueues refresh jobs for the
// configured symbols.
type RefreshScheduler struct {
	queue    queue.QueueService
	symbols  []string
	days     int
	interval time.Duration
	log      *logger.Logger
}

// NewRefreshScheduler creates a scheduler publishing to q every interval.
func NewRefreshScheduler(q queue.QueueService, symbols []string, days int, interval time.Duration, log *logger.Logger) *RefreshScheduler {
	if days <= 0 {
		days = 90
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshScheduler{queue: q, symbols: symbols, days: days, interval: interval, log: log}
}

// Run blocks until ctx is cancelled, enqueueing one refresh per symbol
// per tick. The first round is enqueued immediately.
func (s *RefreshScheduler) Run(ctx context.Context) {
	s.enqueueAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueueAll(ctx)
		}
	}
}

func (s *RefreshScheduler) enqueueAll(ctx context.Context) {
	for _, sym := range s.symbols {
		payload := RefreshPayload{Symbol: sym, Days: s.days}
		if err := s.queue.PublishMessage(ctx, refreshJobType, payload); err != nil {
			s.log.Error("enqueue refresh failed", logger.String("symbol", sym), logger.Error(err))
		}
	}
}
