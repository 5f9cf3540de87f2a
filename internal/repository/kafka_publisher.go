package repository

import (
	"context"
	"fmt"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	pkgkafka "CoinPulse/pkg/kafka"
)

// KafkaPublisher emits completed analysis snapshots to a Kafka topic,
// keyed by symbol so per-symbol ordering is preserved within a partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ drepo.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, res *models.AnalysisResult) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(res.Symbol), res); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", res.Symbol, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher satisfies Publisher when event publishing is disabled.
type NoopPublisher struct{}

var _ drepo.Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) Publish(context.Context, *models.AnalysisResult) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
