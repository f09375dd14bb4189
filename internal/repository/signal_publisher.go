package repository

import (
	"context"
	"fmt"
	"strconv"

	"InsideX/internal/domain/models"
	"InsideX/internal/domain/repository"
)

// Publisher is the keyed message producer of pkg/kafka.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaSignalPublisher ships top-signal snapshots to a topic, keyed by
// window so consumers can compact per window.
type KafkaSignalPublisher struct {
	producer Publisher
	topic    string
}

var _ repository.SignalPublisher = (*KafkaSignalPublisher)(nil)

func NewKafkaSignalPublisher(p Publisher, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: p, topic: topic}
}

func (p *KafkaSignalPublisher) PublishSignals(ctx context.Context, resp *models.TopSignalsResponse) error {
	key := []byte(strconv.Itoa(resp.WindowDays))
	if err := p.producer.Publish(ctx, p.topic, key, resp); err != nil {
		return fmt.Errorf("publish %dd signals: %w", resp.WindowDays, err)
	}
	return nil
}
