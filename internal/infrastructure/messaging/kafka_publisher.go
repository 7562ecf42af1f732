package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bobdeve/credit-risk-model/pkg/events"
	"github.com/bobdeve/credit-risk-model/pkg/kafka"
)

// MessageProducer is the subset of *kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaPublisher implements port.EventPublisher using Kafka. Events are keyed
// by aggregate id so a run's events stay on one partition.
type KafkaPublisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka in a single batch.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		msgs = append(msgs, kafka.Message{
			Key:     []byte(evt.AggregateID().String()),
			Value:   evt.Payload(),
			Headers: events.Headers(evt),
		})
	}

	if err := p.producer.Publish(ctx, p.topic, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d events to %s: %w", len(evts), p.topic, err)
	}

	for _, evt := range evts {
		p.logger.InfoContext(ctx, "event published",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
			slog.String("topic", p.topic),
		)
	}
	return nil
}
