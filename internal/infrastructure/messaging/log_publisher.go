package messaging

import (
	"context"
	"log/slog"

	"github.com/bobdeve/credit-risk-model/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging each event. The CLI
// uses it where no broker is available.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that writes events to logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs every event with its payload at debug level.
func (p *LogPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
		)
		p.logger.DebugContext(ctx, "event payload",
			slog.String("event_type", evt.EventType()),
			slog.String("payload", string(evt.Payload())),
		)
	}
	return nil
}
