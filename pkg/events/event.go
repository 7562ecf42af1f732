// Package events defines the domain event contract shared by aggregates and
// the messaging adapters that publish them.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Standard message header keys carried with every published event.
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderOccurredAt    = "occurred_at"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent provides a default implementation of DomainEvent. Concrete events
// embed it and supply their serialized form as the payload.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	payload       []byte
	id            uuid.UUID
	aggregateID   uuid.UUID
}

// NewBaseEvent creates a new BaseEvent with a generated UUID and the current time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    time.Now().UTC(),
		payload:       payload,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) Payload() []byte        { return e.payload }

// Headers returns the routing metadata of an event as message headers.
func Headers(e DomainEvent) map[string]string {
	return map[string]string{
		HeaderEventID:       e.EventID().String(),
		HeaderEventType:     e.EventType(),
		HeaderAggregateType: e.AggregateType(),
		HeaderOccurredAt:    e.OccurredAt().Format(time.RFC3339Nano),
	}
}

// EventCollector is embedded in aggregates to buffer the events raised by
// state transitions until the aggregate has been persisted.
type EventCollector struct {
	pending []DomainEvent
}

// Record buffers one or more events.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Pending returns the buffered events without clearing them.
func (c *EventCollector) Pending() []DomainEvent {
	return c.pending
}

// ClearEvents returns the buffered events and resets the collector.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.pending
	c.pending = nil
	return collected
}
