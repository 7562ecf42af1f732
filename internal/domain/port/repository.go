package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/pkg/events"
)

// SegmentationRunRepository defines the persistence port for segmentation runs.
type SegmentationRunRepository interface {
	// Save persists a run together with its cluster summaries and customer labels.
	Save(ctx context.Context, run *model.SegmentationRun) error

	// FindByID retrieves a run and its cluster summaries. Segments are not loaded.
	// Returns nil, nil when no run exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.SegmentationRun, error)

	// FindSegments retrieves the per-customer labels of a run in input order.
	FindSegments(ctx context.Context, runID uuid.UUID) ([]model.CustomerSegment, error)

	// Delete removes a run with its summaries and labels. Deleting an unknown
	// run is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TableReader loads a tabular dataset from a location.
type TableReader interface {
	ReadTable(ctx context.Context, location string) (*model.Table, error)
}

// TableWriter stores a tabular dataset at a location. Implementations must not
// leave a partial dataset behind when they fail.
type TableWriter interface {
	WriteTable(ctx context.Context, location string, table *model.Table) error

	// RemoveTable deletes a dataset. A missing dataset is not an error.
	RemoveTable(ctx context.Context, location string) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// RiskModel scores a single applicant record with a pre-fit model.
type RiskModel interface {
	// PredictProbability returns the probability of the positive (high risk) class.
	PredictProbability(ctx context.Context, features map[string]any) (float64, error)
}
