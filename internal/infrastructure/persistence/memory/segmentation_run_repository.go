// Package memory provides in-process adapters for one-shot CLI runs and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

// SegmentationRunRepository keeps runs in memory. It is safe for concurrent use.
type SegmentationRunRepository struct {
	runs map[uuid.UUID]*model.SegmentationRun
	mu   sync.RWMutex
}

// NewSegmentationRunRepository creates an empty repository.
func NewSegmentationRunRepository() *SegmentationRunRepository {
	return &SegmentationRunRepository{runs: make(map[uuid.UUID]*model.SegmentationRun)}
}

// Save stores the run. Saving the same run twice is an error.
func (r *SegmentationRunRepository) Save(_ context.Context, run *model.SegmentationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID()]; ok {
		return fmt.Errorf("segmentation run %s already exists", run.ID())
	}
	r.runs[run.ID()] = model.Reconstruct(run.ID(), run.Parameters(),
		run.TransactionCount(), run.CustomerCount(),
		run.HighRiskCluster(), run.HighRiskCustomers(),
		slices.Clone(run.Clusters()), slices.Clone(run.Segments()), run.CreatedAt())
	return nil
}

// FindByID returns the run without its segments, or nil, nil when absent.
func (r *SegmentationRunRepository) FindByID(_ context.Context, id uuid.UUID) (*model.SegmentationRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	return model.Reconstruct(run.ID(), run.Parameters(),
		run.TransactionCount(), run.CustomerCount(),
		run.HighRiskCluster(), run.HighRiskCustomers(),
		slices.Clone(run.Clusters()), nil, run.CreatedAt()), nil
}

// FindSegments returns the run's customer labels in input order. An unknown
// run has no labels.
func (r *SegmentationRunRepository) FindSegments(_ context.Context, runID uuid.UUID) ([]model.CustomerSegment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[runID]
	if !ok {
		return []model.CustomerSegment{}, nil
	}
	return slices.Clone(run.Segments()), nil
}

// Delete drops the run. An unknown run is ignored.
func (r *SegmentationRunRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.runs, id)
	return nil
}
