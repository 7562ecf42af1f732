package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobdeve/credit-risk-model/internal/domain/event"
	"github.com/bobdeve/credit-risk-model/internal/domain/valueobject"
	"github.com/bobdeve/credit-risk-model/pkg/events"
)

// SegmentationRun is the aggregate root recording one proxy-target labeling run.
type SegmentationRun struct {
	events.EventCollector

	snapshot          time.Time
	createdAt         time.Time
	valueColumn       string
	clusters          []valueobject.ClusterSummary
	segments          []CustomerSegment
	seed              int64
	clusterCount      int
	transactionCount  int
	customerCount     int
	highRiskCluster   int
	highRiskCustomers int
	id                uuid.UUID
}

// RunParameters are the inputs that, together with the source data, fully
// determine a run's labels.
type RunParameters struct {
	Snapshot     time.Time
	ValueColumn  string
	Seed         int64
	ClusterCount int
}

// NewSegmentationRun records a completed segmentation and emits LabelingCompleted.
func NewSegmentationRun(params RunParameters, transactionCount int, seg *Segmentation) (*SegmentationRun, error) {
	if seg == nil {
		return nil, fmt.Errorf("segmentation is required")
	}
	if params.ClusterCount < 1 {
		return nil, &InvalidClusterCountError{Clusters: params.ClusterCount}
	}
	if len(seg.Clusters) != params.ClusterCount {
		return nil, fmt.Errorf("segmentation has %d clusters, run expects %d", len(seg.Clusters), params.ClusterCount)
	}
	if params.Snapshot.IsZero() {
		return nil, fmt.Errorf("snapshot is required")
	}
	if transactionCount < len(seg.Segments) {
		return nil, fmt.Errorf("transaction count %d is below customer count %d", transactionCount, len(seg.Segments))
	}

	run := &SegmentationRun{
		id:                uuid.New(),
		snapshot:          params.Snapshot.UTC(),
		valueColumn:       params.ValueColumn,
		seed:              params.Seed,
		clusterCount:      params.ClusterCount,
		transactionCount:  transactionCount,
		customerCount:     len(seg.Segments),
		highRiskCluster:   seg.HighRiskCluster,
		highRiskCustomers: seg.HighRiskCount(),
		clusters:          seg.Clusters,
		segments:          seg.Segments,
		createdAt:         time.Now().UTC(),
	}

	run.Record(event.NewLabelingCompleted(
		run.id, run.snapshot, run.clusterCount, run.seed,
		run.customerCount, run.transactionCount,
		run.highRiskCluster, run.highRiskCustomers,
		clusterStats(run.clusters), run.createdAt,
	))

	return run, nil
}

// Reconstruct rebuilds a SegmentationRun from persisted data (no validation, no events).
// Segments are loaded separately and may be nil.
func Reconstruct(
	id uuid.UUID,
	params RunParameters,
	transactionCount, customerCount int,
	highRiskCluster, highRiskCustomers int,
	clusters []valueobject.ClusterSummary,
	segments []CustomerSegment,
	createdAt time.Time,
) *SegmentationRun {
	return &SegmentationRun{
		id:                id,
		snapshot:          params.Snapshot,
		valueColumn:       params.ValueColumn,
		seed:              params.Seed,
		clusterCount:      params.ClusterCount,
		transactionCount:  transactionCount,
		customerCount:     customerCount,
		highRiskCluster:   highRiskCluster,
		highRiskCustomers: highRiskCustomers,
		clusters:          clusters,
		segments:          segments,
		createdAt:         createdAt,
	}
}

// --- Accessors ---

func (r *SegmentationRun) ID() uuid.UUID                          { return r.id }
func (r *SegmentationRun) Snapshot() time.Time                    { return r.snapshot }
func (r *SegmentationRun) ValueColumn() string                    { return r.valueColumn }
func (r *SegmentationRun) Seed() int64                            { return r.seed }
func (r *SegmentationRun) ClusterCount() int                      { return r.clusterCount }
func (r *SegmentationRun) TransactionCount() int                  { return r.transactionCount }
func (r *SegmentationRun) CustomerCount() int                     { return r.customerCount }
func (r *SegmentationRun) HighRiskCluster() int                   { return r.highRiskCluster }
func (r *SegmentationRun) HighRiskCustomers() int                 { return r.highRiskCustomers }
func (r *SegmentationRun) Clusters() []valueobject.ClusterSummary { return r.clusters }
func (r *SegmentationRun) Segments() []CustomerSegment            { return r.segments }
func (r *SegmentationRun) CreatedAt() time.Time                   { return r.createdAt }

// Parameters returns the inputs the run was produced with.
func (r *SegmentationRun) Parameters() RunParameters {
	return RunParameters{
		Snapshot:     r.snapshot,
		ValueColumn:  r.valueColumn,
		Seed:         r.seed,
		ClusterCount: r.clusterCount,
	}
}

// DomainEvents returns all accumulated domain events and clears them.
func (r *SegmentationRun) DomainEvents() []events.DomainEvent {
	return r.ClearEvents()
}

func clusterStats(clusters []valueobject.ClusterSummary) []event.ClusterStats {
	stats := make([]event.ClusterStats, len(clusters))
	for i, c := range clusters {
		stats[i] = event.ClusterStats{
			Cluster:       c.Cluster(),
			Size:          c.Size(),
			MeanRecency:   c.MeanRecency().String(),
			MeanFrequency: c.MeanFrequency().String(),
			MeanMonetary:  c.MeanMonetary().String(),
			RiskScore:     c.RiskScore().String(),
		}
	}
	return stats
}
