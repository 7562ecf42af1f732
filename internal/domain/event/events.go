package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bobdeve/credit-risk-model/pkg/events"
)

const (
	// EventTypeLabelingCompleted is emitted when a proxy-target run has labeled every customer.
	EventTypeLabelingCompleted = "creditrisk.labeling.completed"

	// AggregateTypeSegmentationRun identifies the aggregate that emits labeling events.
	AggregateTypeSegmentationRun = "SegmentationRun"
)

// ClusterStats is the per-cluster breakdown carried by LabelingCompleted.
type ClusterStats struct {
	MeanRecency   string `json:"mean_recency"`
	MeanFrequency string `json:"mean_frequency"`
	MeanMonetary  string `json:"mean_monetary"`
	RiskScore     string `json:"risk_score"`
	Cluster       int    `json:"cluster"`
	Size          int    `json:"size"`
}

// LabelingCompleted is published once a segmentation run has been persisted.
type LabelingCompleted struct {
	events.BaseEvent `json:"-"`

	Snapshot          time.Time      `json:"snapshot"`
	CompletedAt       time.Time      `json:"completed_at"`
	ClusterStats      []ClusterStats `json:"clusters"`
	RunID             uuid.UUID      `json:"run_id"`
	Seed              int64          `json:"seed"`
	ClusterCount      int            `json:"cluster_count"`
	Customers         int            `json:"customers"`
	Transactions      int            `json:"transactions"`
	HighRiskCluster   int            `json:"high_risk_cluster"`
	HighRiskCustomers int            `json:"high_risk_customers"`
}

// NewLabelingCompleted builds the event and serializes its payload.
func NewLabelingCompleted(
	runID uuid.UUID,
	snapshot time.Time,
	clusterCount int,
	seed int64,
	customers, transactions int,
	highRiskCluster, highRiskCustomers int,
	stats []ClusterStats,
	completedAt time.Time,
) LabelingCompleted {
	e := LabelingCompleted{
		RunID:             runID,
		Snapshot:          snapshot,
		ClusterCount:      clusterCount,
		Seed:              seed,
		Customers:         customers,
		Transactions:      transactions,
		HighRiskCluster:   highRiskCluster,
		HighRiskCustomers: highRiskCustomers,
		ClusterStats:      stats,
		CompletedAt:       completedAt,
	}

	// Marshalling plain fields cannot fail.
	payload, _ := json.Marshal(e)
	e.BaseEvent = events.NewBaseEvent(EventTypeLabelingCompleted, runID, AggregateTypeSegmentationRun, payload)

	return e
}
