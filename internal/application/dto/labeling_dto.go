package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

// BuildProxyTargetRequest is the input DTO for the BuildProxyTarget use case.
// Zero values fall back to the configured defaults; Seed is a pointer because
// zero is a valid seed.
type BuildProxyTargetRequest struct {
	Snapshot       time.Time      `json:"snapshot,omitempty"`
	Seed           *int64         `json:"seed,omitempty"`
	SnapshotOffset *time.Duration `json:"snapshot_offset,omitempty"`
	InputPath      string         `json:"input_path"`
	OutputPath     string         `json:"output_path,omitempty"`
	ValueColumn    string         `json:"value_column,omitempty"`
	Clusters       int            `json:"clusters,omitempty"`
}

// GetSegmentationRunRequest is the input DTO for retrieving a stored run.
type GetSegmentationRunRequest struct {
	RunID         uuid.UUID `json:"run_id"`
	IncludeLabels bool      `json:"include_labels"`
}

// ClusterResponse describes one cluster of a run in raw RFM units.
type ClusterResponse struct {
	MeanRecency   string `json:"mean_recency"`
	MeanFrequency string `json:"mean_frequency"`
	MeanMonetary  string `json:"mean_monetary"`
	RiskScore     string `json:"risk_score"`
	Cluster       int    `json:"cluster"`
	Size          int    `json:"size"`
	HighRisk      bool   `json:"high_risk"`
}

// CustomerLabelResponse is one customer's profile, cluster and proxy label.
type CustomerLabelResponse struct {
	CustomerID string `json:"customer_id"`
	Monetary   string `json:"monetary"`
	Recency    int    `json:"recency"`
	Frequency  int    `json:"frequency"`
	Cluster    int    `json:"cluster"`
	IsHighRisk int    `json:"is_high_risk"`
}

// SegmentationRunResponse is the output DTO for labeling runs.
type SegmentationRunResponse struct {
	Snapshot          time.Time               `json:"snapshot"`
	CreatedAt         time.Time               `json:"created_at"`
	Clusters          []ClusterResponse       `json:"clusters"`
	Labels            []CustomerLabelResponse `json:"labels,omitempty"`
	ID                uuid.UUID               `json:"id"`
	ValueColumn       string                  `json:"value_column"`
	OutputPath        string                  `json:"output_path,omitempty"`
	Seed              int64                   `json:"seed"`
	ClusterCount      int                     `json:"cluster_count"`
	TransactionCount  int                     `json:"transaction_count"`
	CustomerCount     int                     `json:"customer_count"`
	HighRiskCluster   int                     `json:"high_risk_cluster"`
	HighRiskCustomers int                     `json:"high_risk_customers"`
}

// FromModel maps a run to the response DTO. Labels are included only when
// the run carries segments.
func FromModel(r *model.SegmentationRun) SegmentationRunResponse {
	clusters := make([]ClusterResponse, len(r.Clusters()))
	for i, c := range r.Clusters() {
		clusters[i] = ClusterResponse{
			Cluster:       c.Cluster(),
			Size:          c.Size(),
			MeanRecency:   c.MeanRecency().String(),
			MeanFrequency: c.MeanFrequency().String(),
			MeanMonetary:  c.MeanMonetary().String(),
			RiskScore:     c.RiskScore().String(),
			HighRisk:      c.Cluster() == r.HighRiskCluster(),
		}
	}

	return SegmentationRunResponse{
		ID:                r.ID(),
		Snapshot:          r.Snapshot(),
		ValueColumn:       r.ValueColumn(),
		Seed:              r.Seed(),
		ClusterCount:      r.ClusterCount(),
		TransactionCount:  r.TransactionCount(),
		CustomerCount:     r.CustomerCount(),
		HighRiskCluster:   r.HighRiskCluster(),
		HighRiskCustomers: r.HighRiskCustomers(),
		Clusters:          clusters,
		Labels:            FromSegments(r.Segments()),
		CreatedAt:         r.CreatedAt(),
	}
}

// FromSegments maps customer segments to label DTOs. A nil input yields nil.
func FromSegments(segments []model.CustomerSegment) []CustomerLabelResponse {
	if segments == nil {
		return nil
	}
	labels := make([]CustomerLabelResponse, len(segments))
	for i, s := range segments {
		labels[i] = CustomerLabelResponse{
			CustomerID: s.Profile.CustomerID,
			Recency:    s.Profile.Recency,
			Frequency:  s.Profile.Frequency,
			Monetary:   s.Profile.Monetary.String(),
			Cluster:    s.Cluster,
			IsHighRisk: s.Label.Int(),
		}
	}
	return labels
}
