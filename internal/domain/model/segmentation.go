package model

import (
	"github.com/bobdeve/credit-risk-model/internal/domain/valueobject"
)

// CustomerSegment is a customer's RFM profile with its cluster and proxy label.
type CustomerSegment struct {
	Label   valueobject.RiskLabel
	Profile CustomerRFMProfile
	Cluster int
}

// Segmentation is the outcome of clustering an RFM table. It holds exactly one
// segment per customer, in the order of the input profiles.
type Segmentation struct {
	Segments        []CustomerSegment
	Clusters        []valueobject.ClusterSummary
	Inertia         float64
	HighRiskCluster int
}

// LabelMapping returns the customer id to label mapping used for merging.
func (s *Segmentation) LabelMapping() map[string]valueobject.RiskLabel {
	labels := make(map[string]valueobject.RiskLabel, len(s.Segments))
	for _, seg := range s.Segments {
		labels[seg.Profile.CustomerID] = seg.Label
	}
	return labels
}

// HighRiskCount returns the number of customers labeled high risk.
func (s *Segmentation) HighRiskCount() int {
	n := 0
	for _, seg := range s.Segments {
		if seg.Label.IsHigh() {
			n++
		}
	}
	return n
}
