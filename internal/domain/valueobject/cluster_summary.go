package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClusterSummary holds the raw-unit RFM means of one k-means cluster.
type ClusterSummary struct {
	meanRecency   decimal.Decimal
	meanFrequency decimal.Decimal
	meanMonetary  decimal.Decimal
	cluster       int
	size          int
}

// NewClusterSummary creates a summary for a cluster id and its member means.
func NewClusterSummary(cluster, size int, meanRecency, meanFrequency, meanMonetary decimal.Decimal) (ClusterSummary, error) {
	if cluster < 0 {
		return ClusterSummary{}, fmt.Errorf("cluster id must not be negative, got %d", cluster)
	}
	if size < 0 {
		return ClusterSummary{}, fmt.Errorf("cluster size must not be negative, got %d", size)
	}
	return ClusterSummary{
		cluster:       cluster,
		size:          size,
		meanRecency:   meanRecency,
		meanFrequency: meanFrequency,
		meanMonetary:  meanMonetary,
	}, nil
}

func (c ClusterSummary) Cluster() int                   { return c.cluster }
func (c ClusterSummary) Size() int                      { return c.size }
func (c ClusterSummary) MeanRecency() decimal.Decimal   { return c.meanRecency }
func (c ClusterSummary) MeanFrequency() decimal.Decimal { return c.meanFrequency }
func (c ClusterSummary) MeanMonetary() decimal.Decimal  { return c.meanMonetary }

// IsEmpty reports whether no customer was assigned to the cluster.
func (c ClusterSummary) IsEmpty() bool {
	return c.size == 0
}

// RiskScore is mean recency minus mean frequency minus mean monetary value.
// Customers who transacted long ago, rarely and for little score highest.
func (c ClusterSummary) RiskScore() decimal.Decimal {
	return c.meanRecency.Sub(c.meanFrequency).Sub(c.meanMonetary)
}
