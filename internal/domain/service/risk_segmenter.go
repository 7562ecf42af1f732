package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/valueobject"
)

// Defaults used when a run does not specify clustering parameters.
const (
	DefaultClusterCount = 3
	DefaultSeed         = 42
)

// SegmenterOption configures a RiskSegmenter.
type SegmenterOption func(*RiskSegmenter)

// WithMaxIterations caps the Lloyd iterations per initialisation.
func WithMaxIterations(n int) SegmenterOption {
	return func(s *RiskSegmenter) { s.maxIterations = n }
}

// WithTolerance sets the relative convergence tolerance.
func WithTolerance(tol float64) SegmenterOption {
	return func(s *RiskSegmenter) { s.tolerance = tol }
}

// WithRestarts sets how many seeded initialisations are tried.
func WithRestarts(n int) SegmenterOption {
	return func(s *RiskSegmenter) { s.restarts = n }
}

// RiskSegmenter clusters customers on standardized RFM features and labels
// the least engaged cluster as high risk.
type RiskSegmenter struct {
	tolerance     float64
	maxIterations int
	restarts      int
}

// NewRiskSegmenter creates a new RiskSegmenter.
func NewRiskSegmenter(opts ...SegmenterOption) *RiskSegmenter {
	s := &RiskSegmenter{
		tolerance:     defaultTolerance,
		maxIterations: defaultMaxIterations,
		restarts:      1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment assigns every profile to one of k clusters and labels the members of
// the cluster with the highest risk score. Ties between clusters resolve to the
// lowest cluster id. Clusters that end up empty are reported with size zero and
// are never selected.
func (s *RiskSegmenter) Segment(profiles []model.CustomerRFMProfile, k int, seed int64) (*model.Segmentation, error) {
	if k < 1 {
		return nil, &model.InvalidClusterCountError{Clusters: k}
	}

	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if _, dup := seen[p.CustomerID]; dup {
			return nil, &model.DuplicateCustomerError{CustomerID: p.CustomerID}
		}
		seen[p.CustomerID] = struct{}{}
	}
	if k > len(profiles) {
		return nil, &model.InsufficientDataError{Clusters: k, Customers: len(profiles)}
	}

	recency := make([]float64, len(profiles))
	frequency := make([]float64, len(profiles))
	monetary := make([]float64, len(profiles))
	for i, p := range profiles {
		recency[i] = float64(p.Recency)
		frequency[i] = float64(p.Frequency)
		monetary[i] = p.Monetary.InexactFloat64()
	}

	result, err := KMeans(StandardizeColumns(recency, frequency, monetary), KMeansConfig{
		Clusters:      k,
		Seed:          seed,
		Tolerance:     s.tolerance,
		MaxIterations: s.maxIterations,
		Restarts:      s.restarts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cluster RFM profiles: %w", err)
	}

	summaries, err := SummarizeClusters(profiles, result.Labels, k)
	if err != nil {
		return nil, err
	}

	highRisk, ok := SelectHighRiskCluster(summaries)
	if !ok {
		return nil, fmt.Errorf("no non-empty cluster to select")
	}

	segments := make([]model.CustomerSegment, len(profiles))
	for i, p := range profiles {
		segments[i] = model.CustomerSegment{
			Profile: p,
			Cluster: result.Labels[i],
			Label:   valueobject.RiskLabelFromBool(result.Labels[i] == highRisk),
		}
	}

	return &model.Segmentation{
		Segments:        segments,
		Clusters:        summaries,
		HighRiskCluster: highRisk,
		Inertia:         result.Inertia,
	}, nil
}

// SummarizeClusters computes raw-unit RFM means for clusters 0..k-1.
func SummarizeClusters(profiles []model.CustomerRFMProfile, labels []int, k int) ([]valueobject.ClusterSummary, error) {
	if len(labels) != len(profiles) {
		return nil, fmt.Errorf("got %d labels for %d profiles", len(labels), len(profiles))
	}

	type totals struct {
		recency, frequency, monetary decimal.Decimal
		size                         int
	}
	acc := make([]totals, k)
	for i, p := range profiles {
		c := labels[i]
		if c < 0 || c >= k {
			return nil, fmt.Errorf("cluster label %d out of range [0,%d)", c, k)
		}
		acc[c].recency = acc[c].recency.Add(decimal.NewFromInt(int64(p.Recency)))
		acc[c].frequency = acc[c].frequency.Add(decimal.NewFromInt(int64(p.Frequency)))
		acc[c].monetary = acc[c].monetary.Add(p.Monetary)
		acc[c].size++
	}

	summaries := make([]valueobject.ClusterSummary, k)
	for c, t := range acc {
		meanR, meanF, meanM := decimal.Zero, decimal.Zero, decimal.Zero
		if t.size > 0 {
			n := decimal.NewFromInt(int64(t.size))
			meanR = t.recency.Div(n)
			meanF = t.frequency.Div(n)
			meanM = t.monetary.Div(n)
		}
		summary, err := valueobject.NewClusterSummary(c, t.size, meanR, meanF, meanM)
		if err != nil {
			return nil, err
		}
		summaries[c] = summary
	}
	return summaries, nil
}

// SelectHighRiskCluster returns the non-empty cluster with the maximum risk
// score, taking the lowest id among equal scores.
func SelectHighRiskCluster(summaries []valueobject.ClusterSummary) (int, bool) {
	best := -1
	var bestScore decimal.Decimal
	for _, s := range summaries {
		if s.IsEmpty() {
			continue
		}
		score := s.RiskScore()
		if best < 0 || score.GreaterThan(bestScore) {
			best, bestScore = s.Cluster(), score
		}
	}
	return best, best >= 0
}
