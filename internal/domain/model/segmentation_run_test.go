package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/domain/event"
	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/valueobject"
)

func testSegmentation(t *testing.T) *model.Segmentation {
	t.Helper()
	low, err := valueobject.NewClusterSummary(0, 1, decimal.NewFromInt(2), decimal.NewFromInt(9), decimal.NewFromInt(900))
	require.NoError(t, err)
	high, err := valueobject.NewClusterSummary(1, 1, decimal.NewFromInt(60), decimal.NewFromInt(1), decimal.NewFromInt(5))
	require.NoError(t, err)

	return &model.Segmentation{
		Segments: []model.CustomerSegment{
			{Profile: model.CustomerRFMProfile{CustomerID: "A", Recency: 2, Frequency: 9, Monetary: decimal.NewFromInt(900)}, Cluster: 0, Label: valueobject.RiskLabelLow},
			{Profile: model.CustomerRFMProfile{CustomerID: "B", Recency: 60, Frequency: 1, Monetary: decimal.NewFromInt(5)}, Cluster: 1, Label: valueobject.RiskLabelHigh},
		},
		Clusters:        []valueobject.ClusterSummary{low, high},
		HighRiskCluster: 1,
	}
}

func testParams() model.RunParameters {
	return model.RunParameters{
		Snapshot:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ValueColumn:  "Value",
		Seed:         42,
		ClusterCount: 2,
	}
}

func TestNewSegmentationRun(t *testing.T) {
	t.Run("records a completed run", func(t *testing.T) {
		run, err := model.NewSegmentationRun(testParams(), 10, testSegmentation(t))

		require.NoError(t, err)
		assert.NotEmpty(t, run.ID())
		assert.Equal(t, 2, run.CustomerCount())
		assert.Equal(t, 10, run.TransactionCount())
		assert.Equal(t, 1, run.HighRiskCluster())
		assert.Equal(t, 1, run.HighRiskCustomers())
		assert.Equal(t, testParams(), run.Parameters())
		assert.Len(t, run.Segments(), 2)
	})

	t.Run("emits labeling completed once", func(t *testing.T) {
		run, err := model.NewSegmentationRun(testParams(), 10, testSegmentation(t))
		require.NoError(t, err)

		evts := run.DomainEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, event.EventTypeLabelingCompleted, evts[0].EventType())
		assert.Equal(t, run.ID(), evts[0].AggregateID())
		assert.Equal(t, event.AggregateTypeSegmentationRun, evts[0].AggregateType())
		assert.Contains(t, string(evts[0].Payload()), `"high_risk_cluster":1`)
		assert.Contains(t, string(evts[0].Payload()), `"risk_score":"54"`)

		assert.Empty(t, run.DomainEvents())
	})

	t.Run("rejects mismatched cluster count", func(t *testing.T) {
		params := testParams()
		params.ClusterCount = 3

		_, err := model.NewSegmentationRun(params, 10, testSegmentation(t))
		assert.Error(t, err)
	})

	t.Run("rejects fewer transactions than customers", func(t *testing.T) {
		_, err := model.NewSegmentationRun(testParams(), 1, testSegmentation(t))
		assert.Error(t, err)
	})

	t.Run("rejects missing segmentation", func(t *testing.T) {
		_, err := model.NewSegmentationRun(testParams(), 1, nil)
		assert.Error(t, err)
	})

	t.Run("reconstruct emits nothing", func(t *testing.T) {
		run := model.Reconstruct(
			uuid.New(), testParams(), 10, 2, 1, 1,
			testSegmentation(t).Clusters, nil, time.Now(),
		)
		assert.Empty(t, run.DomainEvents())
		assert.Nil(t, run.Segments())
	})
}
