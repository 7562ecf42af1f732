package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
	"github.com/bobdeve/credit-risk-model/pkg/testutil"
)

func TestNewSegmentationRunRepository(t *testing.T) {
	repo := NewSegmentationRunRepository(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.pool)
}

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "-1005", "333.3333333333333333", "1e-7"} {
		d := decimal.RequireFromString(s)
		back, err := fromNumeric(toNumeric(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(back), s)
	}
}

func profile(id string, r, f int, m int64) model.CustomerRFMProfile {
	return model.CustomerRFMProfile{CustomerID: id, Recency: r, Frequency: f, Monetary: decimal.NewFromInt(m)}
}

func TestSegmentationRunRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pg := testutil.NewPostgresContainer(ctx, t)
	defer pg.Cleanup(t)
	pg.RunMigrations(t, "../../../../migrations")

	repo := NewSegmentationRunRepository(pg.Pool)

	profiles := []model.CustomerRFMProfile{
		profile("C1", 5, 10, 1000),
		profile("C2", 90, 1, 10),
		profile("C3", 45, 5, 500),
		profile("C4", 6, 9, 1100),
	}
	seg, err := service.NewRiskSegmenter().Segment(profiles, 3, 42)
	require.NoError(t, err)

	run, err := model.NewSegmentationRun(model.RunParameters{
		Snapshot:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		ValueColumn:  "Value",
		Seed:         42,
		ClusterCount: 3,
	}, 12, seg)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, run))

	t.Run("finds run with clusters", func(t *testing.T) {
		got, err := repo.FindByID(ctx, run.ID())
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, run.Parameters(), got.Parameters())
		assert.Equal(t, 12, got.TransactionCount())
		assert.Equal(t, 4, got.CustomerCount())
		assert.Equal(t, run.HighRiskCluster(), got.HighRiskCluster())
		require.Len(t, got.Clusters(), 3)
		for i, c := range got.Clusters() {
			assert.Equal(t, run.Clusters()[i].Size(), c.Size())
			assert.True(t, run.Clusters()[i].RiskScore().Equal(c.RiskScore()))
		}
		assert.Nil(t, got.Segments())
	})

	t.Run("finds labels in input order", func(t *testing.T) {
		segments, err := repo.FindSegments(ctx, run.ID())
		require.NoError(t, err)
		require.Len(t, segments, 4)
		for i, s := range segments {
			assert.Equal(t, profiles[i].CustomerID, s.Profile.CustomerID)
			assert.True(t, profiles[i].Monetary.Equal(s.Profile.Monetary))
			assert.Equal(t, seg.Segments[i].Label, s.Label)
			assert.Equal(t, seg.Segments[i].Cluster, s.Cluster)
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		got, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate save rolls back", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, run))

		segments, err := repo.FindSegments(ctx, run.ID())
		require.NoError(t, err)
		assert.Len(t, segments, 4)
	})

	t.Run("delete cascades to labels", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, run.ID()))

		got, err := repo.FindByID(ctx, run.ID())
		require.NoError(t, err)
		assert.Nil(t, got)

		segments, err := repo.FindSegments(ctx, run.ID())
		require.NoError(t, err)
		assert.Empty(t, segments)

		assert.NoError(t, repo.Delete(ctx, run.ID()))
	})
}
