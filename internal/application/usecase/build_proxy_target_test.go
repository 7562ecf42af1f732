package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
	"github.com/bobdeve/credit-risk-model/internal/domain/event"
	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
	"github.com/bobdeve/credit-risk-model/pkg/events"
)

func newBuildProxyTarget(store *mockTableStore, repo *mockRunRepository, pub *mockEventPublisher) *usecase.BuildProxyTarget {
	return usecase.NewBuildProxyTarget(store, store, repo, pub,
		service.NewRiskSegmenter(), usecase.DefaultLabelingDefaults(), discardLogger())
}

func TestBuildProxyTarget_Execute(t *testing.T) {
	t.Run("labels every transaction and records the run", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)
		repo := &mockRunRepository{}
		pub := &mockEventPublisher{}

		resp, err := newBuildProxyTarget(store, repo, pub).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:  "in.csv",
			OutputPath: "out.csv",
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), resp.Snapshot)
		assert.Equal(t, 3, resp.ClusterCount)
		assert.Equal(t, int64(42), resp.Seed)
		assert.Equal(t, 6, resp.TransactionCount)
		assert.Equal(t, 3, resp.CustomerCount)
		assert.Equal(t, 1, resp.HighRiskCustomers)
		assert.Equal(t, "out.csv", resp.OutputPath)

		out := store.written["out.csv"]
		require.NotNil(t, out)
		assert.Equal(t, 6, out.Len())
		labels, err := out.Column(service.RiskLabelColumn)
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1", "0", "0", "0", "0"}, labels)

		require.NotNil(t, repo.saved)
		assert.Equal(t, resp.ID, repo.saved.ID())
		require.Len(t, pub.published, 1)
		assert.Equal(t, event.EventTypeLabelingCompleted, pub.published[0].EventType())
	})

	t.Run("honours explicit snapshot seed and value column", func(t *testing.T) {
		tbl, err := model.NewTable(
			[]string{"CustomerId", "TransactionId", "TransactionStartTime", "Amount"},
			[][]string{
				{"A", "T1", "2024-03-01", "5"},
				{"B", "T2", "2024-03-02", "7"},
			},
		)
		require.NoError(t, err)
		store := newMockTableStore()
		store.tables["in.csv"] = tbl
		repo := &mockRunRepository{}
		seed := int64(7)
		snapshot := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

		resp, err := newBuildProxyTarget(store, repo, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:   "in.csv",
			ValueColumn: "Amount",
			Snapshot:    snapshot,
			Seed:        &seed,
			Clusters:    2,
		})
		require.NoError(t, err)

		assert.Equal(t, snapshot, resp.Snapshot)
		assert.Equal(t, "Amount", resp.ValueColumn)
		assert.Equal(t, int64(7), resp.Seed)
		assert.Len(t, resp.Clusters, 2)
		assert.Empty(t, store.written, "no output path means nothing is written")
	})

	t.Run("zero snapshot offset measures from the latest transaction", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)
		offset := time.Duration(0)

		resp, err := newBuildProxyTarget(store, &mockRunRepository{}, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:      "in.csv",
			SnapshotOffset: &offset,
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), resp.Snapshot)
	})

	t.Run("missing value column is reported", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)

		_, err := newBuildProxyTarget(store, &mockRunRepository{}, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:   "in.csv",
			OutputPath:  "out.csv",
			ValueColumn: "Amount",
		})

		var missing *model.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Amount", missing.Column)
		assert.Empty(t, store.written)
	})

	t.Run("too many clusters fails without writing", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)
		repo := &mockRunRepository{}

		_, err := newBuildProxyTarget(store, repo, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:  "in.csv",
			OutputPath: "out.csv",
			Clusters:   4,
		})

		var insufficient *model.InsufficientDataError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 4, insufficient.Clusters)
		assert.Equal(t, 3, insufficient.Customers)
		assert.Empty(t, store.written)
		assert.Nil(t, repo.saved)
	})

	t.Run("negative cluster count is rejected", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)

		_, err := newBuildProxyTarget(store, &mockRunRepository{}, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath: "in.csv",
			Clusters:  -1,
		})

		var invalid *model.InvalidClusterCountError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("fails when reading fails", func(t *testing.T) {
		store := newMockTableStore()
		store.readErr = model.ErrEmptyInput

		_, err := newBuildProxyTarget(store, &mockRunRepository{}, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{InputPath: "in.csv"})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrEmptyInput)
		assert.Contains(t, err.Error(), "failed to read transactions")
	})

	t.Run("fails when writing fails", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)
		store.writeErr = func(string) error { return errors.New("disk full") }
		repo := &mockRunRepository{}

		_, err := newBuildProxyTarget(store, repo, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:  "in.csv",
			OutputPath: "out.csv",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write labeled transactions")
		assert.Nil(t, repo.saved)
	})

	t.Run("fails when repository save fails", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)
		repo := &mockRunRepository{
			saveFunc: func(context.Context, *model.SegmentationRun) error {
				return fmt.Errorf("database unavailable")
			},
		}
		pub := &mockEventPublisher{}

		_, err := newBuildProxyTarget(store, repo, pub).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:  "in.csv",
			OutputPath: "out.csv",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save segmentation run")
		assert.Empty(t, pub.published)
		assert.Empty(t, store.written)
	})

	t.Run("fails when event publishing fails", func(t *testing.T) {
		store := newMockTableStore()
		store.tables["in.csv"] = transactionsTable(t)
		pub := &mockEventPublisher{
			publishFunc: func(context.Context, ...events.DomainEvent) error {
				return fmt.Errorf("kafka unavailable")
			},
		}

		repo := &mockRunRepository{}

		_, err := newBuildProxyTarget(store, repo, pub).Execute(context.Background(), dto.BuildProxyTargetRequest{
			InputPath:  "in.csv",
			OutputPath: "out.csv",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish events")
		assert.Empty(t, store.written)
		assert.Nil(t, repo.saved)
		assert.Len(t, repo.deleted, 1)
	})

	t.Run("same input and seed give identical labels", func(t *testing.T) {
		var outputs [][]string
		for range 2 {
			store := newMockTableStore()
			store.tables["in.csv"] = transactionsTable(t)
			_, err := newBuildProxyTarget(store, &mockRunRepository{}, &mockEventPublisher{}).Execute(context.Background(), dto.BuildProxyTargetRequest{
				InputPath:  "in.csv",
				OutputPath: "out.csv",
				Clusters:   2,
			})
			require.NoError(t, err)
			labels, err := store.written["out.csv"].Column(service.RiskLabelColumn)
			require.NoError(t, err)
			outputs = append(outputs, labels)
		}
		assert.Equal(t, outputs[0], outputs[1])
	})
}
