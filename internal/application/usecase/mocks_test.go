package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/pkg/events"
)

// --- Mock implementations ---

type mockTableStore struct {
	tables   map[string]*model.Table
	written  map[string]*model.Table
	readErr  error
	writeErr func(location string) error
}

func newMockTableStore() *mockTableStore {
	return &mockTableStore{
		tables:  make(map[string]*model.Table),
		written: make(map[string]*model.Table),
	}
}

func (m *mockTableStore) ReadTable(_ context.Context, location string) (*model.Table, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	t, ok := m.tables[location]
	if !ok {
		return nil, fmt.Errorf("no such table %q", location)
	}
	return t, nil
}

func (m *mockTableStore) WriteTable(_ context.Context, location string, t *model.Table) error {
	if m.writeErr != nil {
		if err := m.writeErr(location); err != nil {
			return err
		}
	}
	m.written[location] = t
	return nil
}

func (m *mockTableStore) RemoveTable(_ context.Context, location string) error {
	delete(m.written, location)
	return nil
}

type mockRunRepository struct {
	saved        *model.SegmentationRun
	saveFunc     func(ctx context.Context, run *model.SegmentationRun) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.SegmentationRun, error)
	segmentsFunc func(ctx context.Context, runID uuid.UUID) ([]model.CustomerSegment, error)
	deleted      []uuid.UUID
}

func (m *mockRunRepository) Save(ctx context.Context, run *model.SegmentationRun) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, run)
	}
	m.saved = run
	return nil
}

func (m *mockRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SegmentationRun, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRunRepository) FindSegments(ctx context.Context, runID uuid.UUID) ([]model.CustomerSegment, error) {
	if m.segmentsFunc != nil {
		return m.segmentsFunc(ctx, runID)
	}
	return nil, nil
}

func (m *mockRunRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	if m.saved != nil && m.saved.ID() == id {
		m.saved = nil
	}
	return nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockRiskModel struct {
	features map[string]any
	prob     float64
	err      error
}

func (m *mockRiskModel) PredictProbability(_ context.Context, features map[string]any) (float64, error) {
	m.features = features
	return m.prob, m.err
}

// --- Fixtures ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// transactionsTable holds three customers whose RFM profiles are
// C1 (1, 3, 60), C2 (9, 1, 10) and C3 (5, 2, 300) at snapshot 2024-01-10.
// C2 has the highest recency minus frequency minus monetary score.
func transactionsTable(t *testing.T) *model.Table {
	t.Helper()
	tbl, err := model.NewTable(
		[]string{"TransactionId", "BatchId", "CustomerId", "ProductId", "Value", "TransactionStartTime"},
		[][]string{
			{"T1", "B1", "C1", "P1", "20", "2024-01-09T00:00:00Z"},
			{"T2", "B1", "C2", "P2", "10", "2024-01-01T00:00:00Z"},
			{"T3", "B2", "C1", "P1", "20", "2024-01-09T00:00:00Z"},
			{"T4", "B2", "C3", "P3", "100", "2024-01-05T00:00:00Z"},
			{"T5", "B3", "C1", "P2", "20", "2024-01-09T00:00:00Z"},
			{"T6", "B3", "C3", "P3", "200", "2024-01-05T00:00:00Z"},
		},
	)
	require.NoError(t, err)
	return tbl
}
