package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/port"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
)

// LabelingDefaults fill in request fields left at their zero value.
type LabelingDefaults struct {
	ValueColumn    string
	Clusters       int
	Seed           int64
	SnapshotOffset time.Duration
}

// DefaultLabelingDefaults returns three clusters, seed 42, the Value column
// and a snapshot one day after the latest transaction.
func DefaultLabelingDefaults() LabelingDefaults {
	return LabelingDefaults{
		ValueColumn:    model.DefaultValueColumn,
		Clusters:       service.DefaultClusterCount,
		Seed:           service.DefaultSeed,
		SnapshotOffset: 24 * time.Hour,
	}
}

// BuildProxyTarget derives the is_high_risk proxy label from a transaction
// file, writes the labeled file, records the run and announces it.
type BuildProxyTarget struct {
	reader    port.TableReader
	writer    port.TableWriter
	repo      port.SegmentationRunRepository
	publisher port.EventPublisher
	extractor *service.RFMExtractor
	segmenter *service.RiskSegmenter
	merger    *service.LabelMerger
	logger    *slog.Logger
	metrics   runMetrics
	defaults  LabelingDefaults
}

// NewBuildProxyTarget creates a new BuildProxyTarget use case.
func NewBuildProxyTarget(
	reader port.TableReader,
	writer port.TableWriter,
	repo port.SegmentationRunRepository,
	publisher port.EventPublisher,
	segmenter *service.RiskSegmenter,
	defaults LabelingDefaults,
	logger *slog.Logger,
) *BuildProxyTarget {
	return &BuildProxyTarget{
		reader:    reader,
		writer:    writer,
		repo:      repo,
		publisher: publisher,
		extractor: service.NewRFMExtractor(),
		segmenter: segmenter,
		merger:    service.NewLabelMerger(),
		logger:    logger,
		metrics:   newRunMetrics(),
		defaults:  defaults,
	}
}

// Execute runs the labeling pipeline. A failed run leaves no output dataset
// and no stored run behind.
func (uc *BuildProxyTarget) Execute(ctx context.Context, req dto.BuildProxyTargetRequest) (resp dto.SegmentationRunResponse, err error) {
	req = uc.applyDefaults(req)

	ctx, span := tracer.Start(ctx, "BuildProxyTarget", trace.WithAttributes(
		attribute.String("input_path", req.InputPath),
		attribute.Int("clusters", req.Clusters),
		attribute.Int64("seed", *req.Seed),
	))
	start := time.Now()
	defer func() {
		uc.metrics.runs.Add(ctx, 1, metric.WithAttributes(outcome(err)))
		uc.metrics.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(outcome(err)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// 1. Load and parse the transactions.
	table, err := uc.reader.ReadTable(ctx, req.InputPath)
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to read transactions: %w", err)
	}

	schema := model.DefaultTransactionSchema().WithValueColumn(req.ValueColumn)
	txns, err := model.ParseTransactions(table, schema)
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to parse transactions: %w", err)
	}

	snapshot, err := resolveSnapshot(txns, req.Snapshot, *req.SnapshotOffset)
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to resolve snapshot: %w", err)
	}

	// 2. Extract RFM profiles and segment them.
	profiles := uc.extractor.Extract(txns, snapshot)

	seg, err := uc.segmenter.Segment(profiles, req.Clusters, *req.Seed)
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to segment customers: %w", err)
	}

	// 3. Merge labels back onto every transaction row.
	labeled, err := uc.merger.Merge(table, schema.CustomerColumn, seg.LabelMapping())
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to merge labels: %w", err)
	}

	run, err := model.NewSegmentationRun(model.RunParameters{
		Snapshot:     snapshot,
		ValueColumn:  schema.ValueColumn,
		Seed:         *req.Seed,
		ClusterCount: req.Clusters,
	}, len(txns), seg)
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to create segmentation run: %w", err)
	}

	// 4. Write the labeled dataset.
	if req.OutputPath != "" {
		if err := uc.writer.WriteTable(ctx, req.OutputPath, labeled); err != nil {
			return dto.SegmentationRunResponse{}, fmt.Errorf("failed to write labeled transactions: %w", err)
		}
	}

	// 5. Persist the run.
	if err := uc.repo.Save(ctx, run); err != nil {
		uc.removeOutput(ctx, req.OutputPath)
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to save segmentation run: %w", err)
	}

	// 6. Publish domain events.
	events := run.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			if delErr := uc.repo.Delete(context.WithoutCancel(ctx), run.ID()); delErr != nil {
				uc.logger.ErrorContext(ctx, "failed to delete unpublished run", "run_id", run.ID(), "error", delErr)
			}
			uc.removeOutput(ctx, req.OutputPath)
			return dto.SegmentationRunResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	high := run.HighRiskCustomers()
	uc.metrics.customers.Add(ctx, int64(high), metric.WithAttributes(attribute.Int("is_high_risk", 1)))
	uc.metrics.customers.Add(ctx, int64(run.CustomerCount()-high), metric.WithAttributes(attribute.Int("is_high_risk", 0)))
	span.SetAttributes(attribute.String("run_id", run.ID().String()))

	uc.logger.InfoContext(ctx, "proxy target built",
		"run_id", run.ID(),
		"transactions", run.TransactionCount(),
		"customers", run.CustomerCount(),
		"high_risk_cluster", run.HighRiskCluster(),
		"high_risk_customers", high,
		"snapshot", snapshot,
	)

	resp = dto.FromModel(run)
	resp.OutputPath = req.OutputPath
	return resp, nil
}

// removeOutput deletes a dataset written by a run that failed afterwards.
func (uc *BuildProxyTarget) removeOutput(ctx context.Context, location string) {
	if location == "" {
		return
	}
	if err := uc.writer.RemoveTable(context.WithoutCancel(ctx), location); err != nil {
		uc.logger.ErrorContext(ctx, "failed to remove output of failed run", "output", location, "error", err)
	}
}

func (uc *BuildProxyTarget) applyDefaults(req dto.BuildProxyTargetRequest) dto.BuildProxyTargetRequest {
	if req.ValueColumn == "" {
		req.ValueColumn = uc.defaults.ValueColumn
	}
	if req.Clusters == 0 {
		req.Clusters = uc.defaults.Clusters
	}
	if req.Seed == nil {
		seed := uc.defaults.Seed
		req.Seed = &seed
	}
	if req.SnapshotOffset == nil {
		offset := uc.defaults.SnapshotOffset
		req.SnapshotOffset = &offset
	}
	return req
}

// resolveSnapshot returns the explicit snapshot when set, otherwise the latest
// transaction plus offset. With no transactions there is nothing to measure
// recency against and the zero time is returned.
func resolveSnapshot(txns []model.Transaction, explicit time.Time, offset time.Duration) (time.Time, error) {
	if !explicit.IsZero() {
		return explicit.UTC(), nil
	}
	if len(txns) == 0 {
		return time.Time{}, nil
	}
	return service.SnapshotAfterLatest(txns, offset)
}
