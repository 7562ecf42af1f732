package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/port"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
)

// ExportRFM writes the per-customer Recency, Frequency and Monetary table.
type ExportRFM struct {
	reader    port.TableReader
	writer    port.TableWriter
	extractor *service.RFMExtractor
	logger    *slog.Logger
	defaults  LabelingDefaults
}

// NewExportRFM creates a new ExportRFM use case.
func NewExportRFM(reader port.TableReader, writer port.TableWriter, defaults LabelingDefaults, logger *slog.Logger) *ExportRFM {
	return &ExportRFM{
		reader:    reader,
		writer:    writer,
		extractor: service.NewRFMExtractor(),
		logger:    logger,
		defaults:  defaults,
	}
}

// Execute extracts RFM profiles from the input file and writes them out.
func (uc *ExportRFM) Execute(ctx context.Context, req dto.ExportRFMRequest) (dto.ExportRFMResponse, error) {
	ctx, span := tracer.Start(ctx, "ExportRFM")
	defer span.End()

	valueColumn := req.ValueColumn
	if valueColumn == "" {
		valueColumn = uc.defaults.ValueColumn
	}
	offset := uc.defaults.SnapshotOffset
	if req.SnapshotOffset != nil {
		offset = *req.SnapshotOffset
	}

	table, err := uc.reader.ReadTable(ctx, req.InputPath)
	if err != nil {
		return dto.ExportRFMResponse{}, fmt.Errorf("failed to read transactions: %w", err)
	}

	schema := model.DefaultTransactionSchema().WithValueColumn(valueColumn)
	txns, err := model.ParseTransactions(table, schema)
	if err != nil {
		return dto.ExportRFMResponse{}, fmt.Errorf("failed to parse transactions: %w", err)
	}

	snapshot, err := resolveSnapshot(txns, req.Snapshot, offset)
	if err != nil {
		return dto.ExportRFMResponse{}, fmt.Errorf("failed to resolve snapshot: %w", err)
	}

	profiles := uc.extractor.Extract(txns, snapshot)
	if err := uc.writer.WriteTable(ctx, req.OutputPath, model.RFMTable(schema.CustomerColumn, profiles)); err != nil {
		return dto.ExportRFMResponse{}, fmt.Errorf("failed to write RFM table: %w", err)
	}

	uc.logger.InfoContext(ctx, "rfm table exported", "customers", len(profiles), "snapshot", snapshot, "output", req.OutputPath)

	return dto.ExportRFMResponse{
		Snapshot:   snapshot,
		OutputPath: req.OutputPath,
		Customers:  len(profiles),
	}, nil
}
