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

// BuildFeatures enriches each transaction row with its customer's aggregate
// features and the row's time features.
type BuildFeatures struct {
	reader   port.TableReader
	writer   port.TableWriter
	logger   *slog.Logger
	defaults LabelingDefaults
}

// NewBuildFeatures creates a new BuildFeatures use case.
func NewBuildFeatures(reader port.TableReader, writer port.TableWriter, defaults LabelingDefaults, logger *slog.Logger) *BuildFeatures {
	return &BuildFeatures{reader: reader, writer: writer, logger: logger, defaults: defaults}
}

// Execute reads the input, appends aggregate and time features and writes the result.
func (uc *BuildFeatures) Execute(ctx context.Context, req dto.BuildFeaturesRequest) (dto.BuildFeaturesResponse, error) {
	ctx, span := tracer.Start(ctx, "BuildFeatures")
	defer span.End()

	valueColumn := req.ValueColumn
	if valueColumn == "" {
		valueColumn = uc.defaults.ValueColumn
	}

	table, err := uc.reader.ReadTable(ctx, req.InputPath)
	if err != nil {
		return dto.BuildFeaturesResponse{}, fmt.Errorf("failed to read transactions: %w", err)
	}

	schema := model.DefaultTransactionSchema().WithValueColumn(valueColumn)
	txns, err := model.ParseTransactions(table, schema)
	if err != nil {
		return dto.BuildFeaturesResponse{}, fmt.Errorf("failed to parse transactions: %w", err)
	}

	aggs := service.AggregateFeatures(txns)
	enriched, err := service.JoinAggregates(table, schema.CustomerColumn, aggs)
	if err != nil {
		return dto.BuildFeaturesResponse{}, fmt.Errorf("failed to join aggregate features: %w", err)
	}
	enriched, err = service.AddTimeFeatures(enriched, schema.TimestampColumn)
	if err != nil {
		return dto.BuildFeaturesResponse{}, fmt.Errorf("failed to add time features: %w", err)
	}

	if err := uc.writer.WriteTable(ctx, req.OutputPath, enriched); err != nil {
		return dto.BuildFeaturesResponse{}, fmt.Errorf("failed to write features: %w", err)
	}

	uc.logger.InfoContext(ctx, "features built", "rows", enriched.Len(), "customers", len(aggs), "output", req.OutputPath)

	return dto.BuildFeaturesResponse{
		OutputPath: req.OutputPath,
		Columns:    enriched.Columns(),
		Rows:       enriched.Len(),
		Customers:  len(aggs),
	}, nil
}
