package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/domain/port"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
)

// SplitDataset partitions a labeled dataset into train and test files.
type SplitDataset struct {
	reader port.TableReader
	writer port.TableWriter
	logger *slog.Logger
}

// NewSplitDataset creates a new SplitDataset use case.
func NewSplitDataset(reader port.TableReader, writer port.TableWriter, logger *slog.Logger) *SplitDataset {
	return &SplitDataset{reader: reader, writer: writer, logger: logger}
}

// Execute splits the input and writes both partitions. The test partition is
// written only after the train partition succeeds.
func (uc *SplitDataset) Execute(ctx context.Context, req dto.SplitDatasetRequest) (dto.SplitDatasetResponse, error) {
	ctx, span := tracer.Start(ctx, "SplitDataset")
	defer span.End()

	cfg := service.DefaultSplitConfig()
	if req.TargetColumn != "" {
		cfg.TargetColumn = req.TargetColumn
	}
	if req.TestFraction != 0 {
		cfg.TestFraction = req.TestFraction
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}

	table, err := uc.reader.ReadTable(ctx, req.InputPath)
	if err != nil {
		return dto.SplitDatasetResponse{}, fmt.Errorf("failed to read dataset: %w", err)
	}

	split, err := service.SplitDataset(table, cfg)
	if err != nil {
		return dto.SplitDatasetResponse{}, fmt.Errorf("failed to split dataset: %w", err)
	}

	if err := uc.writer.WriteTable(ctx, req.TrainPath, split.Train); err != nil {
		return dto.SplitDatasetResponse{}, fmt.Errorf("failed to write train partition: %w", err)
	}
	if err := uc.writer.WriteTable(ctx, req.TestPath, split.Test); err != nil {
		return dto.SplitDatasetResponse{}, fmt.Errorf("failed to write test partition: %w", err)
	}

	uc.logger.InfoContext(ctx, "dataset split", "train_rows", split.Train.Len(), "test_rows", split.Test.Len())

	return dto.SplitDatasetResponse{
		TrainPath: req.TrainPath,
		TestPath:  req.TestPath,
		TrainRows: split.Train.Len(),
		TestRows:  split.Test.Len(),
	}, nil
}
