package service

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
)

// IdentifierColumns are dropped before a dataset is split for training.
var IdentifierColumns = []string{"CustomerId", "TransactionId", "BatchId", "ProductId", "TransactionStartTime"}

// SplitConfig controls DatasetSplitter.
type SplitConfig struct {
	TargetColumn string
	TestFraction float64
	Seed         int64
}

// DefaultSplitConfig holds out 20% of rows with seed 42.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		TargetColumn: RiskLabelColumn,
		TestFraction: 0.2,
		Seed:         DefaultSeed,
	}
}

// DatasetSplit holds the train and test partitions. Both keep the target column.
type DatasetSplit struct {
	Train *model.Table
	Test  *model.Table
}

// SplitDataset drops identifier columns and shuffles rows into train and test
// partitions. The test partition holds ceil(TestFraction * rows) rows.
func SplitDataset(t *model.Table, cfg SplitConfig) (DatasetSplit, error) {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return DatasetSplit{}, fmt.Errorf("test fraction must be in (0, 1), got %v", cfg.TestFraction)
	}
	if err := t.RequireColumns(cfg.TargetColumn); err != nil {
		return DatasetSplit{}, err
	}
	if t.Len() == 0 {
		return DatasetSplit{}, model.ErrEmptyInput
	}

	n := t.Len()
	nTest := int(math.Ceil(cfg.TestFraction * float64(n)))
	if nTest >= n {
		return DatasetSplit{}, fmt.Errorf("test fraction %v leaves no training rows out of %d", cfg.TestFraction, n)
	}

	features := t.WithoutColumns(IdentifierColumns...)

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	perm := rng.Perm(n)

	return DatasetSplit{
		Train: features.SelectRows(perm[nTest:]),
		Test:  features.SelectRows(perm[:nTest]),
	}, nil
}
