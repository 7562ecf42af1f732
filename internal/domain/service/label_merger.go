package service

import (
	"fmt"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/valueobject"
)

// RiskLabelColumn is the name of the proxy target column.
const RiskLabelColumn = "is_high_risk"

// LabelMerger attaches customer risk labels to row-level data.
type LabelMerger struct{}

// NewLabelMerger creates a new LabelMerger.
func NewLabelMerger() *LabelMerger {
	return &LabelMerger{}
}

// Merge left-joins labels onto t by customer id. Every input row is kept in
// order with its original cells; customers without a label receive 0. An
// existing is_high_risk column is replaced.
func (m *LabelMerger) Merge(t *model.Table, customerColumn string, labels map[string]valueobject.RiskLabel) (*model.Table, error) {
	ids, err := t.Column(customerColumn)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(ids))
	for i, id := range ids {
		label, ok := labels[id]
		if !ok {
			label = valueobject.RiskLabelLow
		}
		values[i] = label.String()
	}

	merged, err := t.WithColumn(RiskLabelColumn, values)
	if err != nil {
		return nil, fmt.Errorf("failed to attach %s column: %w", RiskLabelColumn, err)
	}
	return merged, nil
}
