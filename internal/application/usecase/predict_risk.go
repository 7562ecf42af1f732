package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/domain/port"
)

// PredictRisk scores a single applicant with the loaded risk model.
type PredictRisk struct {
	model       port.RiskModel
	predictions metric.Int64Counter
}

// NewPredictRisk creates a new PredictRisk use case. A nil model makes every
// prediction fail with ErrModelUnavailable.
func NewPredictRisk(m port.RiskModel) *PredictRisk {
	predictions, _ := otel.Meter(instrumentationName).Int64Counter("creditrisk.predictions",
		metric.WithDescription("Risk predictions served, by outcome."))
	return &PredictRisk{model: m, predictions: predictions}
}

// Ready reports whether a model is loaded.
func (uc *PredictRisk) Ready() bool {
	return uc.model != nil
}

// Execute validates the record and returns the high-risk probability.
func (uc *PredictRisk) Execute(ctx context.Context, req dto.CustomerData) (resp dto.PredictionResponse, err error) {
	defer func() {
		uc.predictions.Add(ctx, 1, metric.WithAttributes(outcome(err)))
	}()

	if uc.model == nil {
		return dto.PredictionResponse{}, ErrModelUnavailable
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		return dto.PredictionResponse{}, &ValidationError{Fields: missing}
	}

	p, err := uc.model.PredictProbability(ctx, req.Features())
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to score record: %w", err)
	}
	return dto.PredictionResponse{RiskProbability: p}, nil
}
