package usecase

import (
	"context"
	"fmt"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/domain/port"
)

// GetSegmentationRun is the use case for retrieving a recorded labeling run.
type GetSegmentationRun struct {
	repo port.SegmentationRunRepository
}

// NewGetSegmentationRun creates a new GetSegmentationRun use case.
func NewGetSegmentationRun(repo port.SegmentationRunRepository) *GetSegmentationRun {
	return &GetSegmentationRun{repo: repo}
}

// Execute retrieves a run by ID, optionally with its per-customer labels.
func (uc *GetSegmentationRun) Execute(ctx context.Context, req dto.GetSegmentationRunRequest) (dto.SegmentationRunResponse, error) {
	run, err := uc.repo.FindByID(ctx, req.RunID)
	if err != nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("failed to find segmentation run: %w", err)
	}
	if run == nil {
		return dto.SegmentationRunResponse{}, fmt.Errorf("%w: %s", ErrRunNotFound, req.RunID)
	}

	resp := dto.FromModel(run)
	if req.IncludeLabels {
		segments, err := uc.repo.FindSegments(ctx, req.RunID)
		if err != nil {
			return dto.SegmentationRunResponse{}, fmt.Errorf("failed to load customer labels: %w", err)
		}
		resp.Labels = dto.FromSegments(segments)
	} else {
		resp.Labels = nil
	}

	return resp, nil
}
