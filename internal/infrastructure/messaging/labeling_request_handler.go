package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/pkg/kafka"
)

// Labeler runs a proxy target build.
type Labeler interface {
	Execute(ctx context.Context, req dto.BuildProxyTargetRequest) (dto.SegmentationRunResponse, error)
}

// labelingRequest is the wire form of a labeling request message.
type labelingRequest struct {
	Snapshot       string `json:"snapshot,omitempty"`
	SnapshotOffset string `json:"snapshot_offset,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
	InputPath      string `json:"input_path"`
	OutputPath     string `json:"output_path"`
	ValueColumn    string `json:"value_column,omitempty"`
	Clusters       int    `json:"clusters,omitempty"`
}

// NewLabelingRequestHandler returns a consumer handler that runs one labeling
// build per message. Malformed messages are rejected without running.
func NewLabelingRequestHandler(labeler Labeler, logger *slog.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		req, err := decodeLabelingRequest(msg.Value)
		if err != nil {
			return fmt.Errorf("invalid labeling request: %w", err)
		}

		resp, err := labeler.Execute(ctx, req)
		if err != nil {
			return fmt.Errorf("labeling request for %s failed: %w", req.InputPath, err)
		}

		logger.InfoContext(ctx, "labeling request completed",
			"run_id", resp.ID,
			"input", req.InputPath,
			"output", req.OutputPath,
			"high_risk_customers", resp.HighRiskCustomers,
		)
		return nil
	}
}

func decodeLabelingRequest(data []byte) (dto.BuildProxyTargetRequest, error) {
	var wire labelingRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return dto.BuildProxyTargetRequest{}, err
	}
	if wire.InputPath == "" {
		return dto.BuildProxyTargetRequest{}, errors.New("input_path is required")
	}
	if !filepath.IsLocal(wire.InputPath) {
		return dto.BuildProxyTargetRequest{}, fmt.Errorf("input_path %q is outside the data directory", wire.InputPath)
	}
	if wire.OutputPath != "" && !filepath.IsLocal(wire.OutputPath) {
		return dto.BuildProxyTargetRequest{}, fmt.Errorf("output_path %q is outside the data directory", wire.OutputPath)
	}

	req := dto.BuildProxyTargetRequest{
		InputPath:   wire.InputPath,
		OutputPath:  wire.OutputPath,
		ValueColumn: wire.ValueColumn,
		Clusters:    wire.Clusters,
		Seed:        wire.Seed,
	}
	if wire.Snapshot != "" {
		ts, err := time.Parse(time.RFC3339, wire.Snapshot)
		if err != nil {
			return dto.BuildProxyTargetRequest{}, fmt.Errorf("snapshot: %w", err)
		}
		req.Snapshot = ts
	}
	if wire.SnapshotOffset != "" {
		d, err := time.ParseDuration(wire.SnapshotOffset)
		if err != nil {
			return dto.BuildProxyTargetRequest{}, fmt.Errorf("snapshot_offset: %w", err)
		}
		req.SnapshotOffset = &d
	}
	return req, nil
}
