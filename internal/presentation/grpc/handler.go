package grpc

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// Compile-time assertion that CreditRiskServiceHandler implements CreditRiskServiceServer.
var _ CreditRiskServiceServer = (*CreditRiskServiceHandler)(nil)

// CreditRiskServiceHandler implements the gRPC CreditRiskServiceServer interface.
type CreditRiskServiceHandler struct {
	UnimplementedCreditRiskServiceServer
	buildProxyTarget   *usecase.BuildProxyTarget
	getSegmentationRun *usecase.GetSegmentationRun
	logger             *slog.Logger
}

// NewCreditRiskServiceHandler creates a new gRPC handler.
func NewCreditRiskServiceHandler(
	buildProxyTarget *usecase.BuildProxyTarget,
	getSegmentationRun *usecase.GetSegmentationRun,
	logger *slog.Logger,
) *CreditRiskServiceHandler {
	return &CreditRiskServiceHandler{
		buildProxyTarget:   buildProxyTarget,
		getSegmentationRun: getSegmentationRun,
		logger:             logger,
	}
}

// Proto-aligned request/response message types.

// BuildProxyTargetRequest represents the proto BuildProxyTargetRequest message.
// Snapshot is RFC 3339 and SnapshotOffset a Go duration string; both are optional.
type BuildProxyTargetRequest struct {
	Seed           *int64 `json:"seed,omitempty"`
	InputPath      string `json:"input_path"`
	OutputPath     string `json:"output_path"`
	ValueColumn    string `json:"value_column"`
	Snapshot       string `json:"snapshot"`
	SnapshotOffset string `json:"snapshot_offset"`
	Clusters       int32  `json:"clusters"`
}

// ClusterMsg represents the proto ClusterSummary message.
type ClusterMsg struct {
	MeanRecency   string `json:"mean_recency"`
	MeanFrequency string `json:"mean_frequency"`
	MeanMonetary  string `json:"mean_monetary"`
	RiskScore     string `json:"risk_score"`
	Cluster       int32  `json:"cluster"`
	Size          int32  `json:"size"`
	HighRisk      bool   `json:"high_risk"`
}

// CustomerLabelMsg represents the proto CustomerLabel message.
type CustomerLabelMsg struct {
	CustomerID string `json:"customer_id"`
	Monetary   string `json:"monetary"`
	Recency    int32  `json:"recency"`
	Frequency  int32  `json:"frequency"`
	Cluster    int32  `json:"cluster"`
	IsHighRisk int32  `json:"is_high_risk"`
}

// SegmentationRunMsg represents the proto SegmentationRun message.
type SegmentationRunMsg struct {
	ID                string             `json:"id"`
	Snapshot          string             `json:"snapshot"`
	ValueColumn       string             `json:"value_column"`
	OutputPath        string             `json:"output_path,omitempty"`
	CreatedAt         string             `json:"created_at"`
	Clusters          []ClusterMsg       `json:"clusters"`
	Labels            []CustomerLabelMsg `json:"labels,omitempty"`
	Seed              int64              `json:"seed"`
	ClusterCount      int32              `json:"cluster_count"`
	TransactionCount  int32              `json:"transaction_count"`
	CustomerCount     int32              `json:"customer_count"`
	HighRiskCluster   int32              `json:"high_risk_cluster"`
	HighRiskCustomers int32              `json:"high_risk_customers"`
}

// BuildProxyTargetResponse represents the proto BuildProxyTargetResponse message.
type BuildProxyTargetResponse struct {
	Run *SegmentationRunMsg `json:"run"`
}

// GetSegmentationRunRequest represents the proto GetSegmentationRunRequest message.
type GetSegmentationRunRequest struct {
	ID            string `json:"id"`
	IncludeLabels bool   `json:"include_labels"`
}

// GetSegmentationRunResponse represents the proto GetSegmentationRunResponse message.
type GetSegmentationRunResponse struct {
	Run *SegmentationRunMsg `json:"run"`
}

// BuildProxyTarget runs the labeling pipeline over a transactions file.
func (h *CreditRiskServiceHandler) BuildProxyTarget(ctx context.Context, req *BuildProxyTargetRequest) (*BuildProxyTargetResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.InputPath == "" {
		return nil, status.Error(codes.InvalidArgument, "input_path is required")
	}
	if !filepath.IsLocal(req.InputPath) {
		return nil, status.Errorf(codes.InvalidArgument, "input_path must be relative to the data directory: %q", req.InputPath)
	}
	if req.OutputPath != "" && !filepath.IsLocal(req.OutputPath) {
		return nil, status.Errorf(codes.InvalidArgument, "output_path must be relative to the data directory: %q", req.OutputPath)
	}
	if req.Clusters < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "invalid clusters: %d", req.Clusters)
	}

	ucReq := dto.BuildProxyTargetRequest{
		InputPath:   req.InputPath,
		OutputPath:  req.OutputPath,
		ValueColumn: req.ValueColumn,
		Clusters:    int(req.Clusters),
		Seed:        req.Seed,
	}
	if req.Snapshot != "" {
		snapshot, err := time.Parse(time.RFC3339, req.Snapshot)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid snapshot: %v", err)
		}
		ucReq.Snapshot = snapshot
	}
	if req.SnapshotOffset != "" {
		offset, err := time.ParseDuration(req.SnapshotOffset)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid snapshot_offset: %v", err)
		}
		ucReq.SnapshotOffset = &offset
	}

	h.logger.Info("building proxy target",
		slog.String("input_path", req.InputPath),
		slog.Int("clusters", ucReq.Clusters),
	)

	result, err := h.buildProxyTarget.Execute(ctx, ucReq)
	if err != nil {
		h.logger.Error("failed to build proxy target",
			slog.String("input_path", req.InputPath),
			slog.String("error", err.Error()),
		)
		return nil, toStatus(err)
	}

	return &BuildProxyTargetResponse{Run: toRunMsg(result)}, nil
}

// GetSegmentationRun returns a recorded run, optionally with its labels.
func (h *CreditRiskServiceHandler) GetSegmentationRun(ctx context.Context, req *GetSegmentationRunRequest) (*GetSegmentationRunResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor, auth.RoleAnalyst); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	runID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getSegmentationRun.Execute(ctx, dto.GetSegmentationRunRequest{
		RunID:         runID,
		IncludeLabels: req.IncludeLabels,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &GetSegmentationRunResponse{Run: toRunMsg(result)}, nil
}

// toStatus maps use case and domain errors onto gRPC status codes.
func toStatus(err error) error {
	var (
		validationErr   *usecase.ValidationError
		missingColumn   *model.MissingColumnError
		parseErr        *model.ParseError
		clusterCountErr *model.InvalidClusterCountError
		duplicateErr    *model.DuplicateCustomerError
		insufficientErr *model.InsufficientDataError
	)

	switch {
	case errors.Is(err, usecase.ErrRunNotFound), errors.Is(err, fs.ErrNotExist):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &validationErr),
		errors.As(err, &missingColumn),
		errors.As(err, &parseErr),
		errors.As(err, &clusterCountErr),
		errors.As(err, &duplicateErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &insufficientErr), errors.Is(err, model.ErrEmptyInput):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func toRunMsg(r dto.SegmentationRunResponse) *SegmentationRunMsg {
	msg := &SegmentationRunMsg{
		ID:                r.ID.String(),
		Snapshot:          r.Snapshot.Format(time.RFC3339),
		ValueColumn:       r.ValueColumn,
		OutputPath:        r.OutputPath,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		Seed:              r.Seed,
		ClusterCount:      int32(r.ClusterCount),
		TransactionCount:  int32(r.TransactionCount),
		CustomerCount:     int32(r.CustomerCount),
		HighRiskCluster:   int32(r.HighRiskCluster),
		HighRiskCustomers: int32(r.HighRiskCustomers),
		Clusters:          make([]ClusterMsg, len(r.Clusters)),
	}
	for i, c := range r.Clusters {
		msg.Clusters[i] = ClusterMsg{
			Cluster:       int32(c.Cluster),
			Size:          int32(c.Size),
			MeanRecency:   c.MeanRecency,
			MeanFrequency: c.MeanFrequency,
			MeanMonetary:  c.MeanMonetary,
			RiskScore:     c.RiskScore,
			HighRisk:      c.HighRisk,
		}
	}
	if r.Labels != nil {
		msg.Labels = make([]CustomerLabelMsg, len(r.Labels))
		for i, l := range r.Labels {
			msg.Labels[i] = CustomerLabelMsg{
				CustomerID: l.CustomerID,
				Recency:    int32(l.Recency),
				Frequency:  int32(l.Frequency),
				Monetary:   l.Monetary,
				Cluster:    int32(l.Cluster),
				IsHighRisk: int32(l.IsHighRisk),
			}
		}
	}
	return msg
}
