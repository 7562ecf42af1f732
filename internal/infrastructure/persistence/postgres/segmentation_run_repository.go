package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bobdeve/credit-risk-model/internal/domain/model"
	"github.com/bobdeve/credit-risk-model/internal/domain/valueobject"
	pgutil "github.com/bobdeve/credit-risk-model/pkg/postgres"
)

var labelColumns = []string{
	"run_id", "position", "customer_id", "recency", "frequency", "monetary", "cluster", "is_high_risk",
}

// SegmentationRunRepository implements port.SegmentationRunRepository using PostgreSQL.
type SegmentationRunRepository struct {
	pool *pgxpool.Pool
}

// NewSegmentationRunRepository creates a new PostgreSQL-backed run repository.
func NewSegmentationRunRepository(pool *pgxpool.Pool) *SegmentationRunRepository {
	return &SegmentationRunRepository{pool: pool}
}

// Save persists the run, its cluster summaries and its customer labels in
// one transaction.
func (r *SegmentationRunRepository) Save(ctx context.Context, run *model.SegmentationRun) error {
	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertRun(ctx, tx, run); err != nil {
			return err
		}
		if err := insertClusters(ctx, tx, run); err != nil {
			return err
		}
		return copyLabels(ctx, tx, run)
	})
}

// FindByID retrieves a run and its cluster summaries. Returns nil, nil when absent.
func (r *SegmentationRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SegmentationRun, error) {
	query := `
		SELECT id, snapshot, value_column, seed, cluster_count,
			transaction_count, customer_count, high_risk_cluster,
			high_risk_customers, created_at
		FROM segmentation_runs
		WHERE id = $1
	`

	var (
		runID             uuid.UUID
		params            model.RunParameters
		transactionCount  int
		customerCount     int
		highRiskCluster   int
		highRiskCustomers int
		createdAt         time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&runID, &params.Snapshot, &params.ValueColumn, &params.Seed, &params.ClusterCount,
		&transactionCount, &customerCount, &highRiskCluster,
		&highRiskCustomers, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan segmentation run: %w", err)
	}
	params.Snapshot = params.Snapshot.UTC()

	clusters, err := findClusters(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	return model.Reconstruct(runID, params, transactionCount, customerCount,
		highRiskCluster, highRiskCustomers, clusters, nil, createdAt.UTC()), nil
}

// FindSegments retrieves the customer labels of a run in their original order.
func (r *SegmentationRunRepository) FindSegments(ctx context.Context, runID uuid.UUID) ([]model.CustomerSegment, error) {
	query := `
		SELECT customer_id, recency, frequency, monetary, cluster, is_high_risk
		FROM customer_risk_labels
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer labels: %w", err)
	}
	defer rows.Close()

	segments := make([]model.CustomerSegment, 0)
	for rows.Next() {
		var (
			seg      model.CustomerSegment
			monetary pgtype.Numeric
			label    int
		)
		if err := rows.Scan(
			&seg.Profile.CustomerID, &seg.Profile.Recency, &seg.Profile.Frequency,
			&monetary, &seg.Cluster, &label,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer label: %w", err)
		}
		if seg.Profile.Monetary, err = fromNumeric(monetary); err != nil {
			return nil, err
		}
		if seg.Label, err = valueobject.RiskLabelFromInt(label); err != nil {
			return nil, fmt.Errorf("failed to parse risk label: %w", err)
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customer labels: %w", err)
	}

	return segments, nil
}

// Delete removes the run; its clusters and labels go with it by cascade.
func (r *SegmentationRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM segmentation_runs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete segmentation run: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, q pgutil.Querier, run *model.SegmentationRun) error {
	query := `
		INSERT INTO segmentation_runs (
			id, snapshot, value_column, seed, cluster_count,
			transaction_count, customer_count, high_risk_cluster,
			high_risk_customers, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.Exec(ctx, query,
		run.ID(),
		run.Snapshot(),
		run.ValueColumn(),
		run.Seed(),
		run.ClusterCount(),
		run.TransactionCount(),
		run.CustomerCount(),
		run.HighRiskCluster(),
		run.HighRiskCustomers(),
		run.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save segmentation run: %w", err)
	}
	return nil
}

func insertClusters(ctx context.Context, q pgutil.Querier, run *model.SegmentationRun) error {
	query := `
		INSERT INTO segmentation_clusters (
			run_id, cluster, size, mean_recency, mean_frequency, mean_monetary
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, c := range run.Clusters() {
		_, err := q.Exec(ctx, query,
			run.ID(), c.Cluster(), c.Size(),
			toNumeric(c.MeanRecency()), toNumeric(c.MeanFrequency()), toNumeric(c.MeanMonetary()),
		)
		if err != nil {
			return fmt.Errorf("failed to save cluster %d: %w", c.Cluster(), err)
		}
	}
	return nil
}

func copyLabels(ctx context.Context, q pgutil.Querier, run *model.SegmentationRun) error {
	segments := run.Segments()
	n, err := q.CopyFrom(ctx, pgx.Identifier{"customer_risk_labels"}, labelColumns,
		pgx.CopyFromSlice(len(segments), func(i int) ([]any, error) {
			s := segments[i]
			return []any{
				run.ID(), i, s.Profile.CustomerID, s.Profile.Recency, s.Profile.Frequency,
				toNumeric(s.Profile.Monetary), s.Cluster, s.Label.Int(),
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy customer labels: %w", err)
	}
	if int(n) != len(segments) {
		return fmt.Errorf("copied %d of %d customer labels", n, len(segments))
	}
	return nil
}

func findClusters(ctx context.Context, q pgutil.Querier, runID uuid.UUID) ([]valueobject.ClusterSummary, error) {
	query := `
		SELECT cluster, size, mean_recency, mean_frequency, mean_monetary
		FROM segmentation_clusters
		WHERE run_id = $1
		ORDER BY cluster
	`
	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clusters: %w", err)
	}
	defer rows.Close()

	var clusters []valueobject.ClusterSummary
	for rows.Next() {
		var (
			cluster, size int
			r, f, m       pgtype.Numeric
		)
		if err := rows.Scan(&cluster, &size, &r, &f, &m); err != nil {
			return nil, fmt.Errorf("failed to scan cluster: %w", err)
		}
		means := make([]decimal.Decimal, 3)
		for i, n := range []pgtype.Numeric{r, f, m} {
			if means[i], err = fromNumeric(n); err != nil {
				return nil, err
			}
		}
		summary, err := valueobject.NewClusterSummary(cluster, size, means[0], means[1], means[2])
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild cluster %d: %w", cluster, err)
		}
		clusters = append(clusters, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clusters: %w", err)
	}
	return clusters, nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, fmt.Errorf("numeric value is not a finite number")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
