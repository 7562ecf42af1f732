package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgutil "github.com/bobdeve/credit-risk-model/pkg/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a PostgreSQL container for testing. It skips
// the test under -short. The caller should defer container.Cleanup(t).
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("creditrisk"),
		postgres.WithUsername("risk"),
		postgres.WithPassword("risk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pgxpool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}

	return &PostgresContainer{
		Container: pgContainer,
		DSN:       dsn,
		Pool:      pool,
	}
}

// Cleanup terminates the container.
func (pc *PostgresContainer) Cleanup(t *testing.T) {
	t.Helper()

	if pc.Pool != nil {
		pc.Pool.Close()
	}

	if pc.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := pc.Container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate postgres container: %v", err)
		}
	}
}

// RunMigrations applies the migrations in dir with golang-migrate.
func (pc *PostgresContainer) RunMigrations(t *testing.T, dir string) {
	t.Helper()

	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("failed to resolve migrations directory %s: %v", dir, err)
	}
	if err := pgutil.RunMigrations(pc.DSN, "file://"+filepath.ToSlash(abs)); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}
