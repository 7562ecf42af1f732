package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
	"github.com/bobdeve/credit-risk-model/internal/domain/port"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/config"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/csvio"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/messaging"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/persistence/postgres"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/scoring"
	grpcpresentation "github.com/bobdeve/credit-risk-model/internal/presentation/grpc"
	"github.com/bobdeve/credit-risk-model/internal/presentation/rest"
	"github.com/bobdeve/credit-risk-model/pkg/auth"
	"github.com/bobdeve/credit-risk-model/pkg/kafka"
	"github.com/bobdeve/credit-risk-model/pkg/observability"
	pgutil "github.com/bobdeve/credit-risk-model/pkg/postgres"
)

const serviceName = "riskd"

func main() {
	if err := run(); err != nil {
		slog.Error("riskd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting "+serviceName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    !cfg.IsProduction(),
			SampleRatio: 1,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	defer meterProvider.Shutdown(context.Background())

	// Database connection and schema.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgutil.NewPool(dbCtx, cfg.Postgres())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pgutil.RunMigrations(cfg.Postgres().DSN(), cfg.MigrationsPath); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Wire infrastructure adapters.
	runRepo := postgres.NewSegmentationRunRepository(pool)
	tableStore := csvio.NewTableStore(afero.NewBasePathFs(afero.NewOsFs(), cfg.DataDir))

	producer, err := kafka.NewProducer(cfg.Kafka())
	if err != nil {
		return fmt.Errorf("creating kafka producer: %w", err)
	}
	defer producer.Close()
	eventPublisher := messaging.NewKafkaPublisher(producer, cfg.KafkaEventsTopic, logger)

	var riskModel port.RiskModel
	if cfg.ModelArtifactPath != "" {
		m, err := scoring.LoadLogisticModel(afero.NewOsFs(), cfg.ModelArtifactPath)
		if err != nil {
			return fmt.Errorf("loading risk model: %w", err)
		}
		riskModel = m
		logger.Info("risk model loaded", "path", cfg.ModelArtifactPath)
	} else {
		logger.Warn("MODEL_ARTIFACT_PATH not set, /predict will return 503")
	}

	// Wire use cases.
	buildProxyTargetUC := usecase.NewBuildProxyTarget(tableStore, tableStore, runRepo, eventPublisher,
		service.NewRiskSegmenter(), cfg.LabelingDefaults(), logger)
	getSegmentationRunUC := usecase.NewGetSegmentationRun(runRepo)
	predictRiskUC := usecase.NewPredictRisk(riskModel)

	// Labeling requests arriving over Kafka.
	consumer, err := kafka.NewConsumer(cfg.Kafka(), cfg.KafkaRequestsTopic,
		messaging.NewLabelingRequestHandler(buildProxyTargetUC, logger), logger)
	if err != nil {
		return fmt.Errorf("creating kafka consumer: %w", err)
	}
	defer consumer.Close()

	// gRPC server.
	jwtCfg := cfg.JWT()
	if jwtCfg.Secret == "" {
		jwtCfg.Secret = uuid.NewString()
		logger.Warn("JWT_SECRET not set, using an ephemeral secret; gRPC calls will be rejected")
	}
	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("creating JWT service: %w", err)
	}

	grpcHandler := grpcpresentation.NewCreditRiskServiceHandler(buildProxyTargetUC, getSegmentationRunUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, jwtService, grpcpresentation.ServerOptions{
		TLSCertFile: cfg.GRPCTLSCert,
		TLSKeyFile:  cfg.GRPCTLSKey,
		Reflection:  cfg.GRPCReflection,
	})
	if err != nil {
		return fmt.Errorf("creating gRPC server: %w", err)
	}

	// HTTP server (health, prediction, metrics).
	healthHandler := rest.NewHealthHandler(serviceName, logger, map[string]rest.ReadinessCheck{
		"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
		"model": func(context.Context) error {
			if !predictRiskUC.Ready() {
				return usecase.ErrModelUnavailable
			}
			return nil
		},
	})
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.NewRouter(logger, healthHandler, rest.NewPredictHandler(predictRiskUC, logger), metricsHandler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers and the consumer.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("labeling consumer error: %w", err)
		}
	}()

	logger.Info(serviceName+" started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down " + serviceName)
	cancel()

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info(serviceName + " stopped")
	return runErr
}
