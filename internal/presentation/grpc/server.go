package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bobdeve/credit-risk-model/pkg/auth"
	"github.com/bobdeve/credit-risk-model/pkg/tlsutil"
)

// ServerOptions configures transport security and reflection.
type ServerOptions struct {
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

// Server wraps the gRPC server with credit risk handlers.
type Server struct {
	address    string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// NewServer creates a new gRPC server for the credit risk service.
func NewServer(handler *CreditRiskServiceHandler, address string, logger *slog.Logger, jwtService *auth.JWTService, opts ServerOptions) (*Server, error) {
	// Add auth interceptor, skipping health check methods.
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	})

	serverOpts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(authInterceptor),
	}

	creds, err := tlsutil.ServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading gRPC TLS credentials: %w", err)
	}
	if creds != nil {
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLSCertFile)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	grpcServer := grpc.NewServer(serverOpts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	RegisterCreditRiskServiceServer(grpcServer, handler)

	if opts.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		address:    address,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}, nil
}

// Start begins listening and serving gRPC requests.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(listener)
}

// Serve serves gRPC requests on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server starting",
		slog.String("address", listener.Addr().String()),
	)
	return s.grpcServer.Serve(listener)
}

// Stop marks the service as not serving and gracefully stops the server.
func (s *Server) Stop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
