package rest

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request with status and latency.
func LoggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// NewRouter mounts the handlers on one mux, with metrics served at /metrics
// when a handler is given, and wraps it in tracing and request logging.
func NewRouter(logger *slog.Logger, health *HealthHandler, predict *PredictHandler, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	health.RegisterRoutes(mux)
	predict.RegisterRoutes(mux)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	return otelhttp.NewHandler(LoggingMiddleware(logger, mux), "riskd.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
