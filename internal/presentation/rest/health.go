package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler provides HTTP health check endpoints for the risk service.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	checks    map[string]ReadinessCheck
	service   string
}

// NewHealthHandler creates a new health check handler. Readyz runs every
// registered check and reports not ready when any of them fails.
func NewHealthHandler(service string, logger *slog.Logger, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		checks:    checks,
		service:   service,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Readyz handles readiness probe requests.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := ReadinessResponse{
		Status:  "ready",
		Service: h.service,
		Checks:  make(map[string]string, len(h.checks)),
	}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
