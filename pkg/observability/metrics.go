package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// Registry defaults to a fresh registry so repeated calls do not collide.
	Registry *prometheus.Registry
}

// InitMetrics initializes the Prometheus metrics exporter and installs the
// MeterProvider globally. Returns the provider and a handler for /metrics.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(serviceResource(cfg.ServiceName)),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}
