package usecase

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/bobdeve/credit-risk-model/internal/application/usecase"

var tracer = otel.Tracer(instrumentationName)

// runMetrics are the instruments recorded by labeling runs.
type runMetrics struct {
	runs      metric.Int64Counter
	customers metric.Int64Counter
	duration  metric.Float64Histogram
}

// newRunMetrics creates the run instruments on the global meter provider.
// Instrument names are constant, so creation errors cannot occur and are ignored.
func newRunMetrics() runMetrics {
	meter := otel.Meter(instrumentationName)

	runs, _ := meter.Int64Counter("creditrisk.labeling.runs",
		metric.WithDescription("Proxy target labeling runs by outcome."))
	customers, _ := meter.Int64Counter("creditrisk.labeling.customers",
		metric.WithDescription("Customers labeled, by risk label."))
	duration, _ := meter.Float64Histogram("creditrisk.labeling.duration",
		metric.WithDescription("Wall time of a labeling run."),
		metric.WithUnit("s"))

	return runMetrics{runs: runs, customers: customers, duration: duration}
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "failure")
	}
	return attribute.String("outcome", "success")
}
