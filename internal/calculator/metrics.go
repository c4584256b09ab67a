package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments. They start as no-ops and are replaced by InitMetrics.
var (
	opsCounter       metric.Int64Counter     = noop.Int64Counter{}
	opsHistogram     metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter     metric.Int64Counter     = noop.Int64Counter{}
	rejectedCounter  metric.Int64Counter     = noop.Int64Counter{}
	persistedCounter metric.Int64Counter     = noop.Int64Counter{}
	resultGauge      metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers the calculator's OTel instruments against the global
// meter provider. Call once at startup, after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	opsCounter, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of chained calculations computed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of chained calculations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of internal calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	rejectedCounter, err = meter.Int64Counter("calculator.submissions.rejected",
		metric.WithDescription("Form submissions rejected by validation"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return fmt.Errorf("creating rejected counter: %w", err)
	}

	persistedCounter, err = meter.Int64Counter("calculator.records.persisted",
		metric.WithDescription("Calculation records written to the store"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return fmt.Errorf("creating persisted counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last stored calculation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
