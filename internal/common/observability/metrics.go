// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	loadCounter   otelmetric.Int64Counter
	loadDuration  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	loadCounter, _ := meter.Int64Counter(
		"guidance.loads",
		otelmetric.WithDescription("Number of daily guidance loads"),
	)

	loadDuration, _ := meter.Float64Histogram(
		"guidance.load.duration",
		otelmetric.WithDescription("Daily guidance load duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		loadCounter:   loadCounter,
		loadDuration:  loadDuration,
	}
}

func (o *Observability) RecordLoad(ctx context.Context, result string) {
	if o.loadCounter != nil {
		o.loadCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("result", result),
		))
	}
}

func (o *Observability) RecordLoadDuration(ctx context.Context, duration time.Duration, result string) {
	if o.loadDuration != nil {
		o.loadDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("result", result),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
