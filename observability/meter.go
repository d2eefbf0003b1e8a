package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/cmdutil/logger"
)

// InitMeter installs a global MeterProvider exporting over OTLP/HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config, serviceName, serviceVersion string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, serviceVersion)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Debug("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ProcessMetrics holds the instruments recorded for every process operation.
type ProcessMetrics struct {
	invocations metric.Int64Counter
	duration    metric.Float64Histogram
	relayed     metric.Int64Counter
	skipped     metric.Int64Counter
}

// NewProcessMetrics creates process instruments on the given meter.
func NewProcessMetrics(meter metric.Meter) (*ProcessMetrics, error) {
	invocations, err := meter.Int64Counter("process.invocations",
		metric.WithDescription("Process operations by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.invocations counter: %w", err)
	}

	duration, err := meter.Float64Histogram("process.duration",
		metric.WithDescription("Wall time of process operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.duration histogram: %w", err)
	}

	relayed, err := meter.Int64Counter("process.relay.lines",
		metric.WithDescription("Lines forwarded from upstream to downstream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.relay.lines counter: %w", err)
	}

	skipped, err := meter.Int64Counter("process.relay.skipped",
		metric.WithDescription("Upstream lines dropped because they were not valid UTF-8"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.relay.skipped counter: %w", err)
	}

	return &ProcessMetrics{
		invocations: invocations,
		duration:    duration,
		relayed:     relayed,
		skipped:     skipped,
	}, nil
}

// RecordInvocation records one finished operation.
func (m *ProcessMetrics) RecordInvocation(ctx context.Context, operation, outcome string, d time.Duration) {
	m.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordRelay records the line counts of one relay.
func (m *ProcessMetrics) RecordRelay(ctx context.Context, lines, skipped int) {
	m.relayed.Add(ctx, int64(lines))
	if skipped > 0 {
		m.skipped.Add(ctx, int64(skipped))
	}
}
