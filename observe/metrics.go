package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HostReading is the subset of a health report exported as gauges.
type HostReading struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
	Status        string
}

// Metrics records operation and host metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one operation with its duration and outcome.
	RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error)

	// RecordReport records the readings of a generated health report.
	RecordReport(ctx context.Context, r HostReading)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	reportCount  metric.Int64Counter
	usage        metric.Float64Gauge
}

// NewMetrics creates the ops.* and host.* instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"ops.exec.total",
		metric.WithDescription("Total number of operations executed"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"ops.exec.errors",
		metric.WithDescription("Total number of failed operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"ops.exec.duration_ms",
		metric.WithDescription("Operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	reportCount, err := meter.Int64Counter(
		"health.report.total",
		metric.WithDescription("Health reports generated, by overall health"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	usage, err := meter.Float64Gauge(
		"host.usage_percent",
		metric.WithDescription("Latest reported resource usage"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		reportCount:  reportCount,
		usage:        usage,
	}, nil
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordReport(ctx context.Context, r HostReading) {
	m.reportCount.Add(ctx, 1, metric.WithAttributes(attribute.String("overall_health", r.Status)))
	m.usage.Record(ctx, r.CPUPercent, metric.WithAttributes(attribute.String("resource", "cpu")))
	m.usage.Record(ctx, r.MemoryPercent, metric.WithAttributes(attribute.String("resource", "memory")))
	m.usage.Record(ctx, r.DiskPercent, metric.WithAttributes(attribute.String("resource", "disk")))
}
