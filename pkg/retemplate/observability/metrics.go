package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records retemplate metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMatch records one match call with its duration, result count,
	// number of candidate positions examined and error status.
	RecordMatch(ctx context.Context, caseSensitive bool, duration time.Duration, results, candidates int, err error)

	// RecordTemplateParse records a template parse and its placeholder count.
	RecordTemplateParse(ctx context.Context, placeholders int, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	matchCalls      metric.Int64Counter
	matchLatency    metric.Float64Histogram
	matchResults    metric.Int64Histogram
	matchCandidates metric.Int64Histogram
	matchErrors     metric.Int64Counter
	templateParses  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("retemplate")

	matchCalls, err := meter.Int64Counter("retemplate.match.calls",
		metric.WithDescription("Number of match calls"),
	)
	if err != nil {
		return nil, err
	}

	matchLatency, err := meter.Float64Histogram("retemplate.match.latency_ms",
		metric.WithDescription("Match latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	matchResults, err := meter.Int64Histogram("retemplate.match.results",
		metric.WithDescription("Mappings returned per match call"),
	)
	if err != nil {
		return nil, err
	}

	matchCandidates, err := meter.Int64Histogram("retemplate.match.candidates",
		metric.WithDescription("Candidate positions examined per match call"),
	)
	if err != nil {
		return nil, err
	}

	matchErrors, err := meter.Int64Counter("retemplate.match.errors",
		metric.WithDescription("Number of failed match calls"),
	)
	if err != nil {
		return nil, err
	}

	templateParses, err := meter.Int64Counter("retemplate.template.parses",
		metric.WithDescription("Number of template parses"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		matchCalls:      matchCalls,
		matchLatency:    matchLatency,
		matchResults:    matchResults,
		matchCandidates: matchCandidates,
		matchErrors:     matchErrors,
		templateParses:  templateParses,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordMatch records a match call.
func (m *otelMetrics) RecordMatch(ctx context.Context, caseSensitive bool, duration time.Duration, results, candidates int, err error) {
	attrs := metric.WithAttributes(
		attribute.Bool("case_sensitive", caseSensitive),
		attribute.Bool("success", err == nil),
	)

	m.matchCalls.Add(ctx, 1, attrs)
	m.matchLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.matchCandidates.Record(ctx, int64(candidates), attrs)

	if err != nil {
		m.matchErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("case_sensitive", caseSensitive),
		))
		return
	}
	m.matchResults.Record(ctx, int64(results), attrs)
}

// RecordTemplateParse records a template parse.
func (m *otelMetrics) RecordTemplateParse(ctx context.Context, placeholders int, err error) {
	m.templateParses.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", err == nil),
		attribute.Int("placeholders", placeholders),
	))
}
