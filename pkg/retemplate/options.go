package retemplate

import (
	"log/slog"

	"github.com/randalmurphal/retemplate/pkg/retemplate/observability"
)

// matchConfig holds configuration for matching.
type matchConfig struct {
	caseSensitive  bool
	maxCandidates  int
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	tracingEnabled bool
	spans          observability.SpanManager
}

// defaultMatchConfig returns the default matching configuration.
func defaultMatchConfig() matchConfig {
	return matchConfig{
		caseSensitive: true,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// Option configures matching behavior.
type Option func(*matchConfig)

// WithCaseSensitive sets whether literals must match with exact case.
// Default: true
//
// Case only affects where literals are found. Extracted values always
// keep the casing of the text.
func WithCaseSensitive(enabled bool) Option {
	return func(c *matchConfig) {
		c.caseSensitive = enabled
	}
}

// WithIgnoreCase is shorthand for WithCaseSensitive(false).
func WithIgnoreCase() Option {
	return WithCaseSensitive(false)
}

// WithMaxCandidates caps the number of candidate positions the enumerator
// may examine. Default: 0 (unbounded)
//
// Enumeration cost grows with the product of the occurrence counts of
// every literal. If a match exceeds this limit, it returns a
// *BudgetExceededError. Values <= 0 remove the cap.
//
// Example:
//
//	results, err := retemplate.Match(tmpl, text, retemplate.WithMaxCandidates(100_000))
func WithMaxCandidates(n int) Option {
	return func(c *matchConfig) {
		if n < 0 {
			n = 0
		}
		c.maxCandidates = n
	}
}

// WithLogger sets the logger for match lifecycle events.
// Default: nil (no logging)
func WithLogger(logger *slog.Logger) Option {
	return func(c *matchConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// Default: false
//
// Metrics use the global OTel meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *matchConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables or disables OpenTelemetry tracing.
// Default: false
//
// Spans use the global OTel tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *matchConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}
