// Package observability provides logging, metrics, and tracing for
// retemplate matching.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds matcher settings to a logger.
// Returns a new logger with case_sensitive and max_candidates fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, true, 100_000)
//	enriched.Info("matching") // includes case_sensitive, max_candidates
func EnrichLogger(logger *slog.Logger, caseSensitive bool, maxCandidates int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.Bool("case_sensitive", caseSensitive),
		slog.Int("max_candidates", maxCandidates),
	)
}

// LogMatchStart logs the start of a match call.
func LogMatchStart(logger *slog.Logger, template string, textLen int) {
	if logger == nil {
		return
	}
	logger.Debug("match starting",
		slog.String("template", template),
		slog.Int("text_len", textLen),
	)
}

// LogMatchComplete logs a successful match call.
func LogMatchComplete(logger *slog.Logger, template string, durationMs float64, results, candidates int) {
	if logger == nil {
		return
	}
	logger.Debug("match completed",
		slog.String("template", template),
		slog.Float64("duration_ms", durationMs),
		slog.Int("results", results),
		slog.Int("candidates", candidates),
	)
}

// LogMatchError logs a failed match call.
func LogMatchError(logger *slog.Logger, template string, err error, durationMs float64, candidates int) {
	if logger == nil {
		return
	}
	logger.Error("match failed",
		slog.String("template", template),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("candidates", candidates),
	)
}

// LogTemplateError logs a template that could not be parsed.
func LogTemplateError(logger *slog.Logger, template string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template rejected",
		slog.String("template", template),
		slog.String("error", err.Error()),
	)
}

// LogOccurrences logs the size of each literal's occurrence list.
// Large lists are the usual cause of slow enumeration.
func LogOccurrences(logger *slog.Logger, template string, sizes []int) {
	if logger == nil {
		return
	}
	logger.Debug("literal occurrences located",
		slog.String("template", template),
		slog.Any("sizes", sizes),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
