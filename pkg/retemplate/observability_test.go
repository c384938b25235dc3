package retemplate

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

func TestMatcher_LogsLifecycle(t *testing.T) {
	logger, buf := newTestLogger()

	_, err := NewMatcher(WithLogger(logger)).Match(context.Background(), "This is a {whatIsThis}.", "This is a test.")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "match starting")
	assert.Contains(t, out, "literal occurrences located")
	assert.Contains(t, out, "match completed")
	assert.Contains(t, out, "results=1")
}

func TestMatcher_LogsCarrySettings(t *testing.T) {
	logger, buf := newTestLogger()

	_, err := NewMatcher(WithLogger(logger), WithIgnoreCase(), WithMaxCandidates(50)).
		Match(context.Background(), "{x}", "ab")
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Contains(t, line, "case_sensitive=false")
		assert.Contains(t, line, "max_candidates=50")
	}
	assert.Regexp(t, `duration_ms=\d`, buf.String())
}

func TestMatcher_LogsTemplateError(t *testing.T) {
	logger, buf := newTestLogger()

	_, err := NewMatcher(WithLogger(logger)).Match(context.Background(), "{oops", "text")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "template rejected")
}

func TestMatcher_LogsMatchError(t *testing.T) {
	logger, buf := newTestLogger()

	_, err := NewMatcher(WithLogger(logger), WithMaxCandidates(1)).
		Match(context.Background(), "{a}{b}", "abcdef")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "match failed")
}

func TestMatcher_MetricsEnabled(t *testing.T) {
	// The global meter provider is a no-op here; this only checks the
	// recording path runs end to end.
	matcher := NewMatcher(WithMetrics(true))

	rs, err := matcher.Match(context.Background(), "{x}", "ab")
	require.NoError(t, err)
	assert.Len(t, rs, 2)

	_, err = matcher.Match(context.Background(), "{x", "ab")
	assert.Error(t, err)
}

func TestMatcher_TracingRecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	_, err := NewMatcher(WithTracing(true)).Match(context.Background(), "a{x}b", "ab")
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "retemplate.match", spans[0].Name)

	var eventNames []string
	for _, ev := range spans[0].Events {
		eventNames = append(eventNames, ev.Name)
	}
	assert.Contains(t, eventNames, "alignments enumerated")
}
