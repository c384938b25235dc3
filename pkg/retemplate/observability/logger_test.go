package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds case_sensitive and max_candidates", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, false, 500)
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, false, record["case_sensitive"])
		assert.Equal(t, float64(500), record["max_candidates"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, true, 0))
	})
}

func TestLogMatchStart(t *testing.T) {
	t.Run("logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		LogMatchStart(slog.New(h), "a{x}", 12)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "match starting", record["msg"])
		assert.Equal(t, "a{x}", record["template"])
		assert.Equal(t, float64(12), record["text_len"]) // JSON decodes ints as float64
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogMatchStart(nil, "a{x}", 0)
		})
	})
}

func TestLogMatchComplete(t *testing.T) {
	h := newTestHandler()
	LogMatchComplete(slog.New(h), "a{x}", 1.5, 3, 40)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "match completed", record["msg"])
	assert.Equal(t, 1.5, record["duration_ms"])
	assert.Equal(t, float64(3), record["results"])
	assert.Equal(t, float64(40), record["candidates"])

	assert.NotPanics(t, func() {
		LogMatchComplete(nil, "a{x}", 0, 0, 0)
	})
}

func TestLogMatchError(t *testing.T) {
	h := newTestHandler()
	LogMatchError(slog.New(h), "a{x}", errors.New("budget"), 2.0, 100)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "match failed", record["msg"])
	assert.Equal(t, "budget", record["error"])
	assert.Equal(t, float64(100), record["candidates"])

	assert.NotPanics(t, func() {
		LogMatchError(nil, "a{x}", errors.New("x"), 0, 0)
	})
}

func TestLogTemplateError(t *testing.T) {
	h := newTestHandler()
	LogTemplateError(slog.New(h), "{oops", errors.New("unclosed"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "template rejected", record["msg"])
	assert.Equal(t, "{oops", record["template"])

	assert.NotPanics(t, func() {
		LogTemplateError(nil, "{oops", errors.New("unclosed"))
	})
}

func TestLogOccurrences(t *testing.T) {
	h := newTestHandler()
	LogOccurrences(slog.New(h), "a{x}b", []int{1, 4})

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "literal occurrences located", record["msg"])
	assert.Equal(t, []any{float64(1), float64(4)}, record["sizes"])

	assert.NotPanics(t, func() {
		LogOccurrences(nil, "a{x}b", nil)
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	elapsed := done()

	assert.GreaterOrEqual(t, elapsed, 5.0)
	assert.Less(t, elapsed, 1000.0)
}
