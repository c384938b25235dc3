package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a function to collect metrics.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumValue totals an int64 counter across data points.
func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordMatch(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records calls, latency, results and candidates", func(t *testing.T) {
		m.RecordMatch(ctx, true, 3*time.Millisecond, 2, 17, nil)

		rm := collectMetrics(t, reader)

		calls := findMetric(rm, "retemplate.match.calls")
		require.NotNil(t, calls)
		assert.GreaterOrEqual(t, sumValue(t, calls), int64(1))

		latency := findMetric(rm, "retemplate.match.latency_ms")
		require.NotNil(t, latency)
		hist, ok := latency.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)

		results := findMetric(rm, "retemplate.match.results")
		require.NotNil(t, results)
		ihist, ok := results.Data.(metricdata.Histogram[int64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, ihist.DataPoints)
		assert.Equal(t, int64(2), ihist.DataPoints[0].Sum)

		candidates := findMetric(rm, "retemplate.match.candidates")
		require.NotNil(t, candidates)
	})

	t.Run("records errors with case_sensitive attribute", func(t *testing.T) {
		m.RecordMatch(ctx, false, time.Millisecond, 0, 5, errors.New("budget"))

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "retemplate.match.errors")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		found := false
		for _, dp := range sum.DataPoints {
			for _, attr := range dp.Attributes.ToSlice() {
				if attr.Key == "case_sensitive" && !attr.Value.AsBool() {
					found = true
					assert.GreaterOrEqual(t, dp.Value, int64(1))
				}
			}
		}
		assert.True(t, found, "Expected error datapoint for case_sensitive=false")
	})
}

func TestRecordTemplateParse(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordTemplateParse(ctx, 2, nil)
	m.RecordTemplateParse(ctx, 0, errors.New("malformed"))

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "retemplate.template.parses")
	require.NotNil(t, metric)
	assert.Equal(t, int64(2), sumValue(t, metric))
}
