package monitoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/paveg/salesreport/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("disabled collector only runs the step", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(false)
		assert.False(t, collector.IsEnabled())

		calls := 0
		err := collector.RecordStep("load", func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, collector.Metrics())
		assert.Equal(t, monitoring.MetricsSummary{}, collector.Summary())
	})

	t.Run("records steps in order", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)

		require.NoError(t, collector.RecordStep("load", func() error {
			time.Sleep(10 * time.Millisecond)
			return nil
		}))
		require.NoError(t, collector.RecordStep("customers", func() error { return nil }))

		metrics := collector.Metrics()
		require.Len(t, metrics, 2)
		assert.Equal(t, "load", metrics[0].Step)
		assert.Equal(t, "customers", metrics[1].Step)
		assert.Greater(t, metrics[0].Duration, 5*time.Millisecond)
		assert.False(t, metrics[0].Failed)
	})

	t.Run("failed steps are recorded and their error returned", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)
		boom := errors.New("boom")

		err := collector.RecordStep("returns", func() error { return boom })

		assert.ErrorIs(t, err, boom)
		metrics := collector.Metrics()
		require.Len(t, metrics, 1)
		assert.True(t, metrics[0].Failed)
	})

	t.Run("metrics are a copy", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)
		require.NoError(t, collector.RecordStep("load", func() error { return nil }))

		metrics := collector.Metrics()
		metrics[0].Step = "changed"
		assert.Equal(t, "load", collector.Metrics()[0].Step)
	})
}

func TestMetricsSummary(t *testing.T) {
	collector := monitoring.NewMetricsCollector(true)
	require.NoError(t, collector.RecordStep("fast", func() error { return nil }))
	require.NoError(t, collector.RecordStep("slow", func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}))
	_ = collector.RecordStep("broken", func() error { return errors.New("x") })

	summary := collector.Summary()
	assert.Equal(t, 3, summary.Steps)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "slow", summary.Slowest.Step)
	assert.GreaterOrEqual(t, summary.TotalDuration, summary.Slowest.Duration)
}
