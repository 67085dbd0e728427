// Package monitoring records how long each step of a report run takes.
package monitoring

import (
	"runtime"
	"time"
)

// StepMetrics is the measurement of one pipeline step.
type StepMetrics struct {
	Step      string        `json:"step"`
	Duration  time.Duration `json:"duration"`
	HeapDelta int64         `json:"heap_delta"` // may be negative after a GC
	Failed    bool          `json:"failed"`
}

// MetricsCollector times pipeline steps in the order they run. A disabled
// collector only runs the steps.
type MetricsCollector struct {
	metrics []StepMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{enabled: enabled}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	return mc.enabled
}

// RecordStep runs fn and records its duration and heap growth, also when fn
// fails. The error of fn is returned unchanged.
func (mc *MetricsCollector) RecordStep(step string, fn func() error) error {
	if !mc.enabled {
		return fn()
	}

	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	err := fn()

	duration := time.Since(start)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	mc.metrics = append(mc.metrics, StepMetrics{
		Step:      step,
		Duration:  duration,
		HeapDelta: int64(after.HeapAlloc) - int64(before.HeapAlloc), //nolint:gosec // heap sizes fit in int64
		Failed:    err != nil,
	})
	return err
}

// Metrics returns a copy of the recorded steps.
func (mc *MetricsCollector) Metrics() []StepMetrics {
	result := make([]StepMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Summary aggregates the recorded steps.
func (mc *MetricsCollector) Summary() MetricsSummary {
	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	s := MetricsSummary{Steps: len(mc.metrics)}
	for _, m := range mc.metrics {
		s.TotalDuration += m.Duration
		if m.Duration > s.Slowest.Duration {
			s.Slowest = m
		}
		if m.Failed {
			s.Failed++
		}
	}
	return s
}

// MetricsSummary provides aggregate statistics for the recorded steps.
type MetricsSummary struct {
	Steps         int           `json:"steps"`
	Failed        int           `json:"failed"`
	TotalDuration time.Duration `json:"total_duration"`
	Slowest       StepMetrics   `json:"slowest"`
}
