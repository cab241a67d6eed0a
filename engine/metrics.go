package engine

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from the engine. Implement
// this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordIteration is called after each iteration with its duration and
	// the global maximum delta observed.
	RecordIteration(iteration int, duration time.Duration, maxDelta float64)

	// RecordIntervalLoad is called after an interval's buffers are loaded.
	// bytes covers the memory shard plus all sliding-window slices.
	RecordIntervalLoad(shard int, bytes int64, duration time.Duration)

	// RecordWriteBack is called after an interval's buffers are flushed.
	RecordWriteBack(shard int, bytes int64, duration time.Duration)

	// RecordUpdates is called after each update dispatch with the number of
	// vertex updates executed.
	RecordUpdates(count int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIteration(int, time.Duration, float64)  {}
func (NoopMetricsCollector) RecordIntervalLoad(int, int64, time.Duration) {}
func (NoopMetricsCollector) RecordWriteBack(int, int64, time.Duration)    {}
func (NoopMetricsCollector) RecordUpdates(int)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	Iterations          atomic.Int64
	IterationTotalNanos atomic.Int64
	BytesLoaded         atomic.Int64
	BytesWritten        atomic.Int64
	UpdateCount         atomic.Int64
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(iteration int, duration time.Duration, maxDelta float64) {
	b.Iterations.Add(1)
	b.IterationTotalNanos.Add(duration.Nanoseconds())
}

// RecordIntervalLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIntervalLoad(shard int, bytes int64, duration time.Duration) {
	b.BytesLoaded.Add(bytes)
}

// RecordWriteBack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWriteBack(shard int, bytes int64, duration time.Duration) {
	b.BytesWritten.Add(bytes)
}

// RecordUpdates implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdates(count int) {
	b.UpdateCount.Add(int64(count))
}
