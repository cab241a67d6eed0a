package vertigo

import "github.com/hupe1980/vertigo/engine"

// MetricsCollector is the engine metrics interface, re-exported so callers
// of the convenience surface never import engine just to pass a collector.
type MetricsCollector = engine.MetricsCollector

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector = engine.NoopMetricsCollector

// BasicMetricsCollector counts iterations, bytes moved, and updates in
// memory. Useful for debugging without external dependencies.
type BasicMetricsCollector = engine.BasicMetricsCollector
