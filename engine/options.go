package engine

import (
	"log/slog"
	"runtime"
)

// Options configures an engine run.
type Options struct {
	// NumWorkers is the size of the update worker pool. If not positive,
	// GOMAXPROCS is used.
	NumWorkers int

	// MemBudget caps the bytes loaded for one interval step (memory shard
	// plus sliding windows). Zero means unlimited. An interval whose working
	// set exceeds the budget fails the run with a *shard.BudgetError.
	MemBudget int64

	// Deterministic enables ID-ordered stripe locking around updates so that
	// two runs over the same input produce identical results. Disabling it
	// removes the locking overhead; programs must then tolerate racy
	// neighbor reads.
	Deterministic bool

	// ModifiesInEdges declares that updates mutate in-edge payloads. When
	// false the memory shard is not written back unless intra-interval
	// out-edges were changed.
	ModifiesInEdges bool

	// ModifiesOutEdges declares that updates mutate out-edge payloads. When
	// false the sliding-window buffers are not written back.
	ModifiesOutEdges bool

	// ConvergenceThreshold terminates the run early once an iteration's
	// global maximum delta falls below it. Zero disables the check.
	ConvergenceThreshold float64

	// EnableScheduler turns on selective scheduling: only vertices in the
	// current task set are updated, and updates add tasks for the next
	// iteration through Context.Scheduler.
	EnableScheduler bool

	// LockStripes is the size of the striped lock table used in
	// deterministic mode. If not positive, a default is used.
	LockStripes int

	// Logger receives structured progress logs. If nil, logging is disabled.
	Logger *slog.Logger

	// Metrics receives operational metrics. If nil, collection is disabled.
	Metrics MetricsCollector
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{
		NumWorkers:       runtime.GOMAXPROCS(0),
		Deterministic:    true,
		ModifiesInEdges:  true,
		ModifiesOutEdges: true,
	}
}

// WithNumWorkers sets the update worker pool size.
func WithNumWorkers(n int) func(*Options) {
	return func(o *Options) {
		o.NumWorkers = n
	}
}

// WithMemBudget caps the bytes loaded per interval step. Zero means
// unlimited.
func WithMemBudget(bytes int64) func(*Options) {
	return func(o *Options) {
		o.MemBudget = bytes
	}
}

// WithDeterministic toggles deterministic parallelism. It is enabled by
// default.
func WithDeterministic(enabled bool) func(*Options) {
	return func(o *Options) {
		o.Deterministic = enabled
	}
}

// WithModifiesInEdges declares whether updates mutate in-edge payloads.
// Both edge directions are declared modified by default.
func WithModifiesInEdges(enabled bool) func(*Options) {
	return func(o *Options) {
		o.ModifiesInEdges = enabled
	}
}

// WithModifiesOutEdges declares whether updates mutate out-edge payloads.
func WithModifiesOutEdges(enabled bool) func(*Options) {
	return func(o *Options) {
		o.ModifiesOutEdges = enabled
	}
}

// WithConvergenceThreshold enables early termination once the global
// maximum delta of an iteration falls below threshold.
func WithConvergenceThreshold(threshold float64) func(*Options) {
	return func(o *Options) {
		o.ConvergenceThreshold = threshold
	}
}

// WithScheduler enables selective scheduling.
func WithScheduler(enabled bool) func(*Options) {
	return func(o *Options) {
		o.EnableScheduler = enabled
	}
}

// WithLockStripes sets the striped lock table size for deterministic mode.
func WithLockStripes(n int) func(*Options) {
	return func(o *Options) {
		o.LockStripes = n
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable.
func WithMetricsCollector(m MetricsCollector) func(*Options) {
	return func(o *Options) {
		o.Metrics = m
	}
}
