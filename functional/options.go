package functional

import (
	"log/slog"

	"github.com/hupe1980/vertigo/engine"
)

// Options configures a functional run.
type Options struct {
	// NumWorkers is the worker pool size. If not positive, GOMAXPROCS is
	// used.
	NumWorkers int

	// MemBudget caps the bytes loaded per interval step. Zero means
	// unlimited.
	MemBudget int64

	// ConvergenceThreshold terminates the run early once an iteration's
	// global maximum delta falls below it. Zero disables the check. Only
	// kernels implementing DeltaKernel report deltas.
	ConvergenceThreshold float64

	// InDegreeThreshold selects the accumulation strategy: vertices with an
	// in-degree above the threshold gather into per-worker cells that are
	// combined before Apply; vertices at or below it share a single locked
	// cell. The default of zero gives every vertex with in-edges its own
	// per-worker cells.
	InDegreeThreshold int

	// Logger receives structured progress logs. If nil, logging is disabled.
	Logger *slog.Logger

	// Metrics receives operational metrics. If nil, collection is disabled.
	Metrics engine.MetricsCollector
}

// WithNumWorkers sets the worker pool size.
func WithNumWorkers(n int) func(*Options) {
	return func(o *Options) {
		o.NumWorkers = n
	}
}

// WithMemBudget caps the bytes loaded per interval step.
func WithMemBudget(bytes int64) func(*Options) {
	return func(o *Options) {
		o.MemBudget = bytes
	}
}

// WithConvergenceThreshold enables early termination below threshold.
func WithConvergenceThreshold(threshold float64) func(*Options) {
	return func(o *Options) {
		o.ConvergenceThreshold = threshold
	}
}

// WithInDegreeThreshold sets the per-worker accumulation threshold.
func WithInDegreeThreshold(n int) func(*Options) {
	return func(o *Options) {
		o.InDegreeThreshold = n
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable.
func WithMetricsCollector(m engine.MetricsCollector) func(*Options) {
	return func(o *Options) {
		o.Metrics = m
	}
}

func applyOptions(optFns []func(*Options)) Options {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
