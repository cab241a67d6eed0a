package vertigo

import "log/slog"

type options struct {
	numShards            int
	numWorkers           int
	memBudget            int64
	paired               bool
	convergenceThreshold float64
	metricsCollector     MetricsCollector
	logger               *Logger
}

// Option configures conversion and run behavior on the convenience surface.
type Option func(*options)

// WithNumShards configures the shard count used when converting an edge
// list. Zero picks a count from the memory budget and input size.
func WithNumShards(numShards int) Option {
	return func(o *options) {
		o.numShards = numShards
	}
}

// WithNumWorkers configures how many goroutines update vertices in
// parallel. Zero uses one worker per CPU.
func WithNumWorkers(numWorkers int) Option {
	return func(o *options) {
		o.numWorkers = numWorkers
	}
}

// WithMemBudget caps the bytes a run may hold in memory at once. The
// budget bounds the interval working set, not total process memory.
func WithMemBudget(memBudget int64) Option {
	return func(o *options) {
		o.memBudget = memBudget
	}
}

// WithPaired converts the edge list with double-buffered payloads, the
// layout bulk-synchronous runs require. Sets converted this way cost twice
// the payload bytes on disk.
func WithPaired(paired bool) Option {
	return func(o *options) {
		o.paired = paired
	}
}

// WithConvergenceThreshold stops a kernel run early once the largest value
// change in an iteration falls below threshold. Zero disables early stop.
func WithConvergenceThreshold(threshold float64) Option {
	return func(o *options) {
		o.convergenceThreshold = threshold
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vertigo.BasicMetricsCollector{}
//	g, _ := vertigo.Open(base, vertigo.WithMetricsCollector(metrics))
//	ranks, _ := g.PageRank(ctx, 20)
//	fmt.Printf("updates: %d\n", metrics.UpdateCount.Load())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for conversions and runs.
//
// Example with JSON logging:
//
//	logger := vertigo.NewJSONLogger(slog.LevelInfo)
//	g, _ := vertigo.Open(base, vertigo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
