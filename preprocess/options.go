package preprocess

import "log/slog"

const (
	defaultMemBudget  = 256 << 20
	defaultSpillEdges = 1 << 20
	defaultPayload    = 4
)

// Options configures a conversion.
type Options struct {
	// NumShards fixes the shard count. If not positive, the count is
	// derived from MemBudget so that every shard fits the budget.
	NumShards int

	// MemBudget is the byte budget one shard should fit when NumShards is
	// derived. Defaults to 256 MiB.
	MemBudget int64

	// PayloadSize is the edge payload width in bytes. Defaults to 4.
	PayloadSize int

	// Paired doubles the payload to two side-by-side slots, the layout the
	// bulk-synchronous runtime requires. Both slots are zeroed.
	Paired bool

	// SpillEdges is the in-memory edge count per shard before a sorted run
	// is spilled to disk.
	SpillEdges int

	// Logger receives structured progress logs. If nil, logging is disabled.
	Logger *slog.Logger
}

// WithNumShards fixes the shard count.
func WithNumShards(n int) func(*Options) {
	return func(o *Options) {
		o.NumShards = n
	}
}

// WithMemBudget sets the per-shard byte budget used to derive the shard
// count.
func WithMemBudget(bytes int64) func(*Options) {
	return func(o *Options) {
		o.MemBudget = bytes
	}
}

// WithPayloadSize sets the edge payload width in bytes.
func WithPayloadSize(n int) func(*Options) {
	return func(o *Options) {
		o.PayloadSize = n
	}
}

// WithPaired lays out two payload slots per edge for bulk-synchronous runs.
func WithPaired(enabled bool) func(*Options) {
	return func(o *Options) {
		o.Paired = enabled
	}
}

// WithSpillEdges sets the in-memory edge count per shard before spilling.
func WithSpillEdges(n int) func(*Options) {
	return func(o *Options) {
		o.SpillEdges = n
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

func applyOptions(optFns []func(*Options)) Options {
	opts := Options{
		MemBudget:   defaultMemBudget,
		PayloadSize: defaultPayload,
		SpillEdges:  defaultSpillEdges,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MemBudget <= 0 {
		opts.MemBudget = defaultMemBudget
	}
	if opts.PayloadSize <= 0 {
		opts.PayloadSize = defaultPayload
	}
	if opts.SpillEdges <= 0 {
		opts.SpillEdges = defaultSpillEdges
	}
	return opts
}
