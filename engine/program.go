package engine

// Program is the vertex-centric user program contract. Update is the only
// callback invoked from the parallel region; the rest run on the engine
// goroutine between parallel phases.
type Program interface {
	// BeforeIteration is called at the start of every iteration.
	BeforeIteration(ctx *Context) error

	// AfterIteration is called after all intervals of an iteration have been
	// processed and written back.
	AfterIteration(ctx *Context) error

	// BeforeExecInterval is called after an interval's buffers are loaded,
	// before updates are dispatched.
	BeforeExecInterval(lo, hi uint32, ctx *Context) error

	// Update is called once per scheduled vertex in the interval, in
	// parallel across the worker pool.
	Update(v *Vertex, ctx *WorkerContext) error

	// RepeatUpdates is consulted after an interval's update pass. Returning
	// true reruns the pass on the current in-memory buffers before
	// write-back.
	RepeatUpdates(ctx *Context) bool
}

// EdgeGatherer is an optional extension implemented by programs that
// pre-aggregate in-edge contributions before vertex updates run. When a
// program implements it, the engine runs an edge-parallel pass over the
// memory shard before the update dispatch: the shard's records are split
// into one contiguous range per cell index, and GatherEdge is invoked for
// every record. The range-to-cell assignment is static, so a fixed cell
// count yields a deterministic accumulation order.
type EdgeGatherer interface {
	// GatherEdge consumes one in-edge record of the current interval.
	// cell is the index of the record's range in [0, NumWorkers).
	GatherEdge(src, dst uint32, payload []byte, cell int, ctx *Context) error
}

// NoopProgram provides no-op implementations of the optional callbacks.
// Embed it to implement only Update.
type NoopProgram struct{}

func (NoopProgram) BeforeIteration(*Context) error                 { return nil }
func (NoopProgram) AfterIteration(*Context) error                  { return nil }
func (NoopProgram) BeforeExecInterval(uint32, uint32, *Context) error { return nil }
func (NoopProgram) RepeatUpdates(*Context) bool                    { return false }
