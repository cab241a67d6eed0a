package engine

import (
	"sync/atomic"

	"github.com/hupe1980/vertigo/shard"
)

// Context carries run state into user program callbacks. One Context exists
// per run; iteration and interval fields are updated by the engine between
// parallel regions only.
type Context struct {
	iteration     int
	numIterations int
	numVertices   int
	numWorkers    int
	interval      shard.Interval

	deltas        *DeltaTracker
	scheduler     *Scheduler
	lastIteration atomic.Int64

	degrees *shard.Degrees
}

func newContext(numVertices, numWorkers int, degrees *shard.Degrees, scheduler *Scheduler) *Context {
	ctx := &Context{
		numVertices: numVertices,
		numWorkers:  numWorkers,
		deltas:      NewDeltaTracker(numWorkers),
		scheduler:   scheduler,
		degrees:     degrees,
	}
	ctx.lastIteration.Store(-1)
	return ctx
}

// Iteration returns the zero-based index of the current iteration.
func (c *Context) Iteration() int { return c.iteration }

// NumIterations returns the configured maximum iteration count for the run.
func (c *Context) NumIterations() int { return c.numIterations }

// NumVertices returns the vertex count of the graph.
func (c *Context) NumVertices() int { return c.numVertices }

// NumWorkers returns the size of the worker pool.
func (c *Context) NumWorkers() int { return c.numWorkers }

// Interval returns the interval currently being processed.
func (c *Context) Interval() shard.Interval { return c.interval }

// InDegree returns the in-degree of vertex v.
func (c *Context) InDegree(v uint32) int { return c.degrees.In(v) }

// OutDegree returns the out-degree of vertex v.
func (c *Context) OutDegree(v uint32) int { return c.degrees.Out(v) }

// SetLastIteration requests the run to terminate after iteration i. Safe for
// concurrent use from update workers.
func (c *Context) SetLastIteration(i int) {
	c.lastIteration.Store(int64(i))
}

func (c *Context) isLastIteration() bool {
	last := c.lastIteration.Load()
	return last >= 0 && int64(c.iteration) >= last
}

// ResetDeltas clears the per-worker delta accumulators. The engine calls
// this at iteration start; programs may call it again to restart tracking.
func (c *Context) ResetDeltas() { c.deltas.Reset() }

// MaxDelta reduces the per-worker delta maxima to the global maximum for
// the current iteration.
func (c *Context) MaxDelta() float64 { return c.deltas.Max() }

// Scheduler returns the selective-scheduling bitset, or nil when scheduling
// is disabled.
func (c *Context) Scheduler() *Scheduler { return c.scheduler }

// WorkerContext is the per-worker view handed to Update. Worker is the
// claiming worker's index in [0, NumWorkers).
type WorkerContext struct {
	*Context
	Worker int
}

// ObserveDelta records a delta into the worker's convergence cell.
func (c *WorkerContext) ObserveDelta(delta float64) {
	c.deltas.Observe(c.Worker, delta)
}
