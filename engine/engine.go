package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vertigo/shard"
)

// Engine runs vertex-centric programs over a shard set with the parallel
// sliding windows schedule: per interval it loads the memory shard and the
// sliding-window slices of all other shards, dispatches vertex updates
// across the worker pool, and writes the modified buffers back in place.
type Engine struct {
	set     *shard.ShardSet
	opts    Options
	degrees *shard.Degrees
	windows *windowSet
	locks   *LockSet
	pool    *WorkerPool
	logger  *slog.Logger
	metrics MetricsCollector
}

// New creates an engine for the given open shard set. The degree file of the
// set's base name is loaded eagerly; the worker pool is started immediately
// and released by Close.
func New(set *shard.ShardSet, optFns ...func(*Options)) (*Engine, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	degrees, err := shard.LoadDegrees(shard.DegreePath(set.Base()), set.NumVertices())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		set:     set,
		opts:    opts,
		degrees: degrees,
		windows: newWindowSet(set),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.metrics == nil {
		e.metrics = NoopMetricsCollector{}
	}
	if opts.Deterministic {
		e.locks = NewLockSet(opts.LockStripes)
	}
	e.pool = NewWorkerPool(opts.NumWorkers)
	e.opts.NumWorkers = e.pool.NumWorkers()
	return e, nil
}

// NumWorkers returns the size of the update worker pool.
func (e *Engine) NumWorkers() int { return e.opts.NumWorkers }

// Degrees returns the degree table of the open shard set.
func (e *Engine) Degrees() *shard.Degrees { return e.degrees }

// Close stops the worker pool. The shard set itself stays open; closing it
// is the caller's responsibility.
func (e *Engine) Close() {
	e.pool.Close()
}

// Run executes prog for up to numIterations iterations. Intervals are
// processed in ascending order within each iteration; dirty buffers are
// flushed after every interval step and every edge file is fsynced once the
// run ends. The run terminates early when the program requests it, when the
// convergence threshold is met, or when selective scheduling runs out of
// tasks. Cancellation of ctx is observed at interval boundaries.
func (e *Engine) Run(ctx context.Context, prog Program, numIterations int) error {
	if numIterations < 0 {
		return ErrInvalidIterations
	}

	var sched *Scheduler
	if e.opts.EnableScheduler {
		sched = NewScheduler(e.set.NumVertices())
	}
	rctx := newContext(e.set.NumVertices(), e.opts.NumWorkers, e.degrees, sched)
	rctx.numIterations = numIterations

	e.logger.Info("run started",
		slog.Int("num_vertices", e.set.NumVertices()),
		slog.Int("num_shards", e.set.NumShards()),
		slog.Int("num_workers", e.opts.NumWorkers),
		slog.Int("num_iterations", numIterations),
	)

	for iter := 0; iter < numIterations; iter++ {
		if sched != nil && sched.NumScheduled() == 0 {
			e.logger.Info("no scheduled tasks, terminating", slog.Int("iteration", iter))
			break
		}

		start := time.Now()
		rctx.iteration = iter
		rctx.ResetDeltas()

		if err := prog.BeforeIteration(rctx); err != nil {
			return fmt.Errorf("iteration %d: %w", iter, err)
		}

		for p, iv := range e.set.Intervals() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.runInterval(prog, p, iv, rctx); err != nil {
				return fmt.Errorf("iteration %d interval [%d,%d): %w", iter, iv.Lo, iv.Hi, err)
			}
		}

		if err := prog.AfterIteration(rctx); err != nil {
			return fmt.Errorf("iteration %d: %w", iter, err)
		}

		maxDelta := rctx.MaxDelta()
		e.metrics.RecordIteration(iter, time.Since(start), maxDelta)
		e.logger.Debug("iteration done",
			slog.Int("iteration", iter),
			slog.Float64("max_delta", maxDelta),
			slog.Duration("duration", time.Since(start)),
		)

		if sched != nil {
			sched.Advance()
		}
		if rctx.isLastIteration() {
			e.logger.Info("program requested termination", slog.Int("iteration", iter))
			break
		}
		if e.opts.ConvergenceThreshold > 0 && maxDelta < e.opts.ConvergenceThreshold {
			e.logger.Info("converged",
				slog.Int("iteration", iter),
				slog.Float64("max_delta", maxDelta),
			)
			break
		}
	}

	return e.set.Sync()
}

func (e *Engine) runInterval(prog Program, p int, iv shard.Interval, rctx *Context) error {
	need := e.set.ShardSize(p) + e.windows.size(p, iv)
	if e.opts.MemBudget > 0 && need > e.opts.MemBudget {
		return &shard.BudgetError{Interval: iv, Need: need, Budget: e.opts.MemBudget}
	}

	loadStart := time.Now()
	mem, err := e.set.LoadShard(p)
	if err != nil {
		return err
	}
	wins, err := e.windows.load(p, iv)
	if err != nil {
		return err
	}
	e.metrics.RecordIntervalLoad(p, need, time.Since(loadStart))

	rctx.interval = iv
	if err := prog.BeforeExecInterval(iv.Lo, iv.Hi, rctx); err != nil {
		return err
	}

	vertices := materialize(iv, mem, wins, e.degrees, e.locks)
	gatherer, _ := prog.(EdgeGatherer)

	for {
		if gatherer != nil {
			if err := e.runGather(gatherer, mem, rctx); err != nil {
				return err
			}
		}
		if err := e.runUpdates(prog, vertices, rctx); err != nil {
			return err
		}
		if !prog.RepeatUpdates(rctx) {
			break
		}
	}

	wbStart := time.Now()
	var written int64
	if e.opts.ModifiesInEdges || e.opts.ModifiesOutEdges {
		if mem.Dirty() {
			written += int64(len(mem.Bytes()))
		}
		if err := e.set.WriteBack(mem); err != nil {
			return err
		}
	}
	if e.opts.ModifiesOutEdges {
		n, err := e.windows.writeBack()
		written += n
		if err != nil {
			return err
		}
	}
	e.metrics.RecordWriteBack(p, written, time.Since(wbStart))
	return nil
}

// runGather executes the edge-parallel pre-aggregation pass over the memory
// shard. Records are split into one contiguous range per cell, and the
// range-to-cell assignment depends only on the record count and worker
// count, so accumulation order is deterministic per cell.
func (e *Engine) runGather(g EdgeGatherer, mem *shard.Block, rctx *Context) error {
	n := mem.NumRecords()
	if n == 0 {
		return nil
	}
	cells := e.opts.NumWorkers
	return e.pool.Execute(cells, func(_, cell int) error {
		lo, hi := cell*n/cells, (cell+1)*n/cells
		for i := lo; i < hi; i++ {
			if err := g.GatherEdge(mem.Src(i), mem.Dst(i), mem.Payload(i), cell, rctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Engine) runUpdates(prog Program, vertices []Vertex, rctx *Context) error {
	sched := rctx.scheduler
	var count atomic.Int64
	err := e.pool.Execute(len(vertices), func(worker, task int) error {
		v := &vertices[task]
		if sched != nil && !sched.IsScheduled(v.id) {
			return nil
		}
		count.Add(1)
		wctx := &WorkerContext{Context: rctx, Worker: worker}
		if e.locks != nil {
			e.locks.LockAll(v.lockStripes)
			defer e.locks.UnlockAll(v.lockStripes)
		}
		return prog.Update(v, wctx)
	})
	e.metrics.RecordUpdates(int(count.Load()))
	return err
}
