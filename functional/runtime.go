package functional

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/vertigo/engine"
	"github.com/hupe1980/vertigo/shard"
)

// edgeIO abstracts how an edge value is read from and written to a record
// payload. The semi-synchronous mode stores the value directly; the
// bulk-synchronous mode goes through the slot parity of a paired payload.
type edgeIO[E any] interface {
	read(payload []byte, iteration int) E
	write(payload []byte, iteration int, v E)
}

// program adapts a Kernel to the engine's Program and EdgeGatherer
// contracts. Iteration 0 seeds vertex values with Init and scatters them;
// gathers begin at iteration 1.
type program[V, E any] struct {
	engine.NoopProgram

	kernel    Kernel[V, E]
	io        edgeIO[E]
	vals      []V
	acc       *accTable[E]
	threshold int
	locks     *engine.LockSet
	delta     func(old, cur V) float64

	kctx Context
	lo   uint32
}

func (p *program[V, E]) BeforeIteration(ctx *engine.Context) error {
	p.kctx = Context{
		Iteration:     ctx.Iteration(),
		NumIterations: ctx.NumIterations(),
		NumVertices:   ctx.NumVertices(),
	}
	return nil
}

func (p *program[V, E]) BeforeExecInterval(lo, hi uint32, ctx *engine.Context) error {
	p.lo = lo
	if ctx.Iteration() > 0 {
		p.acc.reset(int(hi-lo), p.kernel.Zero())
	}
	return nil
}

// GatherEdge folds one in-edge into the destination vertex's accumulator
// row. High in-degree vertices use the claiming range's cell; low in-degree
// vertices share cell 0 under the vertex's stripe lock.
func (p *program[V, E]) GatherEdge(src, dst uint32, payload []byte, cell int, ctx *engine.Context) error {
	iter := ctx.Iteration()
	if iter == 0 {
		return nil
	}
	vinfo := VertexInfo{ID: dst, InDegree: ctx.InDegree(dst), OutDegree: ctx.OutDegree(dst)}
	g := p.kernel.Gather(p.kctx, vinfo, src, p.io.read(payload, iter))
	row := int(dst - p.lo)
	if vinfo.InDegree > p.threshold {
		p.acc.combine(row, cell, g, p.kernel.Plus)
		return nil
	}
	p.locks.Lock(dst)
	p.acc.combine(row, 0, g, p.kernel.Plus)
	p.locks.Unlock(dst)
	return nil
}

func (p *program[V, E]) Update(v *engine.Vertex, ctx *engine.WorkerContext) error {
	id := v.ID()
	vinfo := VertexInfo{ID: id, InDegree: ctx.InDegree(id), OutDegree: ctx.OutDegree(id)}
	iter := ctx.Iteration()

	if iter == 0 {
		p.vals[id] = p.kernel.Init(p.kctx, vinfo)
		if p.delta != nil {
			// The seeding iteration applies nothing; it never counts as
			// converged.
			ctx.ObserveDelta(math.Inf(1))
		}
	} else {
		sum := p.acc.fold(int(id-p.lo), p.kernel.Plus)
		old := p.vals[id]
		cur := p.kernel.Apply(p.kctx, vinfo, old, sum)
		p.vals[id] = cur
		if p.delta != nil {
			ctx.ObserveDelta(p.delta(old, cur))
		}
	}

	if n := v.NumOutEdges(); n > 0 {
		if vinfo.OutDegree == 0 {
			return &KernelAssertionError{Vertex: id, Reason: "out-edges present but recorded out-degree is zero"}
		}
		val := p.vals[id]
		for i := 0; i < n; i++ {
			e := v.OutEdge(i)
			p.io.write(e.Data(), iter, p.kernel.Scatter(p.kctx, vinfo, e.Vertex(), val))
			e.MarkModified()
		}
	}
	return nil
}

// run opens the shard set at base, validates its payload layout and drives
// the kernel for numIterations iterations. The returned slice holds the
// final vertex values, indexed by vertex ID.
func run[V, E any](ctx context.Context, base string, kernel Kernel[V, E], io edgeIO[E], payloadSize int, paired, deterministic bool, numIterations int, opts Options) ([]V, error) {
	set, err := shard.Open(base)
	if err != nil {
		return nil, err
	}
	defer set.Close()

	man := set.Manifest()
	if man.Paired != paired {
		mode := "semi-synchronous"
		if paired {
			mode = "bulk-synchronous"
		}
		return nil, &shard.FormatError{
			Path:   shard.MetaPath(base),
			Reason: fmt.Sprintf("paired flag %t does not match %s mode", man.Paired, mode),
		}
	}
	if int(man.PayloadSize) != payloadSize {
		return nil, &shard.FormatError{
			Path:   shard.MetaPath(base),
			Reason: fmt.Sprintf("payload size %d does not match codec size %d", man.PayloadSize, payloadSize),
		}
	}
	if set.NumVertices() <= 0 {
		return nil, &KernelAssertionError{Reason: "graph has no vertices"}
	}

	eng, err := engine.New(set,
		engine.WithNumWorkers(opts.NumWorkers),
		engine.WithMemBudget(opts.MemBudget),
		engine.WithConvergenceThreshold(opts.ConvergenceThreshold),
		engine.WithDeterministic(deterministic),
		engine.WithModifiesInEdges(false),
		engine.WithModifiesOutEdges(true),
		engine.WithLogger(opts.Logger),
		engine.WithMetricsCollector(opts.Metrics),
	)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	prog := &program[V, E]{
		kernel:    kernel,
		io:        io,
		vals:      make([]V, set.NumVertices()),
		acc:       newAccTable[E](eng.NumWorkers()),
		threshold: opts.InDegreeThreshold,
		locks:     engine.NewLockSet(0),
	}
	if dk, ok := kernel.(DeltaKernel[V]); ok {
		prog.delta = dk.Delta
	}

	if err := eng.Run(ctx, prog, numIterations); err != nil {
		return nil, err
	}
	return prog.vals, nil
}
