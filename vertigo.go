package vertigo

import (
	"context"

	"github.com/hupe1980/vertigo/apps"
	"github.com/hupe1980/vertigo/engine"
	"github.com/hupe1980/vertigo/functional"
	"github.com/hupe1980/vertigo/preprocess"
	"github.com/hupe1980/vertigo/shard"
)

// Graph is a handle on a converted shard set. It holds no open files;
// every run opens and closes the set on its own.
type Graph struct {
	base string
	man  shard.Manifest
	opts options
}

// Open returns a handle on the shard set at base.
func Open(base string, optFns ...Option) (*Graph, error) {
	man, err := shard.ReadManifest(shard.MetaPath(base))
	if err != nil {
		return nil, err
	}
	return &Graph{base: base, man: man, opts: applyOptions(optFns)}, nil
}

// FromEdgeList converts the edge-list file at input into a shard set at
// base, skipping the conversion when a matching set already exists, and
// returns a handle on it.
func FromEdgeList(ctx context.Context, input, base string, optFns ...Option) (*Graph, error) {
	opts := applyOptions(optFns)

	err := preprocess.ConvertIfNeeded(ctx, input, base,
		preprocess.WithNumShards(opts.numShards),
		preprocess.WithMemBudget(opts.memBudget),
		preprocess.WithPaired(opts.paired),
		preprocess.WithLogger(opts.logger.Logger),
	)
	opts.logger.LogConvert(ctx, input, base, err)
	if err != nil {
		return nil, err
	}
	return Open(base, optFns...)
}

// Base returns the shard set base name.
func (g *Graph) Base() string { return g.base }

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return int(g.man.NumVertices) }

// NumShards returns the shard count.
func (g *Graph) NumShards() int { return int(g.man.NumShards) }

// Paired reports whether the set carries double-buffered payloads, the
// layout bulk-synchronous runs require.
func (g *Graph) Paired() bool { return g.man.Paired }

// PageRank runs PageRank and returns the final rank of every vertex. The
// execution mode follows the set layout: paired sets run bulk-synchronous,
// single-payload sets run semi-synchronous.
func (g *Graph) PageRank(ctx context.Context, numIterations int) ([]float32, error) {
	ranks, err := runKernel[float32](ctx, g, apps.PageRank{}, shard.Float32{}, numIterations)
	g.opts.logger.LogRun(ctx, "pagerank", numIterations, err)
	return ranks, err
}

// ShortestPaths runs unweighted single-source shortest paths from source.
// Unreachable vertices hold apps.Unreachable.
func (g *Graph) ShortestPaths(ctx context.Context, source uint32, numIterations int) ([]int32, error) {
	dists, err := runKernel[int32](ctx, g, apps.SSSP{Source: source}, shard.Int32{}, numIterations)
	g.opts.logger.LogRun(ctx, "sssp", numIterations, err)
	return dists, err
}

// Color greedily colors the graph and returns one color per vertex. The
// run stops early once no vertex changes its color.
func (g *Graph) Color(ctx context.Context, numIterations int) ([]uint32, error) {
	colors, err := apps.RunColoring(ctx, g.base, numIterations, g.engineOptions()...)
	g.opts.logger.LogRun(ctx, "coloring", numIterations, err)
	return colors, err
}

// Run executes a raw engine program over the set. Use this for
// computations that need direct edge access or selective scheduling.
func (g *Graph) Run(ctx context.Context, prog engine.Program, numIterations int, optFns ...func(*engine.Options)) error {
	set, err := shard.Open(g.base)
	if err != nil {
		return err
	}
	defer set.Close()

	eng, err := engine.New(set, append(g.engineOptions(), optFns...)...)
	if err != nil {
		return err
	}
	return eng.Run(ctx, prog, numIterations)
}

func runKernel[V, E any](ctx context.Context, g *Graph, kernel functional.Kernel[V, E], codec shard.Codec[E], numIterations int) ([]V, error) {
	optFns := g.functionalOptions()
	if g.man.Paired {
		return functional.RunBulkSync(ctx, g.base, kernel, codec, numIterations, optFns...)
	}
	return functional.RunSemiSync(ctx, g.base, kernel, codec, numIterations, optFns...)
}

func (g *Graph) functionalOptions() []func(*functional.Options) {
	optFns := []func(*functional.Options){
		functional.WithLogger(g.opts.logger.Logger),
		functional.WithMetricsCollector(g.opts.metricsCollector),
		functional.WithConvergenceThreshold(g.opts.convergenceThreshold),
	}
	if g.opts.numWorkers > 0 {
		optFns = append(optFns, functional.WithNumWorkers(g.opts.numWorkers))
	}
	if g.opts.memBudget > 0 {
		optFns = append(optFns, functional.WithMemBudget(g.opts.memBudget))
	}
	return optFns
}

func (g *Graph) engineOptions() []func(*engine.Options) {
	optFns := []func(*engine.Options){
		engine.WithLogger(g.opts.logger.Logger),
		engine.WithMetricsCollector(g.opts.metricsCollector),
	}
	if g.opts.numWorkers > 0 {
		optFns = append(optFns, engine.WithNumWorkers(g.opts.numWorkers))
	}
	if g.opts.memBudget > 0 {
		optFns = append(optFns, engine.WithMemBudget(g.opts.memBudget))
	}
	return optFns
}
