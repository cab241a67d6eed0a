package functional

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vertigo/shard"
)

type edge struct{ src, dst uint32 }

// writeGraph writes a shard set for the given edge list, partitioned by the
// interval table and seeded with zero payloads.
func writeGraph(t *testing.T, base string, n uint32, edges []edge, payloadSize uint32, paired bool, intervals []shard.Interval) {
	t.Helper()

	in := make([]uint32, n)
	out := make([]uint32, n)
	for _, e := range edges {
		out[e.src]++
		in[e.dst]++
	}

	payload := make([]byte, payloadSize)
	for p, iv := range intervals {
		var own []edge
		for _, e := range edges {
			if iv.Contains(e.dst) {
				own = append(own, e)
			}
		}
		sort.Slice(own, func(i, j int) bool {
			if own[i].src != own[j].src {
				return own[i].src < own[j].src
			}
			return own[i].dst < own[j].dst
		})

		w, err := shard.NewWriter(base, p, int(payloadSize))
		require.NoError(t, err)
		for _, e := range own {
			require.NoError(t, w.Append(e.src, e.dst, payload))
		}
		require.NoError(t, w.Close())
	}

	require.NoError(t, shard.WriteDegrees(shard.DegreePath(base), in, out))
	require.NoError(t, shard.WriteManifest(shard.MetaPath(base), shard.Manifest{
		NumVertices: n,
		NumShards:   uint32(len(intervals)),
		PayloadSize: payloadSize,
		Paired:      paired,
		Intervals:   intervals,
	}))
}

// chainKernel counts accumulated flow along edges: every vertex starts at
// its own ID, scatters its value and applies the sum of gathered values
// plus its previous value. Integer arithmetic keeps results exact across
// shard layouts and worker counts.
type chainKernel struct {
	applies atomic.Int64
}

func (k *chainKernel) Init(ctx Context, v VertexInfo) int32 { return int32(v.ID) }
func (k *chainKernel) Zero() int32                          { return 0 }

func (k *chainKernel) Gather(ctx Context, v VertexInfo, nb uint32, val int32) int32 {
	return val
}

func (k *chainKernel) Plus(a, b int32) int32 { return a + b }

func (k *chainKernel) Apply(ctx Context, v VertexInfo, cur, sum int32) int32 {
	k.applies.Add(1)
	return cur + sum
}

func (k *chainKernel) Scatter(ctx Context, v VertexInfo, nb uint32, val int32) int32 {
	return val
}

func ringEdges(n uint32) []edge {
	edges := make([]edge, n)
	for i := uint32(0); i < n; i++ {
		edges[i] = edge{src: i, dst: (i + 1) % n}
	}
	return edges
}

func TestZeroIterationsLeaveShardBytesUntouched(t *testing.T) {
	base := filepath.Join(t.TempDir(), "g")
	writeGraph(t, base, 4, ringEdges(4), 4, false, []shard.Interval{{Lo: 0, Hi: 2}, {Lo: 2, Hi: 4}})

	before := make([][]byte, 2)
	for p := range before {
		b, err := os.ReadFile(shard.EdgePath(base, p))
		require.NoError(t, err)
		before[p] = b
	}

	_, err := RunSemiSync[int32, int32](context.Background(), base, &chainKernel{}, shard.Int32{}, 0)
	require.NoError(t, err)

	for p := range before {
		after, err := os.ReadFile(shard.EdgePath(base, p))
		require.NoError(t, err)
		assert.Equal(t, before[p], after, "shard %d", p)
	}
}

func TestSemiSyncGatherAppliesEdgeValues(t *testing.T) {
	// Star: 1->0, 2->0, 3->0. After iteration 1, vertex 0 holds its own ID
	// plus the scattered IDs of all sources.
	base := filepath.Join(t.TempDir(), "g")
	edges := []edge{{1, 0}, {2, 0}, {3, 0}}
	writeGraph(t, base, 4, edges, 4, false, []shard.Interval{{Lo: 0, Hi: 4}})

	vals, err := RunSemiSync[int32, int32](context.Background(), base, &chainKernel{}, shard.Int32{}, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(0+1+2+3), vals[0])
	assert.Equal(t, int32(1), vals[1])
}

func TestEmptyGraphValuesPersist(t *testing.T) {
	base := filepath.Join(t.TempDir(), "g")
	writeGraph(t, base, 5, nil, 4, false, []shard.Interval{{Lo: 0, Hi: 5}})

	kernel := &chainKernel{}
	vals, err := RunSemiSync[int32, int32](context.Background(), base, kernel, shard.Int32{}, 3)
	require.NoError(t, err)

	// No edges: Apply sees a zero sum every iteration, so the Init values
	// survive the whole run.
	for v, got := range vals {
		assert.Equal(t, int32(v), got, "vertex %d", v)
	}
	assert.Equal(t, int64(2*5), kernel.applies.Load())
}

// selfLoopKernel increments through a self-loop: the value gathered at
// iteration i must be the value scattered at iteration i-1.
type selfLoopKernel struct{}

func (selfLoopKernel) Init(Context, VertexInfo) int32                  { return 1 }
func (selfLoopKernel) Zero() int32                                     { return 0 }
func (selfLoopKernel) Gather(_ Context, _ VertexInfo, _ uint32, val int32) int32 { return val }
func (selfLoopKernel) Plus(a, b int32) int32                           { return a + b }
func (selfLoopKernel) Apply(_ Context, _ VertexInfo, _, sum int32) int32 { return sum + 1 }
func (selfLoopKernel) Scatter(_ Context, _ VertexInfo, _ uint32, val int32) int32 {
	return val
}

func TestBulkSyncSelfLoopSeesPreviousIterationValue(t *testing.T) {
	base := filepath.Join(t.TempDir(), "g")
	edges := []edge{{0, 0}, {0, 1}}
	writeGraph(t, base, 2, edges, 8, true, []shard.Interval{{Lo: 0, Hi: 2}})

	const iters = 5
	vals, err := RunBulkSync[int32, int32](context.Background(), base, selfLoopKernel{}, shard.Int32{}, iters)
	require.NoError(t, err)

	// Iteration 0 seeds 1; each later iteration sees the previous value
	// through the self-loop and adds 1.
	assert.Equal(t, int32(iters), vals[0])
}

func TestShardCountDoesNotChangeResults(t *testing.T) {
	edges := []edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}}

	// Bulk-sync reads a coherent previous-iteration snapshot, so the
	// partition cannot influence results.
	runWith := func(intervals []shard.Interval) []int32 {
		base := filepath.Join(t.TempDir(), "g")
		writeGraph(t, base, 4, edges, 8, true, intervals)
		vals, err := RunBulkSync[int32, int32](context.Background(), base, &chainKernel{}, shard.Int32{}, 4,
			WithNumWorkers(1))
		require.NoError(t, err)
		return vals
	}

	one := runWith([]shard.Interval{{Lo: 0, Hi: 4}})
	two := runWith([]shard.Interval{{Lo: 0, Hi: 2}, {Lo: 2, Hi: 4}})
	assert.Equal(t, one, two)
}

func TestModeMismatchRejected(t *testing.T) {
	dir := t.TempDir()

	single := filepath.Join(dir, "single")
	writeGraph(t, single, 2, ringEdges(2), 4, false, []shard.Interval{{Lo: 0, Hi: 2}})
	_, err := RunBulkSync[int32, int32](context.Background(), single, &chainKernel{}, shard.Int32{}, 1)
	assert.ErrorIs(t, err, shard.ErrShardFormat)

	paired := filepath.Join(dir, "paired")
	writeGraph(t, paired, 2, ringEdges(2), 8, true, []shard.Interval{{Lo: 0, Hi: 2}})
	_, err = RunSemiSync[int32, int32](context.Background(), paired, &chainKernel{}, shard.Int32{}, 1)
	assert.ErrorIs(t, err, shard.ErrShardFormat)
}

func TestPayloadSizeMismatchRejected(t *testing.T) {
	base := filepath.Join(t.TempDir(), "g")
	writeGraph(t, base, 2, ringEdges(2), 8, false, []shard.Interval{{Lo: 0, Hi: 2}})

	_, err := RunSemiSync[int32, int32](context.Background(), base, &chainKernel{}, shard.Int32{}, 1)
	assert.ErrorIs(t, err, shard.ErrShardFormat)
}

// convergingKernel stops changing after the first apply.
type convergingKernel struct {
	iterations atomic.Int64
}

func (k *convergingKernel) Init(Context, VertexInfo) float64 { return 1 }
func (k *convergingKernel) Zero() float64                    { return 0 }

func (k *convergingKernel) Gather(_ Context, _ VertexInfo, _ uint32, val float64) float64 {
	return val
}

func (k *convergingKernel) Plus(a, b float64) float64 { return a + b }

func (k *convergingKernel) Apply(ctx Context, v VertexInfo, cur, sum float64) float64 {
	if v.ID == 0 {
		k.iterations.Add(1)
	}
	return sum
}

func (k *convergingKernel) Scatter(_ Context, _ VertexInfo, _ uint32, val float64) float64 {
	return val
}

func (k *convergingKernel) Delta(old, cur float64) float64 {
	d := cur - old
	if d < 0 {
		d = -d
	}
	return d
}

func TestConvergenceThresholdTerminatesRun(t *testing.T) {
	base := filepath.Join(t.TempDir(), "g")
	writeGraph(t, base, 4, ringEdges(4), 8, false, []shard.Interval{{Lo: 0, Hi: 4}})

	kernel := &convergingKernel{}
	_, err := RunSemiSync[float64, float64](context.Background(), base, kernel, shard.Float64{}, 50,
		WithConvergenceThreshold(1e-6))
	require.NoError(t, err)

	// On a ring the value 1 circulates unchanged, so every apply after the
	// first reports a zero delta and the run stops long before 50.
	assert.Less(t, kernel.iterations.Load(), int64(5))
}

func TestAccumulatorThresholdEquivalence(t *testing.T) {
	edges := []edge{{1, 0}, {2, 0}, {3, 0}, {0, 1}, {2, 1}, {0, 2}, {0, 3}}

	runWith := func(threshold int) []int32 {
		base := filepath.Join(t.TempDir(), "g")
		writeGraph(t, base, 4, edges, 4, false, []shard.Interval{{Lo: 0, Hi: 4}})
		vals, err := RunSemiSync[int32, int32](context.Background(), base, &chainKernel{}, shard.Int32{}, 3,
			WithInDegreeThreshold(threshold), WithNumWorkers(4))
		require.NoError(t, err)
		return vals
	}

	assert.Equal(t, runWith(0), runWith(100))
}
