package apps

import "github.com/hupe1980/vertigo/functional"

// RandomResetProb is the PageRank damping complement: the probability of
// jumping to a uniformly random vertex.
const RandomResetProb = 0.15

// PageRank is the power-iteration PageRank kernel. Every edge carries the
// source's rank divided by its out-degree; a vertex's new rank is the reset
// probability plus the damped sum of incoming contributions. Run it with
// shard.Float32 payloads.
type PageRank struct{}

func (PageRank) Init(ctx functional.Context, v functional.VertexInfo) float32 {
	return 1.0
}

func (PageRank) Zero() float32 { return 0 }

func (PageRank) Gather(ctx functional.Context, v functional.VertexInfo, nb uint32, val float32) float32 {
	return val
}

func (PageRank) Plus(a, b float32) float32 { return a + b }

func (PageRank) Apply(ctx functional.Context, v functional.VertexInfo, cur, sum float32) float32 {
	return RandomResetProb + (1-RandomResetProb)*sum
}

func (PageRank) Scatter(ctx functional.Context, v functional.VertexInfo, nb uint32, val float32) float32 {
	return val / float32(v.OutDegree)
}

// Delta reports the absolute rank change for convergence tracking.
func (PageRank) Delta(old, cur float32) float64 {
	d := float64(cur - old)
	if d < 0 {
		d = -d
	}
	return d
}
