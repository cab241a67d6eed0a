package apps

import (
	"math"

	"github.com/hupe1980/vertigo/functional"
)

// Unreachable marks a vertex no path from the source has reached yet.
const Unreachable = int32(math.MinInt32)

// SSSP computes unweighted single-source shortest paths: every edge counts
// as one hop. Edges carry the candidate distance offered to the
// destination; unreached vertices keep the Unreachable sentinel. Run it
// with shard.Int32 payloads.
type SSSP struct {
	// Source is the vertex the distances are measured from.
	Source uint32
}

func (s SSSP) Init(ctx functional.Context, v functional.VertexInfo) int32 {
	if v.ID == s.Source {
		return 0
	}
	return Unreachable
}

func (SSSP) Zero() int32 { return Unreachable }

func (SSSP) Gather(ctx functional.Context, v functional.VertexInfo, nb uint32, val int32) int32 {
	return val
}

// Plus keeps the smaller reachable distance; the sentinel is the identity.
func (SSSP) Plus(a, b int32) int32 {
	if a == Unreachable {
		return b
	}
	if b == Unreachable {
		return a
	}
	if b < a {
		return b
	}
	return a
}

func (SSSP) Apply(ctx functional.Context, v functional.VertexInfo, cur, sum int32) int32 {
	if sum == Unreachable {
		return cur
	}
	if cur == Unreachable || sum < cur {
		return sum
	}
	return cur
}

func (SSSP) Scatter(ctx functional.Context, v functional.VertexInfo, nb uint32, val int32) int32 {
	if val == Unreachable {
		return Unreachable
	}
	return val + 1
}

// Delta reports whether the distance changed, driving convergence once the
// frontier stops advancing.
func (SSSP) Delta(old, cur int32) float64 {
	if old == cur {
		return 0
	}
	return 1
}
