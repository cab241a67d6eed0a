package functional

import (
	"context"

	"github.com/hupe1980/vertigo/shard"
)

// pairedIO routes reads and writes through the slot parity of a paired
// payload: iteration i reads the slot written during iteration i-1 and
// writes the slot read during iteration i+1.
type pairedIO[E any] struct {
	codec shard.Paired[E]
}

func (p pairedIO[E]) read(payload []byte, iteration int) E {
	return p.codec.Current(payload, iteration)
}

func (p pairedIO[E]) write(payload []byte, iteration int, v E) {
	p.codec.SetNext(payload, iteration, v)
}

// RunBulkSync drives kernel over the shard set at base in bulk-synchronous
// mode. The set must carry paired payloads (see the preprocessor's paired
// option): every vertex gathers a coherent previous-iteration snapshot, at
// the cost of doubled edge storage. Because reads and writes target
// disjoint slots, updates run without inter-vertex locking. The returned
// slice holds the final vertex values, indexed by vertex ID.
func RunBulkSync[V, E any](ctx context.Context, base string, kernel Kernel[V, E], codec shard.Codec[E], numIterations int, optFns ...func(*Options)) ([]V, error) {
	opts := applyOptions(optFns)
	paired := shard.Paired[E]{Elem: codec}
	return run(ctx, base, kernel, pairedIO[E]{codec: paired}, paired.Size(), true, false, numIterations, opts)
}
