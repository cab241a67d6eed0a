package functional

import (
	"context"

	"github.com/hupe1980/vertigo/shard"
)

// singleIO stores the edge value directly in the record payload.
type singleIO[E any] struct {
	codec shard.Codec[E]
}

func (s singleIO[E]) read(payload []byte, _ int) E     { return s.codec.Decode(payload) }
func (s singleIO[E]) write(payload []byte, _ int, v E) { s.codec.Encode(payload, v) }

// RunSemiSync drives kernel over the shard set at base in semi-synchronous
// mode: edges are single-buffered, so during interval p a vertex gathers
// values already updated by earlier intervals of the same iteration and
// previous-iteration values from later intervals. Parallelism is
// deterministic. The returned slice holds the final vertex values, indexed
// by vertex ID.
func RunSemiSync[V, E any](ctx context.Context, base string, kernel Kernel[V, E], codec shard.Codec[E], numIterations int, optFns ...func(*Options)) ([]V, error) {
	opts := applyOptions(optFns)
	return run(ctx, base, kernel, singleIO[E]{codec: codec}, codec.Size(), false, true, numIterations, opts)
}
