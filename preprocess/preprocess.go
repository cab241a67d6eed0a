package preprocess

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vertigo/shard"
)

const recordHeaderSize = 8

// Convert turns the edge-list file at input into the shard set with the
// given base name. The input is read twice: the first pass counts degrees
// and sizes the graph, the second routes every edge to its destination
// shard. Shards are external-sorted independently and written in parallel.
func Convert(ctx context.Context, input, base string, optFns ...func(*Options)) error {
	opts := applyOptions(optFns)
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// First pass: degrees and vertex count.
	var in, out []uint32
	var numEdges int64
	grow := func(v uint32) {
		for uint32(len(in)) <= v {
			in = append(in, 0)
			out = append(out, 0)
		}
	}
	err := scanEdgeList(input, func(src, dst uint32) error {
		grow(src)
		grow(dst)
		out[src]++
		in[dst]++
		numEdges++
		return nil
	})
	if err != nil {
		return err
	}
	if numEdges == 0 {
		return ErrEmptyEdgeList
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	numVertices := uint32(len(in))
	payload := opts.PayloadSize
	if opts.Paired {
		payload *= 2
	}
	recordSize := int64(recordHeaderSize + payload)

	numShards := opts.NumShards
	if numShards <= 0 {
		numShards = int(numEdges*recordSize/opts.MemBudget) + 1
	}
	intervals := shard.PlanIntervals(in, numShards)
	numShards = len(intervals)

	logger.Info("converting edge list",
		slog.String("input", input),
		slog.String("base", base),
		slog.Int64("num_edges", numEdges),
		slog.Int("num_vertices", int(numVertices)),
		slog.Int("num_shards", numShards),
		slog.Bool("paired", opts.Paired),
	)

	// Second pass: route edges to their destination shard's spiller.
	dir := filepath.Dir(base)
	name := filepath.Base(base)
	spillers := make([]*spiller, numShards)
	for p := range spillers {
		spillers[p] = newSpiller(dir, name+".shard"+itoa(p), opts.SpillEdges)
	}
	err = scanEdgeList(input, func(src, dst uint32) error {
		return spillers[shard.ShardFor(intervals, dst)].add(src, dst)
	})
	if err != nil {
		return err
	}

	// Merge and write every shard in parallel.
	g, gctx := errgroup.WithContext(ctx)
	zeros := make([]byte, payload)
	for p := range spillers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, err := shard.NewWriter(base, p, payload)
			if err != nil {
				return err
			}
			if err := spillers[p].drain(func(src, dst uint32) error {
				return w.Append(src, dst, zeros)
			}); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			logger.Debug("shard written", slog.Int("shard", p))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := shard.WriteDegrees(shard.DegreePath(base), in, out); err != nil {
		return err
	}
	return shard.WriteManifest(shard.MetaPath(base), shard.Manifest{
		NumVertices: numVertices,
		NumShards:   uint32(numShards),
		PayloadSize: uint32(payload),
		Paired:      opts.Paired,
		Intervals:   intervals,
	})
}

// ConvertIfNeeded converts input unless a valid shard set with a matching
// layout already exists at base, making repeated invocations cheap no-ops.
func ConvertIfNeeded(ctx context.Context, input, base string, optFns ...func(*Options)) error {
	opts := applyOptions(optFns)
	payload := opts.PayloadSize
	if opts.Paired {
		payload *= 2
	}

	if set, err := shard.Open(base); err == nil {
		man := set.Manifest()
		set.Close()
		if int(man.PayloadSize) == payload && man.Paired == opts.Paired &&
			(opts.NumShards <= 0 || int(man.NumShards) == opts.NumShards) {
			if opts.Logger != nil {
				opts.Logger.Info("shard set exists, skipping conversion", slog.String("base", base))
			}
			return nil
		}
	}
	return Convert(ctx, input, base, optFns...)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for v > 0 {
		i--
		b[i] = byte('0' + v%10)
		v /= 10
	}
	return string(b[i:])
}
