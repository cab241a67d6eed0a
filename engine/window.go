package engine

import "github.com/hupe1980/vertigo/shard"

// windowSet loads the sliding-window buffers for one interval step: for
// every shard other than the memory shard, the contiguous run of records
// whose source lies in the current interval. Because shards are sorted by
// source and intervals are processed in ascending order, each shard's run
// slides forward monotonically across an iteration.
type windowSet struct {
	set    *shard.ShardSet
	blocks []*shard.Block
}

func newWindowSet(set *shard.ShardSet) *windowSet {
	return &windowSet{
		set:    set,
		blocks: make([]*shard.Block, set.NumShards()),
	}
}

// size returns the total byte size of the windows of interval iv when mem is
// the memory shard. No I/O is performed.
func (w *windowSet) size(mem int, iv shard.Interval) int64 {
	var n int64
	for q := 0; q < w.set.NumShards(); q++ {
		if q == mem {
			continue
		}
		n += w.set.SliceSize(q, iv)
	}
	return n
}

// load reads the window of every shard except mem. The returned slice is
// indexed by shard number; entry mem is nil. The slice is reused across
// calls and is only valid until the next load.
func (w *windowSet) load(mem int, iv shard.Interval) ([]*shard.Block, error) {
	for q := range w.blocks {
		if q == mem {
			w.blocks[q] = nil
			continue
		}
		b, err := w.set.Slice(q, iv)
		if err != nil {
			return nil, err
		}
		w.blocks[q] = b
	}
	return w.blocks, nil
}

// writeBack flushes every dirty window block and returns the number of bytes
// written.
func (w *windowSet) writeBack() (int64, error) {
	var n int64
	for _, b := range w.blocks {
		if b == nil || !b.Dirty() {
			continue
		}
		n += int64(len(b.Bytes()))
		if err := w.set.WriteBack(b); err != nil {
			return n, err
		}
	}
	return n, nil
}
