// Package toplist extracts the K highest-scored vertices after a
// computation, either from an in-memory value slice or straight from the
// edge files of a shard set.
package toplist

import (
	"container/heap"
	"encoding/binary"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"

	"github.com/hupe1980/vertigo/shard"
)

// Entry is one ranked vertex.
type Entry struct {
	Vertex uint32
	Score  float64
}

// Compile time check to ensure entryHeap satisfies the heap interface.
var _ heap.Interface = (*entryHeap)(nil)

// worse reports whether a ranks below b: lower score, or the higher vertex
// ID on equal scores.
func worse(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Vertex > b.Vertex
}

// entryHeap is a min-heap on Score so the worst retained entry sits at the
// root and is the one evicted when a better candidate arrives.
type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool { return worse(h[i], h[j]) }

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(Entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Collector keeps the K best entries offered to it.
type Collector struct {
	k int
	h entryHeap
}

// NewCollector returns a collector bounded to k entries. k must be positive.
func NewCollector(k int) *Collector {
	return &Collector{k: k, h: make(entryHeap, 0, k)}
}

// Offer considers one vertex. Entries below the current K-th best score are
// rejected without allocation.
func (c *Collector) Offer(vertex uint32, score float64) {
	e := Entry{Vertex: vertex, Score: score}
	if len(c.h) < c.k {
		heap.Push(&c.h, e)
		return
	}
	if worse(c.h[0], e) {
		c.h[0] = e
		heap.Fix(&c.h, 0)
	}
}

// Results returns the retained entries ordered best-first. Ties break
// toward the lower vertex ID. The collector is drained.
func (c *Collector) Results() []Entry {
	out := make([]Entry, len(c.h))
	copy(out, c.h)
	c.h = c.h[:0]
	sort.Slice(out, func(i, j int) bool { return worse(out[j], out[i]) })
	return out
}

// FromValues ranks a post-run vertex value slice, scoring vals[v] for every
// vertex v, and returns the K best entries.
func FromValues[V any](vals []V, k int, score func(v uint32, val V) float64) []Entry {
	c := NewCollector(k)
	for v, val := range vals {
		c.Offer(uint32(v), score(uint32(v), val))
	}
	return c.Results()
}

// FromEdges ranks vertices by a per-source edge projection. Every record of
// every shard is passed to project; a vertex's score is the maximum over
// its out-edges. The edge files are mapped read-only, so no shard ever
// needs to fit in memory.
func FromEdges(base string, k int, project func(src, dst uint32, payload []byte) float64) ([]Entry, error) {
	man, err := shard.ReadManifest(shard.MetaPath(base))
	if err != nil {
		return nil, err
	}

	best := make([]float64, man.NumVertices)
	seen := make([]bool, man.NumVertices)
	recSize := man.RecordSize()

	for p := 0; p < int(man.NumShards); p++ {
		if err := scanShard(shard.EdgePath(base, p), recSize, func(src, dst uint32, payload []byte) {
			s := project(src, dst, payload)
			if !seen[src] || s > best[src] {
				seen[src] = true
				best[src] = s
			}
		}); err != nil {
			return nil, err
		}
	}

	c := NewCollector(k)
	for v := range best {
		if seen[v] {
			c.Offer(uint32(v), best[v])
		}
	}
	return c.Results(), nil
}

func scanShard(path string, recSize int, fn func(src, dst uint32, payload []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	if st.Size() == 0 {
		return nil
	}
	if st.Size()%int64(recSize) != 0 {
		return &shard.FormatError{Path: path, Reason: "edge file length is not a whole number of records"}
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return err
	}
	defer m.Unmap()

	le := binary.LittleEndian
	for off := 0; off < len(m); off += recSize {
		rec := m[off : off+recSize]
		fn(le.Uint32(rec[0:]), le.Uint32(rec[4:]), rec[8:])
	}
	return nil
}
