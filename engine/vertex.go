package engine

import "github.com/hupe1980/vertigo/shard"

// Edge is a reference to one edge record inside a loaded block. Data aliases
// the block's buffer; mutations must be followed by MarkModified so the
// block is flushed at write-back.
type Edge struct {
	block *shard.Block
	rec   int
	nb    uint32
}

// Vertex returns the neighbor vertex ID: the source for an in-edge, the
// destination for an out-edge.
func (e Edge) Vertex() uint32 { return e.nb }

// Data returns the mutable payload bytes of the edge record.
func (e Edge) Data() []byte { return e.block.Payload(e.rec) }

// MarkModified records that the payload was changed.
func (e Edge) MarkModified() { e.block.MarkDirty() }

// Vertex is the per-vertex view materialized for an interval step. In-edges
// point into the memory-shard buffer; out-edges point into the
// sliding-window buffers (one run per shard where the vertex appears as a
// source). Views are valid only during the interval step.
type Vertex struct {
	id          uint32
	inEdges     []Edge
	outEdges    []Edge
	lockStripes []int
}

// ID returns the vertex ID.
func (v *Vertex) ID() uint32 { return v.id }

// NumInEdges returns the number of in-edges.
func (v *Vertex) NumInEdges() int { return len(v.inEdges) }

// InEdge returns the i-th in-edge.
func (v *Vertex) InEdge(i int) Edge { return v.inEdges[i] }

// NumOutEdges returns the number of out-edges.
func (v *Vertex) NumOutEdges() int { return len(v.outEdges) }

// OutEdge returns the i-th out-edge.
func (v *Vertex) OutEdge(i int) Edge { return v.outEdges[i] }

// materialize assembles vertex views for every vertex in iv. mem is the
// interval's memory shard; wins holds the sliding-window slices of all other
// shards. When locks is non-nil, each view also carries the sorted lock
// stripes of the vertex and its in-interval neighbors for deterministic
// dispatch.
func materialize(iv shard.Interval, mem *shard.Block, wins []*shard.Block, degrees *shard.Degrees, locks *LockSet) []Vertex {
	vertices := make([]Vertex, iv.Len())
	for i := range vertices {
		id := iv.Lo + uint32(i)
		vertices[i].id = id
		if in := degrees.In(id); in > 0 {
			vertices[i].inEdges = make([]Edge, 0, in)
		}
		if out := degrees.Out(id); out > 0 {
			vertices[i].outEdges = make([]Edge, 0, out)
		}
	}

	// The memory shard carries the interval's in-edges; records whose source
	// also lies in the interval double as intra-interval out-edges.
	for i, n := 0, mem.NumRecords(); i < n; i++ {
		src, dst := mem.Src(i), mem.Dst(i)
		v := &vertices[dst-iv.Lo]
		v.inEdges = append(v.inEdges, Edge{block: mem, rec: i, nb: src})
		if iv.Contains(src) {
			vertices[src-iv.Lo].outEdges = append(vertices[src-iv.Lo].outEdges, Edge{block: mem, rec: i, nb: dst})
		}
	}

	for _, w := range wins {
		if w == nil {
			continue
		}
		for i, n := 0, w.NumRecords(); i < n; i++ {
			src := w.Src(i)
			vertices[src-iv.Lo].outEdges = append(vertices[src-iv.Lo].outEdges, Edge{block: w, rec: i, nb: w.Dst(i)})
		}
	}

	if locks != nil {
		for i := range vertices {
			v := &vertices[i]
			stripes := locks.SortedStripes(nil, v.id)
			for _, e := range v.inEdges {
				if iv.Contains(e.nb) {
					stripes = locks.SortedStripes(stripes, e.nb)
				}
			}
			for _, e := range v.outEdges {
				if iv.Contains(e.nb) {
					stripes = locks.SortedStripes(stripes, e.nb)
				}
			}
			v.lockStripes = stripes
		}
	}
	return vertices
}
