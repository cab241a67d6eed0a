// Package vertigo provides disk-based graph computation for Go.
//
// Vertigo executes vertex-centric programs over graphs far larger than
// memory by splitting the edge set into sorted shards and sliding a window
// over them, so every iteration reads and writes each shard once.
//
// # Quick Start
//
// Convert an edge-list file once, then run a kernel:
//
//	ctx := context.Background()
//	g, _ := vertigo.FromEdgeList(ctx, "twitter.txt", "twitter.txt")
//	ranks, _ := g.PageRank(ctx, 20)
//	top := toplist.FromValues(ranks, 10, func(_ uint32, r float32) float64 {
//	    return float64(r)
//	})
//
// # Execution Modes
//
// Semi-synchronous mode stores one value per edge: a vertex sees updates
// made earlier in the same iteration, which speeds up propagation but ties
// results to the shard layout. Bulk-synchronous mode doubles the edge
// payload and alternates slots between iterations, so every vertex gathers
// a coherent previous-iteration snapshot regardless of layout. Convert
// with WithPaired(true) for bulk-synchronous runs.
//
// # Custom Computations
//
// Gather/apply/scatter kernels run through the functional package; full
// control over edges and scheduling goes through the engine package and
// its Program interface. This package is the convenience surface over
// both.
package vertigo
