// Package engine implements the Parallel Sliding Windows scheduler.
//
// The engine processes a shard set iteratively. Each iteration visits the
// vertex intervals in ID order; for an interval it loads the interval's own
// shard in full (the memory shard, holding the interval's in-edges), advances
// a sliding window over every other shard to collect the interval's
// out-edges, materializes per-vertex views over the loaded buffers, runs the
// user program's vertex updates on a fixed worker pool, and writes modified
// buffers back in place. Every edge is read exactly once and written at most
// once per iteration, and all disk access is sequential within a shard.
//
// Two parallelism policies are available. In deterministic mode (the
// default) vertices that share an edge within the interval never execute
// concurrently, enforced by stripe locks acquired in vertex-ID order; the
// result equals some sequential execution. Non-deterministic mode drops the
// locks and is safe only when updates write edge slots disjoint from the
// ones they read, as in bulk-synchronous computation.
package engine
