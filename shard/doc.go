// Package shard implements the on-disk storage layer for partitioned graphs.
//
// A graph with N vertices is split into P shards. Shard p holds every edge
// whose destination vertex falls into interval p; within a shard, edges are
// sorted by source, then destination. Each shard persists as two files: a
// packed edge file of fixed-width records and an index file mapping each
// source that appears in the shard to the byte offset of its edge run. A
// manifest file records the vertex count, shard count, payload width and the
// interval boundaries; a degree file stores the in/out degree of every
// vertex.
//
// Edge payloads are opaque fixed-width byte strings at this layer. Typed
// access goes through a Codec, including the paired (double-buffered) layout
// used by bulk-synchronous computation.
//
// The byte order of all files is fixed little-endian and records are not
// framed, so a shard set reads the same on every architecture.
package shard
