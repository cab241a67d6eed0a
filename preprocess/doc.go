// Package preprocess converts plain edge-list files into shard sets: it
// counts degrees, plans edge-balanced destination intervals, partitions the
// edges, external-sorts each shard by (source, destination) with compressed
// spill runs and writes the edge, index, degree and manifest files.
package preprocess
