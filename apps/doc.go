// Package apps ships the built-in graph computations: PageRank and
// single-source shortest paths as functional kernels, and greedy graph
// coloring as a vertex program. The command binaries and the package tests
// share these implementations.
package apps
