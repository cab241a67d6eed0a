// Package functional exposes graph computation as a gather/plus/apply/
// scatter kernel. It wraps the engine so that per iteration each vertex's
// contribution is computed exactly once and each of its edges is written
// exactly once, in one of two modes: semi-synchronous (single-buffered
// edges, hybrid neighbor view) or bulk-synchronous (paired payloads, a
// coherent previous-iteration snapshot).
package functional
