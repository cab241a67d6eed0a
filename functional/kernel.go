package functional

// Context is the read-only run state visible to kernel callbacks.
type Context struct {
	// Iteration is the zero-based index of the current iteration.
	Iteration int

	// NumIterations is the configured maximum iteration count.
	NumIterations int

	// NumVertices is the vertex count of the graph.
	NumVertices int
}

// VertexInfo identifies the vertex a kernel callback runs for.
type VertexInfo struct {
	ID        uint32
	InDegree  int
	OutDegree int
}

// Kernel is the functional user program: V is the in-memory vertex value
// type, E the edge payload type. The runtime drives the kernel so that per
// iteration each vertex's contribution is computed exactly once and each of
// its edges is written exactly once.
//
// Plus must be commutative and associative: the runtime combines gathered
// values out of order and across workers.
type Kernel[V, E any] interface {
	// Init produces the iteration-0 seed for a vertex's value.
	Init(ctx Context, v VertexInfo) V

	// Zero returns the identity of Plus.
	Zero() E

	// Gather transforms an in-neighbor's edge value into the combinable
	// form. nb is the neighbor's vertex ID, val the payload read from the
	// edge.
	Gather(ctx Context, v VertexInfo, nb uint32, val E) E

	// Plus combines two gathered values.
	Plus(a, b E) E

	// Apply produces the vertex's new value from its current value and the
	// combined in-edge sum.
	Apply(ctx Context, v VertexInfo, cur V, sum E) V

	// Scatter produces the payload written to the out-edge towards nb from
	// the vertex's freshly applied value.
	Scatter(ctx Context, v VertexInfo, nb uint32, val V) E
}

// DeltaKernel is an optional extension for kernels that participate in
// convergence tracking. When implemented, the runtime reports
// Delta(old, cur) after every Apply, and a run with a convergence threshold
// terminates once an iteration's maximum reported delta falls below it.
type DeltaKernel[V any] interface {
	Delta(old, cur V) float64
}
