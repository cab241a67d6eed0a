package apps

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/vertigo/engine"
	"github.com/hupe1980/vertigo/shard"
)

// Coloring greedily colors the graph treating every edge as an undirected
// conflict. Each edge payload holds the color of its lower-ID endpoint; the
// higher endpoint reads it, picks the smallest color absent from its
// lower-ID neighborhood and resolves conflicts by recoloring itself. Vertex
// 0 therefore always keeps color 0. The program runs until an iteration
// changes no color. Requires a shard set with 4-byte payloads.
type Coloring struct {
	engine.NoopProgram

	// Colors is the working color per vertex, valid after the run.
	Colors []uint32

	codec   shard.Uint32
	changed atomic.Bool
}

// NewColoring creates a coloring program for a graph with numVertices
// vertices, all starting at color 0.
func NewColoring(numVertices int) *Coloring {
	return &Coloring{Colors: make([]uint32, numVertices)}
}

func (c *Coloring) BeforeIteration(ctx *engine.Context) error {
	c.changed.Store(false)
	return nil
}

func (c *Coloring) Update(v *engine.Vertex, ctx *engine.WorkerContext) error {
	id := v.ID()

	// Colors of the lower-ID neighborhood, read off the shared edge cells.
	var forbidden []uint32
	collect := func(e engine.Edge) {
		if e.Vertex() < id {
			forbidden = append(forbidden, c.codec.Decode(e.Data()))
		}
	}
	for i := 0; i < v.NumInEdges(); i++ {
		collect(v.InEdge(i))
	}
	for i := 0; i < v.NumOutEdges(); i++ {
		collect(v.OutEdge(i))
	}

	color := smallestAbsent(forbidden)
	if color != c.Colors[id] {
		c.Colors[id] = color
		c.changed.Store(true)
	}

	// Publish the color on every edge where this vertex is the lower
	// endpoint.
	publish := func(e engine.Edge) {
		if e.Vertex() > id && c.codec.Decode(e.Data()) != color {
			c.codec.Encode(e.Data(), color)
			e.MarkModified()
		}
	}
	for i := 0; i < v.NumInEdges(); i++ {
		publish(v.InEdge(i))
	}
	for i := 0; i < v.NumOutEdges(); i++ {
		publish(v.OutEdge(i))
	}
	return nil
}

func (c *Coloring) AfterIteration(ctx *engine.Context) error {
	if !c.changed.Load() {
		ctx.SetLastIteration(ctx.Iteration())
	}
	return nil
}

// smallestAbsent returns the smallest color not present in forbidden.
func smallestAbsent(forbidden []uint32) uint32 {
	for color := uint32(0); ; color++ {
		found := false
		for _, f := range forbidden {
			if f == color {
				found = true
				break
			}
		}
		if !found {
			return color
		}
	}
}

// RunColoring opens the shard set at base and colors it. The returned slice
// maps vertex IDs to colors.
func RunColoring(ctx context.Context, base string, numIterations int, optFns ...func(*engine.Options)) ([]uint32, error) {
	set, err := shard.Open(base)
	if err != nil {
		return nil, err
	}
	defer set.Close()

	eng, err := engine.New(set, optFns...)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	prog := NewColoring(set.NumVertices())
	if err := eng.Run(ctx, prog, numIterations); err != nil {
		return nil, err
	}
	return prog.Colors, nil
}
