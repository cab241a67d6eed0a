package vertigo_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/vertigo"
	"github.com/hupe1980/vertigo/toplist"
)

func writeExampleGraph(lines string) (string, func()) {
	dir, err := os.MkdirTemp("", "vertigo-example")
	if err != nil {
		log.Fatal(err)
	}
	file := filepath.Join(dir, "graph.txt")
	if err := os.WriteFile(file, []byte(lines), 0o644); err != nil {
		log.Fatal(err)
	}
	return file, func() { os.RemoveAll(dir) }
}

// Example_pageRank converts an edge list and ranks its vertices.
func Example_pageRank() {
	file, cleanup := writeExampleGraph("0 1\n1 2\n2 0\n3 0\n")
	defer cleanup()

	ctx := context.Background()
	g, err := vertigo.FromEdgeList(ctx, file, file)
	if err != nil {
		log.Fatal(err)
	}

	ranks, err := g.PageRank(ctx, 20)
	if err != nil {
		log.Fatal(err)
	}

	top := toplist.FromValues(ranks, 1, func(_ uint32, r float32) float64 {
		return float64(r)
	})
	fmt.Printf("computed %d ranks, best vertex: %d\n", len(ranks), top[0].Vertex)
	// Output: computed 4 ranks, best vertex: 0
}

// Example_shortestPaths computes hop distances from a source vertex.
func Example_shortestPaths() {
	file, cleanup := writeExampleGraph("0 1\n1 2\n2 3\n")
	defer cleanup()

	ctx := context.Background()
	g, err := vertigo.FromEdgeList(ctx, file, file)
	if err != nil {
		log.Fatal(err)
	}

	dists, err := g.ShortestPaths(ctx, 0, 8)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("distance to vertex 3: %d\n", dists[3])
	// Output: distance to vertex 3: 3
}

// Example_bulkSync converts with paired payloads for bulk-synchronous runs.
func Example_bulkSync() {
	file, cleanup := writeExampleGraph("0 1\n1 0\n")
	defer cleanup()

	ctx := context.Background()
	g, err := vertigo.FromEdgeList(ctx, file, file, vertigo.WithPaired(true))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("paired: %v\n", g.Paired())
	// Output: paired: true
}
