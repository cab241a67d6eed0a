// Command vertigo-coloring greedily colors a graph and prints the number of
// colors used plus the colors of the first --top vertices.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/vertigo/apps"
	"github.com/hupe1980/vertigo/internal/cliutil"
)

func main() {
	app := &cli.App{
		Name:   "vertigo-coloring",
		Usage:  "greedy graph coloring",
		Flags:  cliutil.Flags(false, 16),
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vertigo-coloring:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := cliutil.Parse(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	logger := cfg.Logger()

	arch, err := cliutil.Archive(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := cliutil.Prepare(ctx, cfg, arch, logger); err != nil {
		return err
	}

	colors, err := apps.RunColoring(ctx, cfg.File, cfg.NumIterations, cliutil.EngineOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	numColors := uint32(0)
	for _, col := range colors {
		if col+1 > numColors {
			numColors = col + 1
		}
	}
	fmt.Fprintf(os.Stdout, "colored %d vertices with %d colors\n", len(colors), numColors)

	limit := cfg.Top
	if limit > len(colors) {
		limit = len(colors)
	}
	fmt.Fprintf(os.Stdout, "%10s  %s\n", "vertex", "color")
	for v := 0; v < limit; v++ {
		fmt.Fprintf(os.Stdout, "%10d  %d\n", v, colors[v])
	}

	return cliutil.Finish(ctx, cfg, arch)
}
