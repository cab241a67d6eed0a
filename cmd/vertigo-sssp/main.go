// Command vertigo-sssp computes unweighted single-source shortest paths
// and prints the vertices closest to the source.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/vertigo/apps"
	"github.com/hupe1980/vertigo/functional"
	"github.com/hupe1980/vertigo/internal/cliutil"
	"github.com/hupe1980/vertigo/shard"
	"github.com/hupe1980/vertigo/toplist"
)

func main() {
	app := &cli.App{
		Name:  "vertigo-sssp",
		Usage: "unweighted single-source shortest paths",
		Flags: append(cliutil.Flags(true, 8),
			&cli.UintFlag{
				Name:  "source",
				Usage: "source vertex",
			},
		),
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vertigo-sssp:", err)
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

	kernel := apps.SSSP{Source: uint32(c.Uint("source"))}
	var dists []int32
	optFns := cliutil.FunctionalOptions(cfg, logger)
	if cfg.Mode == cliutil.ModeSync {
		dists, err = functional.RunBulkSync(ctx, cfg.File, kernel, shard.Int32{}, cfg.NumIterations, optFns...)
	} else {
		dists, err = functional.RunSemiSync(ctx, cfg.File, kernel, shard.Int32{}, cfg.NumIterations, optFns...)
	}
	if err != nil {
		return err
	}

	// Rank reachable vertices closest-first; unreachable ones never place.
	col := toplist.NewCollector(cfg.Top)
	for v, d := range dists {
		if d != apps.Unreachable {
			col.Offer(uint32(v), -float64(d))
		}
	}
	top := col.Results()
	for i := range top {
		top[i].Score = -top[i].Score
	}
	fmt.Fprintf(os.Stdout, "%4s  %10s  %s\n", "rank", "vertex", "distance")
	for i, e := range top {
		fmt.Fprintf(os.Stdout, "%4d  %10d  %g\n", i+1, e.Vertex, e.Score)
	}

	return cliutil.Finish(ctx, cfg, arch)
}
