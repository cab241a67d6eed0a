// Command vertigo-pagerank runs PageRank over an edge-list file and prints
// the highest-ranked vertices.
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
		Name:   "vertigo-pagerank",
		Usage:  "PageRank over an edge-list graph",
		Flags:  cliutil.Flags(true, 4),
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vertigo-pagerank:", err)
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

	var ranks []float32
	optFns := cliutil.FunctionalOptions(cfg, logger)
	if cfg.Mode == cliutil.ModeSync {
		ranks, err = functional.RunBulkSync(ctx, cfg.File, apps.PageRank{}, shard.Float32{}, cfg.NumIterations, optFns...)
	} else {
		ranks, err = functional.RunSemiSync(ctx, cfg.File, apps.PageRank{}, shard.Float32{}, cfg.NumIterations, optFns...)
	}
	if err != nil {
		return err
	}

	top := toplist.FromValues(ranks, cfg.Top, func(_ uint32, r float32) float64 {
		return float64(r)
	})
	cliutil.PrintTop(os.Stdout, "rank", top)

	return cliutil.Finish(ctx, cfg, arch)
}
