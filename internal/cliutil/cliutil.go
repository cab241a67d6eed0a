// Package cliutil carries the flag set, archive wiring and run plumbing
// shared by the vertigo command line apps.
package cliutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/vertigo/blobstore"
	minioblob "github.com/hupe1980/vertigo/blobstore/minio"
	s3blob "github.com/hupe1980/vertigo/blobstore/s3"
	"github.com/hupe1980/vertigo/engine"
	"github.com/hupe1980/vertigo/functional"
	"github.com/hupe1980/vertigo/preprocess"
	"github.com/hupe1980/vertigo/toplist"
)

// Execution modes.
const (
	ModeSync     = "sync"
	ModeSemiSync = "semisync"
)

// Flags returns the flag set shared by the vertigo apps. withMode controls
// whether the --mode flag is exposed; apps with a fixed execution mode
// leave it out.
func Flags(withMode bool, defaultIters int) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "edge-list file; the shard set lives next to it",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "niters",
			Usage: "number of iterations",
			Value: defaultIters,
		},
		&cli.IntFlag{
			Name:  "execthreads",
			Usage: "number of worker threads (0 = all cores)",
		},
		&cli.Int64Flag{
			Name:  "membudget_mb",
			Usage: "memory budget in MiB for one interval",
			Value: 1024,
		},
		&cli.IntFlag{
			Name:  "nshards",
			Usage: "number of shards (0 = derived from the budget)",
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "number of result vertices to print",
			Value: 20,
		},
		&cli.StringFlag{
			Name:  "archive",
			Usage: "shard archive URI (local:///dir, s3://bucket/prefix, minio://host/bucket/prefix)",
		},
		&cli.Int64Flag{
			Name:  "upload_rate_mb",
			Usage: "archive upload cap in MiB/s (0 = unlimited)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
	}
	if withMode {
		flags = append(flags, &cli.StringFlag{
			Name:  "mode",
			Usage: "execution mode: sync or semisync",
			Value: ModeSemiSync,
		})
	}
	return flags
}

// Config is the parsed shared flag set.
type Config struct {
	File          string
	NumIterations int
	Threads       int
	MemBudget     int64
	NumShards     int
	Mode          string
	Top           int
	ArchiveURI    string
	UploadRate    int64
	Verbose       bool
}

// Parse reads the shared flags out of the cli context.
func Parse(c *cli.Context) (Config, error) {
	cfg := Config{
		File:          c.String("file"),
		NumIterations: c.Int("niters"),
		Threads:       c.Int("execthreads"),
		MemBudget:     c.Int64("membudget_mb") << 20,
		NumShards:     c.Int("nshards"),
		Mode:          ModeSemiSync,
		Top:           c.Int("top"),
		ArchiveURI:    c.String("archive"),
		UploadRate:    c.Int64("upload_rate_mb") << 20,
		Verbose:       c.Bool("verbose"),
	}
	if c.IsSet("mode") || c.String("mode") != "" {
		cfg.Mode = c.String("mode")
	}
	if cfg.Mode != ModeSync && cfg.Mode != ModeSemiSync {
		return cfg, fmt.Errorf("unknown mode %q (want %s or %s)", cfg.Mode, ModeSync, ModeSemiSync)
	}
	if cfg.NumIterations < 0 {
		return cfg, fmt.Errorf("niters must not be negative, got %d", cfg.NumIterations)
	}
	return cfg, nil
}

// Paired reports whether the shard set needs double-buffered payloads.
func (cfg Config) Paired() bool { return cfg.Mode == ModeSync }

// Logger builds the app logger on stderr, leaving stdout to the results.
func (cfg Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Archive builds the shard archive named by --archive, or nil when the
// flag is unset.
func Archive(ctx context.Context, cfg Config, logger *slog.Logger) (blobstore.Archive, error) {
	if cfg.ArchiveURI == "" {
		return nil, nil
	}
	u, err := url.Parse(cfg.ArchiveURI)
	if err != nil {
		return nil, fmt.Errorf("bad archive URI %q: %w", cfg.ArchiveURI, err)
	}

	var store blobstore.ObjectStore
	switch u.Scheme {
	case "local", "file":
		store = blobstore.NewLocalStore(filepath.Join(u.Host, filepath.FromSlash(u.Path)))
	case "s3":
		store, err = s3blob.New(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return nil, err
		}
	case "minio":
		bucket, prefix, ok := splitBucket(u.Path)
		if !ok {
			return nil, fmt.Errorf("archive URI %q is missing a bucket", cfg.ArchiveURI)
		}
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: u.Query().Get("insecure") != "true",
		})
		if err != nil {
			return nil, err
		}
		store = minioblob.NewStore(client, bucket, prefix)
	default:
		return nil, fmt.Errorf("unknown archive scheme %q", u.Scheme)
	}

	return blobstore.New(store,
		blobstore.WithUploadRate(cfg.UploadRate),
		blobstore.WithLogger(logger),
	), nil
}

func splitBucket(p string) (bucket, prefix string, ok bool) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(p, "/")
	return bucket, prefix, true
}

// SetName is the archive-side name of the shard set for --file.
func SetName(file string) string { return filepath.Base(file) }

// Prepare makes the shard set for cfg.File available locally: pull from
// the archive when one is configured, then convert the edge list unless a
// matching set already exists.
func Prepare(ctx context.Context, cfg Config, arch blobstore.Archive, logger *slog.Logger) error {
	if arch != nil {
		err := arch.Fetch(ctx, SetName(cfg.File), filepath.Dir(cfg.File))
		if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			return err
		}
		if err != nil {
			logger.Info("shard set not archived, converting locally", slog.String("set", SetName(cfg.File)))
		}
	}
	return preprocess.ConvertIfNeeded(ctx, cfg.File, cfg.File,
		preprocess.WithNumShards(cfg.NumShards),
		preprocess.WithMemBudget(cfg.MemBudget),
		preprocess.WithPaired(cfg.Paired()),
		preprocess.WithLogger(logger),
	)
}

// Finish pushes the updated shard set back when an archive is configured.
func Finish(ctx context.Context, cfg Config, arch blobstore.Archive) error {
	if arch == nil {
		return nil
	}
	return arch.Push(ctx, filepath.Dir(cfg.File), SetName(cfg.File))
}

// FunctionalOptions maps the shared flags onto functional run options.
func FunctionalOptions(cfg Config, logger *slog.Logger) []func(*functional.Options) {
	opts := []func(*functional.Options){
		functional.WithMemBudget(cfg.MemBudget),
		functional.WithLogger(logger),
	}
	if cfg.Threads > 0 {
		opts = append(opts, functional.WithNumWorkers(cfg.Threads))
	}
	return opts
}

// EngineOptions maps the shared flags onto engine options.
func EngineOptions(cfg Config, logger *slog.Logger) []func(*engine.Options) {
	opts := []func(*engine.Options){
		engine.WithMemBudget(cfg.MemBudget),
		engine.WithLogger(logger),
	}
	if cfg.Threads > 0 {
		opts = append(opts, engine.WithNumWorkers(cfg.Threads))
	}
	return opts
}

// PrintTop writes the ranked entries as a small table.
func PrintTop(w io.Writer, label string, entries []toplist.Entry) {
	fmt.Fprintf(w, "%4s  %10s  %s\n", "rank", "vertex", label)
	for i, e := range entries {
		fmt.Fprintf(w, "%4d  %10d  %g\n", i+1, e.Vertex, e.Score)
	}
}
