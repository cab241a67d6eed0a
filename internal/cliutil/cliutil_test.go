package cliutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/vertigo/shard"
)

func parseArgs(t *testing.T, withMode bool, args ...string) (Config, error) {
	t.Helper()
	var cfg Config
	var parseErr error
	app := &cli.App{
		Flags: Flags(withMode, 4),
		Action: func(c *cli.Context) error {
			cfg, parseErr = Parse(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
	return cfg, parseErr
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parseArgs(t, true, "--file", "graph.txt")
	require.NoError(t, err)
	assert.Equal(t, "graph.txt", cfg.File)
	assert.Equal(t, 4, cfg.NumIterations)
	assert.Equal(t, ModeSemiSync, cfg.Mode)
	assert.Equal(t, int64(1024)<<20, cfg.MemBudget)
	assert.Equal(t, 20, cfg.Top)
	assert.False(t, cfg.Paired())
}

func TestParseSyncModeIsPaired(t *testing.T) {
	cfg, err := parseArgs(t, true, "--file", "graph.txt", "--mode", "sync")
	require.NoError(t, err)
	assert.True(t, cfg.Paired())
}

func TestParseRejectsUnknownMode(t *testing.T) {
	_, err := parseArgs(t, true, "--file", "graph.txt", "--mode", "turbo")
	require.Error(t, err)
}

func TestParseWithoutModeFlag(t *testing.T) {
	cfg, err := parseArgs(t, false, "--file", "graph.txt")
	require.NoError(t, err)
	assert.Equal(t, ModeSemiSync, cfg.Mode)
}

func TestSplitBucket(t *testing.T) {
	bucket, prefix, ok := splitBucket("/data/graphs")
	require.True(t, ok)
	assert.Equal(t, "data", bucket)
	assert.Equal(t, "graphs", prefix)

	bucket, prefix, ok = splitBucket("/data")
	require.True(t, ok)
	assert.Equal(t, "data", bucket)
	assert.Empty(t, prefix)

	_, _, ok = splitBucket("/")
	assert.False(t, ok)
}

func TestArchiveSchemes(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	arch, err := Archive(ctx, Config{}, logger)
	require.NoError(t, err)
	assert.Nil(t, arch)

	arch, err = Archive(ctx, Config{ArchiveURI: "local:///tmp/graphs"}, logger)
	require.NoError(t, err)
	assert.NotNil(t, arch)

	_, err = Archive(ctx, Config{ArchiveURI: "ftp://host/graphs"}, logger)
	require.Error(t, err)
}

func TestPrepareConvertsEdgeList(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "graph.txt")
	require.NoError(t, os.WriteFile(file, []byte("0 1\n1 2\n2 0\n"), 0o644))

	cfg := Config{File: file, MemBudget: 256 << 20, Mode: ModeSemiSync}
	logger := slog.New(slog.DiscardHandler)
	require.NoError(t, Prepare(context.Background(), cfg, nil, logger))

	set, err := shard.Open(file)
	require.NoError(t, err)
	defer set.Close()
	assert.Equal(t, 3, set.NumVertices())
	assert.False(t, set.Manifest().Paired)
}
