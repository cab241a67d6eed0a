package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vertigo/shard"
)

// writeSet puts a tiny two-shard set named base under dir.
func writeSet(t *testing.T, dir, base string) {
	t.Helper()
	localBase := filepath.Join(dir, base)
	require.NoError(t, os.MkdirAll(filepath.Dir(localBase), 0o755))

	edges := map[int][][2]uint32{
		0: {{1, 0}, {2, 1}},
		1: {{0, 2}, {0, 3}, {1, 3}},
	}
	payload := []byte{0, 0, 0, 0}
	for p := 0; p < 2; p++ {
		w, err := shard.NewWriter(localBase, p, 4)
		require.NoError(t, err)
		for _, e := range edges[p] {
			require.NoError(t, w.Append(e[0], e[1], payload))
		}
		require.NoError(t, w.Close())
	}

	in := []uint32{1, 1, 1, 2}
	out := []uint32{2, 2, 1, 0}
	require.NoError(t, shard.WriteDegrees(shard.DegreePath(localBase), in, out))
	require.NoError(t, shard.WriteManifest(shard.MetaPath(localBase), shard.Manifest{
		NumVertices: 4,
		NumShards:   2,
		PayloadSize: 4,
		Intervals:   []shard.Interval{{Lo: 0, Hi: 2}, {Lo: 2, Hi: 4}},
	}))
}

func assertSetsEqual(t *testing.T, aBase, bBase string) {
	t.Helper()
	files, err := shard.SetFiles(aBase)
	require.NoError(t, err)
	for _, af := range files {
		rel, err := filepath.Rel(filepath.Dir(aBase), af)
		require.NoError(t, err)
		a, err := os.ReadFile(af)
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(filepath.Dir(bBase), rel))
		require.NoError(t, err)
		assert.Equal(t, a, b, rel)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	writeSet(t, src, "toy")

	store := NewMemoryStore()
	a := New(store)
	require.NoError(t, a.Push(ctx, src, "toy"))

	// manifest + degrees + 2 shards x (edges, index)
	assert.Equal(t, 6, store.Len())

	dst := t.TempDir()
	require.NoError(t, a.Fetch(ctx, "toy", dst))

	set, err := shard.Open(filepath.Join(dst, "toy"))
	require.NoError(t, err)
	set.Close()

	assertSetsEqual(t, filepath.Join(src, "toy"), filepath.Join(dst, "toy"))
}

func TestArchiveNestedBase(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	writeSet(t, src, filepath.Join("graphs", "toy"))

	a := New(NewMemoryStore())
	require.NoError(t, a.Push(ctx, src, "graphs/toy"))

	dst := t.TempDir()
	require.NoError(t, a.Fetch(ctx, "graphs/toy", dst))

	_, err := os.Stat(shard.MetaPath(filepath.Join(dst, "graphs", "toy")))
	require.NoError(t, err)
}

func TestFetchMissingSet(t *testing.T) {
	a := New(NewMemoryStore())
	err := a.Fetch(context.Background(), "absent", t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPushMissingSet(t *testing.T) {
	a := New(NewMemoryStore())
	err := a.Push(context.Background(), t.TempDir(), "absent")
	require.Error(t, err)
}

func TestThrottledPushPreservesBytes(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	writeSet(t, src, "toy")

	store := NewMemoryStore()
	a := New(store, WithUploadRate(64<<20))
	require.NoError(t, a.Push(ctx, src, "toy"))

	dst := t.TempDir()
	require.NoError(t, a.Fetch(ctx, "toy", dst))
	assertSetsEqual(t, filepath.Join(src, "toy"), filepath.Join(dst, "toy"))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	writeSet(t, src, "toy")

	a := New(NewLocalStore(t.TempDir()))
	require.NoError(t, a.Push(ctx, src, "toy"))

	dst := t.TempDir()
	require.NoError(t, a.Fetch(ctx, "toy", dst))
	assertSetsEqual(t, filepath.Join(src, "toy"), filepath.Join(dst, "toy"))
}

func TestLocalStoreGetMissing(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
