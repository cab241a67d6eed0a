package shard

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeRingSet writes a 2-shard set for the ring 0->1->2->3->0 with a
// 4-byte float payload seeded to zero. Intervals: {0,1} and {2,3}.
func writeRingSet(t *testing.T, dir string) string {
	t.Helper()
	base := filepath.Join(dir, "ring")

	type edge struct{ src, dst uint32 }
	shards := [][]edge{
		{{0, 1}, {3, 0}}, // destinations in [0,2)
		{{1, 2}, {2, 3}}, // destinations in [2,4)
	}
	payload := make([]byte, 4)
	for p, edges := range shards {
		w, err := NewWriter(base, p, 4)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range edges {
			if err := w.Append(e.src, e.dst, payload); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}

	in := []uint32{1, 1, 1, 1}
	out := []uint32{1, 1, 1, 1}
	if err := WriteDegrees(DegreePath(base), in, out); err != nil {
		t.Fatal(err)
	}
	m := Manifest{
		NumVertices: 4,
		NumShards:   2,
		PayloadSize: 4,
		Intervals:   []Interval{{0, 2}, {2, 4}},
	}
	if err := WriteManifest(MetaPath(base), m); err != nil {
		t.Fatal(err)
	}
	return base
}

func TestOpenRoundTrip(t *testing.T) {
	base := writeRingSet(t, t.TempDir())

	s, err := Open(base)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := s.NumVertices(); got != 4 {
		t.Errorf("NumVertices = %d, want 4", got)
	}
	if got := s.NumShards(); got != 2 {
		t.Errorf("NumShards = %d, want 2", got)
	}
	if got := s.RecordSize(); got != 12 {
		t.Errorf("RecordSize = %d, want 12", got)
	}

	b, err := s.LoadShard(0)
	if err != nil {
		t.Fatal(err)
	}
	if b.NumRecords() != 2 {
		t.Fatalf("shard 0 has %d records, want 2", b.NumRecords())
	}
	if b.Src(0) != 0 || b.Dst(0) != 1 {
		t.Errorf("record 0 = (%d,%d), want (0,1)", b.Src(0), b.Dst(0))
	}
	if b.Src(1) != 3 || b.Dst(1) != 0 {
		t.Errorf("record 1 = (%d,%d), want (3,0)", b.Src(1), b.Dst(1))
	}
}

func TestSliceAndWriteBack(t *testing.T) {
	base := writeRingSet(t, t.TempDir())

	s, err := Open(base)
	if err != nil {
		t.Fatal(err)
	}

	// Shard 1 holds (1,2) and (2,3); slice sources [2,4) -> only (2,3).
	b, err := s.Slice(1, Interval{2, 4})
	if err != nil {
		t.Fatal(err)
	}
	if b.NumRecords() != 1 {
		t.Fatalf("slice has %d records, want 1", b.NumRecords())
	}
	if b.Src(0) != 2 || b.Dst(0) != 3 {
		t.Fatalf("slice record = (%d,%d), want (2,3)", b.Src(0), b.Dst(0))
	}
	if want := int64(12); s.SliceSize(1, Interval{2, 4}) != want {
		t.Errorf("SliceSize = %d, want %d", s.SliceSize(1, Interval{2, 4}), want)
	}

	binary.LittleEndian.PutUint32(b.Payload(0), 42)
	b.MarkDirty()
	if err := s.WriteBack(b); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and verify the write landed at the right offset.
	s2, err := Open(base)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	full, err := s2.LoadShard(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(full.Payload(1)); got != 42 {
		t.Errorf("payload of (2,3) = %d, want 42", got)
	}
	if got := binary.LittleEndian.Uint32(full.Payload(0)); got != 0 {
		t.Errorf("payload of (1,2) = %d, want 0 (untouched)", got)
	}
}

func TestWriteBackCleanBlockIsNoop(t *testing.T) {
	base := writeRingSet(t, t.TempDir())
	s, err := Open(base)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	before, _ := os.ReadFile(EdgePath(base, 0))
	b, err := s.LoadShard(0)
	if err != nil {
		t.Fatal(err)
	}
	binary.LittleEndian.PutUint32(b.Payload(0), 99) // modified but not marked
	if err := s.WriteBack(b); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(EdgePath(base, 0))
	if !bytes.Equal(before, after) {
		t.Error("clean block was flushed to disk")
	}
}

func TestOpenFormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(t *testing.T, base string)
	}{
		{
			name: "truncated edge file",
			corrupt: func(t *testing.T, base string) {
				if err := os.Truncate(EdgePath(base, 0), 13); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "index edge length disagreement",
			corrupt: func(t *testing.T, base string) {
				if err := os.Truncate(EdgePath(base, 0), 12); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "non-monotone index sources",
			corrupt: func(t *testing.T, base string) {
				entries := []IndexEntry{
					{Src: 3, Off: 0, Count: 1},
					{Src: 0, Off: 12, Count: 1},
				}
				buf := make([]byte, 2*16)
				encodeIndexEntry(buf[0:], entries[0])
				encodeIndexEntry(buf[16:], entries[1])
				if err := os.WriteFile(IndexPath(base, 0), buf, 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "manifest checksum mismatch",
			corrupt: func(t *testing.T, base string) {
				data, err := os.ReadFile(MetaPath(base))
				if err != nil {
					t.Fatal(err)
				}
				data[8] ^= 0xff
				if err := os.WriteFile(MetaPath(base), data, 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := writeRingSet(t, t.TempDir())
			tt.corrupt(t, base)
			_, err := Open(base)
			if !errors.Is(err, ErrShardFormat) {
				t.Fatalf("Open error = %v, want ErrShardFormat", err)
			}
		})
	}
}

func TestWriterRejectsUnsortedEdges(t *testing.T) {
	base := filepath.Join(t.TempDir(), "g")
	w, err := NewWriter(base, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	payload := make([]byte, 4)
	if err := w.Append(2, 0, payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Append(1, 0, payload); err == nil {
		t.Error("Append accepted out-of-order source")
	}
}

func TestDegreesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.degrees")
	in := []uint32{0, 2, 5}
	out := []uint32{3, 0, 1}
	if err := WriteDegrees(path, in, out); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDegrees(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	for v := uint32(0); v < 3; v++ {
		if d.In(v) != int(in[v]) || d.Out(v) != int(out[v]) {
			t.Errorf("vertex %d degrees = (%d,%d), want (%d,%d)", v, d.In(v), d.Out(v), in[v], out[v])
		}
	}

	if _, err := LoadDegrees(path, 4); !errors.Is(err, ErrShardFormat) {
		t.Errorf("vertex count mismatch error = %v, want ErrShardFormat", err)
	}
}

func TestManifestPairedFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.meta")
	m := Manifest{
		NumVertices: 2,
		NumShards:   1,
		PayloadSize: 8,
		Paired:      true,
		Intervals:   []Interval{{0, 2}},
	}
	if err := WriteManifest(path, m); err != nil {
		t.Fatal(err)
	}
	got, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Paired {
		t.Error("paired flag lost in round trip")
	}
	if got.RecordSize() != 16 {
		t.Errorf("RecordSize = %d, want 16", got.RecordSize())
	}
}
