package shard

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ShardSet is an open shard set: one edge file and one index per shard, plus
// the manifest. Edge files are opened read-write; blocks read from them are
// modified in memory and flushed back in place.
type ShardSet struct {
	base   string
	man    Manifest
	shards []*shardFile
}

type shardFile struct {
	path  string
	f     *os.File
	size  int64
	index []IndexEntry
}

// Open opens the shard set with the given base name and validates the
// on-disk format: magic, version, interval table, index sort order and
// index/edge length agreement. Any disagreement yields a FormatError.
func Open(base string) (*ShardSet, error) {
	man, err := ReadManifest(MetaPath(base))
	if err != nil {
		return nil, err
	}

	s := &ShardSet{
		base:   base,
		man:    man,
		shards: make([]*shardFile, man.NumShards),
	}
	recSize := man.RecordSize()

	for p := range s.shards {
		path := EdgePath(base, p)
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open shard %d: %w", p, err)
		}
		st, err := f.Stat()
		if err != nil {
			f.Close()
			s.Close()
			return nil, err
		}
		sf := &shardFile{path: path, f: f, size: st.Size()}
		s.shards[p] = sf

		if sf.size%int64(recSize) != 0 {
			s.Close()
			return nil, &FormatError{Path: path, Reason: "edge file length is not a multiple of the record size"}
		}

		sf.index, err = readIndexFile(IndexPath(base, p))
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := validateIndex(sf.index, recSize, sf.size, man.NumVertices, IndexPath(base, p)); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// readIndexFile maps the index file read-only and decodes its entries into a
// heap-allocated slice; the mapping is released before returning.
func readIndexFile(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()

	return decodeIndex(m, path)
}

// Base returns the shard-set base name.
func (s *ShardSet) Base() string { return s.base }

// Manifest returns the shard-set manifest.
func (s *ShardSet) Manifest() Manifest { return s.man }

// NumShards returns the number of shards.
func (s *ShardSet) NumShards() int { return int(s.man.NumShards) }

// NumVertices returns the number of vertices.
func (s *ShardSet) NumVertices() int { return int(s.man.NumVertices) }

// Intervals returns the persisted interval table, one interval per shard.
func (s *ShardSet) Intervals() []Interval { return s.man.Intervals }

// RecordSize returns the on-disk size of one edge record.
func (s *ShardSet) RecordSize() int { return s.man.RecordSize() }

// Index returns shard p's index entries. The slice must not be modified.
func (s *ShardSet) Index(p int) []IndexEntry { return s.shards[p].index }

// ShardSize returns the edge file size of shard p in bytes.
func (s *ShardSet) ShardSize(p int) int64 { return s.shards[p].size }

// SliceSize returns, without any I/O, the byte size of the slice of shard p
// covering sources in iv.
func (s *ShardSet) SliceSize(p int, iv Interval) int64 {
	i, j := searchIndex(s.shards[p].index, iv)
	if i == j {
		return 0
	}
	entries := s.shards[p].index
	end := entries[j-1].Off + uint64(entries[j-1].Count)*uint64(s.RecordSize())
	return int64(end - entries[i].Off)
}

// LoadShard reads shard p's full edge file into a mutable block. This is the
// memory shard of interval p: it holds every in-edge of the interval's
// vertices.
func (s *ShardSet) LoadShard(p int) (*Block, error) {
	return s.readBlock(p, 0, s.shards[p].size)
}

// Slice reads the contiguous run of shard p's records whose source falls in
// iv. It never returns less than the full run and is idempotent.
func (s *ShardSet) Slice(p int, iv Interval) (*Block, error) {
	entries := s.shards[p].index
	i, j := searchIndex(entries, iv)
	if i == j {
		return &Block{shard: p, recSize: s.RecordSize()}, nil
	}
	off := int64(entries[i].Off)
	end := int64(entries[j-1].Off + uint64(entries[j-1].Count)*uint64(s.RecordSize()))
	return s.readBlock(p, off, end-off)
}

func (s *ShardSet) readBlock(p int, off, n int64) (*Block, error) {
	b := &Block{
		shard:   p,
		off:     off,
		buf:     make([]byte, n),
		recSize: s.RecordSize(),
	}
	if n == 0 {
		return b, nil
	}
	if _, err := s.shards[p].f.ReadAt(b.buf, off); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read shard %d: %w", p, err)
	}
	return b, nil
}

// WriteBack flushes a dirty block to the byte offset it was read from. The
// buffer is written in full with a single positioned write, so the flush is
// atomic at interval granularity; clean blocks are a no-op.
func (s *ShardSet) WriteBack(b *Block) error {
	if !b.dirty || len(b.buf) == 0 {
		return nil
	}
	if _, err := s.shards[b.shard].f.WriteAt(b.buf, b.off); err != nil {
		return fmt.Errorf("write back shard %d: %w", b.shard, err)
	}
	b.dirty = false
	return nil
}

// Sync fsyncs every edge file.
func (s *ShardSet) Sync() error {
	for p, sf := range s.shards {
		if sf == nil {
			continue
		}
		if err := sf.f.Sync(); err != nil {
			return fmt.Errorf("sync shard %d: %w", p, err)
		}
	}
	return nil
}

// Close closes all shard files.
func (s *ShardSet) Close() error {
	var firstErr error
	for _, sf := range s.shards {
		if sf == nil || sf.f == nil {
			continue
		}
		if err := sf.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		sf.f = nil
	}
	return firstErr
}
