package shard

import (
	"encoding/binary"
	"sort"
)

// IndexEntry locates the edge run of one source vertex within a shard's edge
// file. Entries are sorted by Src; runs are contiguous and non-overlapping.
type IndexEntry struct {
	Src   uint32
	Off   uint64
	Count uint32
}

func decodeIndex(data []byte, path string) ([]IndexEntry, error) {
	if len(data)%indexEntrySize != 0 {
		return nil, &FormatError{Path: path, Reason: "index file length is not a multiple of the entry size"}
	}
	entries := make([]IndexEntry, len(data)/indexEntrySize)
	le := binary.LittleEndian
	for i := range entries {
		off := i * indexEntrySize
		entries[i] = IndexEntry{
			Src:   le.Uint32(data[off:]),
			Off:   le.Uint64(data[off+4:]),
			Count: le.Uint32(data[off+12:]),
		}
	}
	return entries, nil
}

func encodeIndexEntry(b []byte, e IndexEntry) {
	le := binary.LittleEndian
	le.PutUint32(b, e.Src)
	le.PutUint64(b[4:], e.Off)
	le.PutUint32(b[12:], e.Count)
}

// validateIndex checks the shard sort invariant: strictly increasing source
// IDs, contiguous runs, and agreement between index and edge file length.
func validateIndex(entries []IndexEntry, recSize int, edgeFileSize int64, numVertices uint32, path string) error {
	var expectOff uint64
	var prevSrc uint32
	for i, e := range entries {
		if i > 0 && e.Src <= prevSrc {
			return &FormatError{Path: path, Reason: "source IDs are not strictly increasing"}
		}
		if e.Src >= numVertices {
			return &FormatError{Path: path, Reason: "source ID out of range"}
		}
		if e.Count == 0 {
			return &FormatError{Path: path, Reason: "empty edge run"}
		}
		if e.Off != expectOff {
			return &FormatError{Path: path, Reason: "edge runs are not contiguous"}
		}
		expectOff += uint64(e.Count) * uint64(recSize)
		prevSrc = e.Src
	}
	if expectOff != uint64(edgeFileSize) {
		return &FormatError{Path: path, Reason: "index and edge file lengths disagree"}
	}
	return nil
}

// searchIndex returns the half-open range [i, j) of index entries whose
// source falls in iv.
func searchIndex(entries []IndexEntry, iv Interval) (int, int) {
	i := sort.Search(len(entries), func(k int) bool { return entries[k].Src >= iv.Lo })
	j := sort.Search(len(entries), func(k int) bool { return entries[k].Src >= iv.Hi })
	return i, j
}
