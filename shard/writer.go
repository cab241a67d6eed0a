package shard

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Writer creates one shard's edge and index files. Edges must be appended in
// (source, destination) order; the index is derived from the append stream
// and written atomically on Close.
type Writer struct {
	edgePath    string
	indexPath   string
	payloadSize int

	f   *os.File
	buf *bufio.Writer

	index    []IndexEntry
	off      uint64
	lastSrc  uint32
	lastDst  uint32
	started  bool
	runCount uint32
	closed   bool
}

// NewWriter creates the edge file of shard p under the given base name.
func NewWriter(base string, p int, payloadSize int) (*Writer, error) {
	if payloadSize <= 0 {
		return nil, fmt.Errorf("payload size must be positive, got %d", payloadSize)
	}
	f, err := os.Create(EdgePath(base, p))
	if err != nil {
		return nil, err
	}
	return &Writer{
		edgePath:    EdgePath(base, p),
		indexPath:   IndexPath(base, p),
		payloadSize: payloadSize,
		f:           f,
		buf:         bufio.NewWriterSize(f, 256*1024),
	}, nil
}

// Append writes one edge record. Edges must arrive sorted by (src, dst);
// payload must be exactly the configured payload size.
func (w *Writer) Append(src, dst uint32, payload []byte) error {
	if len(payload) != w.payloadSize {
		return fmt.Errorf("payload is %d bytes, want %d", len(payload), w.payloadSize)
	}
	if w.started {
		if src < w.lastSrc || (src == w.lastSrc && dst < w.lastDst) {
			return fmt.Errorf("edge (%d,%d) violates (src,dst) sort order after (%d,%d)",
				src, dst, w.lastSrc, w.lastDst)
		}
	}

	if !w.started || src != w.lastSrc {
		w.flushRun()
		w.lastSrc = src
	}
	w.started = true
	w.lastDst = dst
	w.runCount++

	var hdr [recordHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], src)
	binary.LittleEndian.PutUint32(hdr[4:], dst)
	if _, err := w.buf.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.buf.Write(payload)
	return err
}

func (w *Writer) flushRun() {
	if w.runCount > 0 {
		w.index = append(w.index, IndexEntry{Src: w.lastSrc, Off: w.off, Count: w.runCount})
		w.off += uint64(w.runCount) * uint64(recordHeaderSize+w.payloadSize)
		w.runCount = 0
	}
}

// Close flushes and fsyncs the edge file, then writes the index file
// atomically. Close must be called exactly once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.flushRun()

	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return err
	}
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		return err
	}
	if err := w.f.Close(); err != nil {
		return err
	}

	return saveToFile(w.indexPath, func(iw io.Writer) error {
		var buf [indexEntrySize]byte
		for _, e := range w.index {
			encodeIndexEntry(buf[:], e)
			if _, err := iw.Write(buf[:]); err != nil {
				return err
			}
		}
		return nil
	})
}
