package shard

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
)

const (
	// MagicNumber identifies a shard-set manifest ("VGM1").
	MagicNumber uint32 = 0x56474D31

	// Version is the current manifest format version.
	Version uint32 = 1

	// recordHeaderSize is the per-record prefix: source and destination IDs.
	recordHeaderSize = 8

	// indexEntrySize is the packed size of one IndexEntry on disk.
	indexEntrySize = 16

	// degreeEntrySize is the packed size of one per-vertex degree pair.
	degreeEntrySize = 8

	manifestHeaderSize = 7 * 4

	flagPaired uint32 = 1 << 0
)

// MetaPath returns the manifest file path for a shard-set base name.
func MetaPath(base string) string { return base + ".meta" }

// EdgePath returns the edge file path of shard p.
func EdgePath(base string, p int) string {
	return fmt.Sprintf("%s.shard%d.edges", base, p)
}

// IndexPath returns the index file path of shard p.
func IndexPath(base string, p int) string {
	return fmt.Sprintf("%s.shard%d.index", base, p)
}

// DegreePath returns the degree file path for a shard-set base name.
func DegreePath(base string) string { return base + ".degrees" }

// SetFiles lists every file of the shard set with the given base name, in a
// stable order. The set must have a readable manifest.
func SetFiles(base string) ([]string, error) {
	m, err := ReadManifest(MetaPath(base))
	if err != nil {
		return nil, err
	}
	files := []string{MetaPath(base), DegreePath(base)}
	for p := 0; p < int(m.NumShards); p++ {
		files = append(files, EdgePath(base, p), IndexPath(base, p))
	}
	return files, nil
}

// Manifest describes a shard set: the global file that records vertex count,
// shard count, payload width and the interval boundaries.
type Manifest struct {
	NumVertices uint32
	NumShards   uint32
	PayloadSize uint32
	Paired      bool
	Intervals   []Interval
}

// RecordSize returns the on-disk size of one edge record.
func (m Manifest) RecordSize() int {
	return recordHeaderSize + int(m.PayloadSize)
}

// WriteManifest atomically writes the manifest to path. The payload is
// trailed by a CRC32 (IEEE) checksum of all preceding bytes.
func WriteManifest(path string, m Manifest) error {
	buf := make([]byte, manifestHeaderSize+8*len(m.Intervals)+4)

	flags := uint32(0)
	if m.Paired {
		flags |= flagPaired
	}
	le := binary.LittleEndian
	le.PutUint32(buf[0:], MagicNumber)
	le.PutUint32(buf[4:], Version)
	le.PutUint32(buf[8:], m.NumVertices)
	le.PutUint32(buf[12:], m.NumShards)
	le.PutUint32(buf[16:], m.PayloadSize)
	le.PutUint32(buf[20:], flags)
	le.PutUint32(buf[24:], uint32(len(m.Intervals)))
	off := manifestHeaderSize
	for _, iv := range m.Intervals {
		le.PutUint32(buf[off:], iv.Lo)
		le.PutUint32(buf[off+4:], iv.Hi)
		off += 8
	}
	le.PutUint32(buf[off:], crc32.ChecksumIEEE(buf[:off]))

	return saveToFile(path, func(w io.Writer) error {
		_, err := w.Write(buf)
		return err
	})
}

// ReadManifest reads and validates a shard-set manifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if len(data) < manifestHeaderSize+4 {
		return m, &FormatError{Path: path, Reason: "truncated manifest"}
	}

	le := binary.LittleEndian
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if sum := crc32.ChecksumIEEE(body); sum != le.Uint32(trailer) {
		return m, &FormatError{Path: path, Reason: "checksum mismatch"}
	}

	if magic := le.Uint32(body[0:]); magic != MagicNumber {
		return m, &FormatError{Path: path, Reason: fmt.Sprintf("invalid magic 0x%08x", magic)}
	}
	if version := le.Uint32(body[4:]); version != Version {
		return m, &FormatError{Path: path, Reason: fmt.Sprintf("unsupported version %d", version)}
	}
	m.NumVertices = le.Uint32(body[8:])
	m.NumShards = le.Uint32(body[12:])
	m.PayloadSize = le.Uint32(body[16:])
	m.Paired = le.Uint32(body[20:])&flagPaired != 0

	numIntervals := int(le.Uint32(body[24:]))
	if numIntervals != int(m.NumShards) {
		return m, &FormatError{Path: path, Reason: "interval count does not match shard count"}
	}
	if len(body) != manifestHeaderSize+8*numIntervals {
		return m, &FormatError{Path: path, Reason: "manifest length does not match interval count"}
	}
	m.Intervals = make([]Interval, numIntervals)
	for i := range m.Intervals {
		off := manifestHeaderSize + 8*i
		m.Intervals[i] = Interval{Lo: le.Uint32(body[off:]), Hi: le.Uint32(body[off+4:])}
	}

	if m.PayloadSize == 0 {
		return m, &FormatError{Path: path, Reason: "zero payload size"}
	}
	if err := ValidateIntervals(m.Intervals, m.NumVertices); err != nil {
		return m, &FormatError{Path: path, Reason: err.Error()}
	}
	return m, nil
}

// saveToFile writes data to a temp file in the destination directory and
// atomically renames it into place, fsyncing the file and the directory.
func saveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}
