package shard

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Degrees is the memory-resident per-vertex degree index. It is built once
// from the degree file at engine startup and never mutated afterwards.
type Degrees struct {
	in  []uint32
	out []uint32
}

// LoadDegrees reads the degree file for numVertices vertices. The file is
// mapped read-only and copied into process memory for constant-time lookup.
func LoadDegrees(path string, numVertices int) (*Degrees, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() != int64(numVertices)*degreeEntrySize {
		return nil, &FormatError{Path: path, Reason: "degree file length does not match vertex count"}
	}

	d := &Degrees{
		in:  make([]uint32, numVertices),
		out: make([]uint32, numVertices),
	}
	if numVertices == 0 {
		return d, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()

	le := binary.LittleEndian
	for v := 0; v < numVertices; v++ {
		d.in[v] = le.Uint32(m[v*degreeEntrySize:])
		d.out[v] = le.Uint32(m[v*degreeEntrySize+4:])
	}
	return d, nil
}

// In returns the in-degree of vertex v.
func (d *Degrees) In(v uint32) int { return int(d.in[v]) }

// Out returns the out-degree of vertex v.
func (d *Degrees) Out(v uint32) int { return int(d.out[v]) }

// NumVertices returns the number of vertices covered by the index.
func (d *Degrees) NumVertices() int { return len(d.in) }

// InDegrees returns the raw in-degree array, one entry per vertex ID.
// The slice must not be modified.
func (d *Degrees) InDegrees() []uint32 { return d.in }

// WriteDegrees atomically writes the degree file: one (in, out) pair of
// little-endian uint32s per vertex ID.
func WriteDegrees(path string, in, out []uint32) error {
	return saveToFile(path, func(w io.Writer) error {
		var buf [degreeEntrySize]byte
		le := binary.LittleEndian
		for v := range in {
			le.PutUint32(buf[0:], in[v])
			le.PutUint32(buf[4:], out[v])
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}
		return nil
	})
}
