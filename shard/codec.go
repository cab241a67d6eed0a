package shard

import (
	"encoding/binary"
	"math"
)

// Codec converts between an edge payload value and its fixed-width on-disk
// representation. Encode and Decode operate on exactly Size bytes.
type Codec[E any] interface {
	Size() int
	Decode(b []byte) E
	Encode(b []byte, v E)
}

// Float32 encodes a float32 payload as 4 little-endian bytes.
type Float32 struct{}

func (Float32) Size() int { return 4 }

func (Float32) Decode(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (Float32) Encode(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// Int32 encodes an int32 payload as 4 little-endian bytes.
type Int32 struct{}

func (Int32) Size() int { return 4 }

func (Int32) Decode(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func (Int32) Encode(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// Uint32 encodes a uint32 payload as 4 little-endian bytes.
type Uint32 struct{}

func (Uint32) Size() int { return 4 }

func (Uint32) Decode(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func (Uint32) Encode(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// Float64 encodes a float64 payload as 8 little-endian bytes.
type Float64 struct{}

func (Float64) Size() int { return 8 }

func (Float64) Decode(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (Float64) Encode(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

// Paired lays two payload slots side by side inside one edge record, the
// double buffer required by bulk-synchronous computation. On iteration i the
// current (read) slot is the first one if i is even, the second otherwise;
// SetNext writes the opposite slot so that it becomes current on iteration
// i+1.
type Paired[E any] struct {
	Elem Codec[E]
}

// Size returns the combined width of both slots.
func (p Paired[E]) Size() int { return 2 * p.Elem.Size() }

// Current decodes the read slot for the given iteration.
func (p Paired[E]) Current(b []byte, iteration int) E {
	if iteration%2 == 0 {
		return p.Elem.Decode(b)
	}
	return p.Elem.Decode(b[p.Elem.Size():])
}

// SetNext encodes v into the write slot for the given iteration, i.e. the
// slot that Current will read on iteration+1.
func (p Paired[E]) SetNext(b []byte, iteration int, v E) {
	if iteration%2 == 0 {
		p.Elem.Encode(b[p.Elem.Size():], v)
	} else {
		p.Elem.Encode(b, v)
	}
}

// SetBoth encodes v into both slots. Used when seeding a shard set.
func (p Paired[E]) SetBoth(b []byte, v E) {
	p.Elem.Encode(b, v)
	p.Elem.Encode(b[p.Elem.Size():], v)
}
