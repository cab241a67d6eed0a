package shard

import "encoding/binary"

// Block is a contiguous run of edge records loaded into a mutable in-memory
// buffer. Payload slices returned by Payload alias the buffer; WriteBack
// flushes the whole buffer back to the byte offset it was read from.
type Block struct {
	shard   int
	off     int64
	buf     []byte
	recSize int
	dirty   bool
}

// Shard returns the shard the block was read from.
func (b *Block) Shard() int { return b.shard }

// NumRecords returns the number of edge records in the block.
func (b *Block) NumRecords() int { return len(b.buf) / b.recSize }

// Src returns the source vertex ID of record i.
func (b *Block) Src(i int) uint32 {
	return binary.LittleEndian.Uint32(b.buf[i*b.recSize:])
}

// Dst returns the destination vertex ID of record i.
func (b *Block) Dst(i int) uint32 {
	return binary.LittleEndian.Uint32(b.buf[i*b.recSize+4:])
}

// Payload returns the mutable payload bytes of record i. Mutations become
// durable only after MarkDirty and a WriteBack.
func (b *Block) Payload(i int) []byte {
	off := i*b.recSize + recordHeaderSize
	return b.buf[off : off+b.recSize-recordHeaderSize : off+b.recSize-recordHeaderSize]
}

// Bytes returns the raw backing buffer.
func (b *Block) Bytes() []byte { return b.buf }

// MarkDirty records that the block's payloads were modified.
func (b *Block) MarkDirty() { b.dirty = true }

// Dirty reports whether the block has unflushed modifications.
func (b *Block) Dirty() bool { return b.dirty }
