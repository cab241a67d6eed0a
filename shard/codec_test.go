package shard

import "testing"

func TestPairedSlotParity(t *testing.T) {
	p := Paired[float32]{Elem: Float32{}}
	buf := make([]byte, p.Size())
	p.SetBoth(buf, 1.5)

	// A write for iteration i must be invisible to reads at iteration i and
	// become the current value at iteration i+1.
	for iter := 0; iter < 4; iter++ {
		next := float32(10 + iter)
		p.SetNext(buf, iter, next)
		if got := p.Current(buf, iter+1); got != next {
			t.Fatalf("iteration %d: Current(i+1) = %v, want %v", iter, got, next)
		}
	}
}

func TestPairedWriteDoesNotClobberCurrent(t *testing.T) {
	p := Paired[int32]{Elem: Int32{}}
	buf := make([]byte, p.Size())
	p.SetBoth(buf, 7)

	p.SetNext(buf, 2, 99)
	if got := p.Current(buf, 2); got != 7 {
		t.Fatalf("Current(2) = %d after SetNext(2), want 7", got)
	}
}

func TestCodecWidths(t *testing.T) {
	if (Float32{}).Size() != 4 || (Int32{}).Size() != 4 || (Uint32{}).Size() != 4 {
		t.Fatal("scalar codecs must be 4 bytes wide")
	}
	if p := (Paired[uint32]{Elem: Uint32{}}); p.Size() != 8 {
		t.Fatalf("paired codec size = %d, want 8", p.Size())
	}
}
