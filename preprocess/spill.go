package preprocess

import (
	"bufio"
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"
)

type rec struct{ src, dst uint32 }

func less(a, b rec) bool {
	if a.src != b.src {
		return a.src < b.src
	}
	return a.dst < b.dst
}

// spiller collects one shard's edges. Edges accumulate in memory up to the
// run limit; full buffers are sorted and spilled as zstd-compressed runs of
// 8-byte records. drain merges the runs back in (src, dst) order.
type spiller struct {
	dir   string
	name  string
	limit int
	buf   []rec
	runs  []string
}

func newSpiller(dir, name string, limit int) *spiller {
	return &spiller{dir: dir, name: name, limit: limit}
}

func (s *spiller) add(src, dst uint32) error {
	s.buf = append(s.buf, rec{src: src, dst: dst})
	if len(s.buf) >= s.limit {
		return s.spill()
	}
	return nil
}

func (s *spiller) spill() error {
	if len(s.buf) == 0 {
		return nil
	}
	sort.Slice(s.buf, func(i, j int) bool { return less(s.buf[i], s.buf[j]) })

	path := fmt.Sprintf("%s/%s.run%d.zst", s.dir, s.name, len(s.runs))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}

	var b [8]byte
	w := bufio.NewWriterSize(enc, 64*1024)
	for _, r := range s.buf {
		binary.LittleEndian.PutUint32(b[0:], r.src)
		binary.LittleEndian.PutUint32(b[4:], r.dst)
		if _, err := w.Write(b[:]); err != nil {
			enc.Close()
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	s.runs = append(s.runs, path)
	s.buf = s.buf[:0]
	return nil
}

// drain emits the spiller's edges in (src, dst) order and removes the run
// files. The in-memory tail is merged against the spilled runs.
func (s *spiller) drain(fn func(src, dst uint32) error) error {
	sort.Slice(s.buf, func(i, j int) bool { return less(s.buf[i], s.buf[j]) })

	if len(s.runs) == 0 {
		for _, r := range s.buf {
			if err := fn(r.src, r.dst); err != nil {
				return err
			}
		}
		s.buf = nil
		return nil
	}

	sources := make([]*runReader, 0, len(s.runs)+1)
	defer func() {
		for _, r := range sources {
			r.close()
		}
		for _, path := range s.runs {
			os.Remove(path)
		}
	}()

	for _, path := range s.runs {
		r, err := openRun(path)
		if err != nil {
			return err
		}
		sources = append(sources, r)
	}
	sources = append(sources, &runReader{mem: s.buf})
	s.buf = nil

	var h runHeap
	for _, r := range sources {
		ok, err := r.next()
		if err != nil {
			return err
		}
		if ok {
			h = append(h, r)
		}
	}
	heap.Init(&h)

	for h.Len() > 0 {
		r := h[0]
		if err := fn(r.cur.src, r.cur.dst); err != nil {
			return err
		}
		ok, err := r.next()
		if err != nil {
			return err
		}
		if ok {
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return nil
}

// runReader yields the records of one sorted source: either a spilled run
// file or the in-memory tail buffer.
type runReader struct {
	f   *os.File
	dec *zstd.Decoder
	br  *bufio.Reader

	mem []rec
	pos int

	cur rec
}

func openRun(path string) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &runReader{f: f, dec: dec, br: bufio.NewReaderSize(dec, 64*1024)}, nil
}

func (r *runReader) next() (bool, error) {
	if r.br == nil {
		if r.pos >= len(r.mem) {
			return false, nil
		}
		r.cur = r.mem[r.pos]
		r.pos++
		return true, nil
	}

	var b [8]byte
	if _, err := io.ReadFull(r.br, b[:]); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	r.cur = rec{src: binary.LittleEndian.Uint32(b[0:]), dst: binary.LittleEndian.Uint32(b[4:])}
	return true, nil
}

func (r *runReader) close() {
	if r.dec != nil {
		r.dec.Close()
	}
	if r.f != nil {
		r.f.Close()
	}
}

type runHeap []*runReader

func (h runHeap) Len() int           { return len(h) }
func (h runHeap) Less(i, j int) bool { return less(h[i].cur, h[j].cur) }
func (h runHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *runHeap) Push(x any) { *h = append(*h, x.(*runReader)) }

func (h *runHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
