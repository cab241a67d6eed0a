package engine

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Scheduler tracks which vertices are scheduled for execution. Updates add
// tasks for the next iteration; at iteration boundaries the next set becomes
// current. When scheduling is enabled, vertices absent from the current set
// are skipped by the update dispatch.
type Scheduler struct {
	mu      sync.Mutex
	current *roaring.Bitmap
	next    *roaring.Bitmap
}

// NewScheduler creates a scheduler with every vertex scheduled for the first
// iteration.
func NewScheduler(numVertices int) *Scheduler {
	s := &Scheduler{
		current: roaring.New(),
		next:    roaring.New(),
	}
	if numVertices > 0 {
		s.current.AddRange(0, uint64(numVertices))
	}
	return s
}

// AddTask schedules a vertex for the next iteration. Safe for concurrent use
// from update workers.
func (s *Scheduler) AddTask(v uint32) {
	s.mu.Lock()
	s.next.Add(v)
	s.mu.Unlock()
}

// IsScheduled reports whether a vertex is scheduled in the current iteration.
func (s *Scheduler) IsScheduled(v uint32) bool {
	return s.current.Contains(v)
}

// NumScheduled returns the number of vertices scheduled in the current
// iteration.
func (s *Scheduler) NumScheduled() int {
	return int(s.current.GetCardinality())
}

// Advance makes the next set current and clears the next set. Called at
// iteration boundaries, never concurrently with updates.
func (s *Scheduler) Advance() {
	s.current, s.next = s.next, s.current
	s.next.Clear()
}
