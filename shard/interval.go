package shard

import (
	"fmt"
	"sort"
)

// Interval is a contiguous half-open range [Lo, Hi) of vertex IDs.
type Interval struct {
	Lo uint32
	Hi uint32
}

// Contains reports whether v lies in the interval.
func (iv Interval) Contains(v uint32) bool { return v >= iv.Lo && v < iv.Hi }

// Len returns the number of vertex IDs covered by the interval.
func (iv Interval) Len() int { return int(iv.Hi - iv.Lo) }

func (iv Interval) String() string { return fmt.Sprintf("[%d,%d)", iv.Lo, iv.Hi) }

// ValidateIntervals checks that the intervals are non-inverted ranges that
// partition [0, numVertices) in order. Empty ranges (Lo == Hi) are accepted.
func ValidateIntervals(intervals []Interval, numVertices uint32) error {
	if len(intervals) == 0 {
		return fmt.Errorf("no intervals")
	}
	next := uint32(0)
	for i, iv := range intervals {
		if iv.Lo != next {
			return fmt.Errorf("interval %d starts at %d, want %d", i, iv.Lo, next)
		}
		if iv.Hi < iv.Lo {
			return fmt.Errorf("interval %d is inverted", i)
		}
		next = iv.Hi
	}
	if next != numVertices {
		return fmt.Errorf("intervals end at %d, want %d", next, numVertices)
	}
	return nil
}

// ShardFor returns the index of the interval containing vertex v.
// The intervals must partition the vertex space.
func ShardFor(intervals []Interval, v uint32) int {
	return sort.Search(len(intervals), func(i int) bool { return v < intervals[i].Hi })
}

// PlanIntervals partitions the vertex ID space into numShards intervals
// balanced by in-edge count: interval p will own roughly an equal share of
// the edges, so every shard ends up a similar size. inDegrees holds one
// entry per vertex ID.
//
// Equal edge counts are preferred over equal vertex counts: shard size is
// what must fit the memory budget, not vertex count.
func PlanIntervals(inDegrees []uint32, numShards int) []Interval {
	n := uint32(len(inDegrees))
	if numShards < 1 {
		numShards = 1
	}
	if int(n) < numShards {
		numShards = int(n)
	}

	var total int64
	for _, d := range inDegrees {
		total += int64(d)
	}

	intervals := make([]Interval, 0, numShards)
	lo := uint32(0)
	var used int64
	for p := 0; p < numShards; p++ {
		remainingShards := int64(numShards - p)
		target := (total - used + remainingShards - 1) / remainingShards

		hi := lo
		var acc int64
		// Every remaining shard must keep at least one vertex.
		maxHi := n - uint32(numShards-p-1)
		for hi < maxHi && (acc < target || hi == lo) {
			acc += int64(inDegrees[hi])
			hi++
		}
		if p == numShards-1 {
			for hi < n {
				acc += int64(inDegrees[hi])
				hi++
			}
			hi = n
		}
		intervals = append(intervals, Interval{Lo: lo, Hi: hi})
		used += acc
		lo = hi
	}
	return intervals
}
