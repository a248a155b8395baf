// Package selection builds chunk-local row masks from antenna-membership
// and time-window predicates. Masks are roaring bitmaps over row indices
// within one chunk; they are recomputed per chunk and never persisted.
package selection

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Window is an open time interval over raw TIME values (MJD seconds).
// Both bounds are exclusive; unrestricted selections widen the observation
// range by one second on each side so no edge row is excluded.
type Window struct {
	Start float64
	End   float64
}

// Contains reports whether t lies strictly inside the window.
func (w Window) Contains(t float64) bool {
	return t > w.Start && t < w.End
}

// AntennaSet is a membership set of antenna indices.
type AntennaSet map[int32]struct{}

// NewAntennaSet builds a set from antenna indices.
func NewAntennaSet(ids ...int32) AntennaSet {
	s := make(AntennaSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s AntennaSet) Contains(id int32) bool {
	_, ok := s[id]
	return ok
}

// Mask returns the chunk-local rows whose antenna is in targets and whose
// time lies inside the window. ants and times run in parallel over the
// chunk rows.
func Mask(ants []int32, times []float64, targets AntennaSet, w Window) *roaring.Bitmap {
	m := roaring.New()
	for i, a := range ants {
		if targets.Contains(a) && w.Contains(times[i]) {
			m.Add(uint32(i))
		}
	}
	return m
}

// MatchAntennas returns the chunk-local rows whose antenna is in targets,
// with no time predicate.
func MatchAntennas(ants []int32, targets AntennaSet) *roaring.Bitmap {
	m := roaring.New()
	for i, a := range ants {
		if targets.Contains(a) {
			m.Add(uint32(i))
		}
	}
	return m
}

// Categories classifies chunk rows for two-antenna scaling: Both holds
// baselines where both endpoints are targets, One where exactly one is.
// Autocorrelations are excluded from both.
type Categories struct {
	Both *roaring.Bitmap
	One  *roaring.Bitmap
}

// IsEmpty reports whether no row fell in either category.
func (c Categories) IsEmpty() bool {
	return c.Both.IsEmpty() && c.One.IsEmpty()
}

// Classify assigns each row of the chunk to exactly one category (or
// neither). ant1 and ant2 run in parallel over the chunk rows.
func Classify(ant1, ant2 []int32, targets AntennaSet) Categories {
	c := Categories{Both: roaring.New(), One: roaring.New()}
	for i := range ant1 {
		if ant1[i] == ant2[i] {
			continue
		}
		in1 := targets.Contains(ant1[i])
		in2 := targets.Contains(ant2[i])
		switch {
		case in1 && in2:
			c.Both.Add(uint32(i))
		case in1 != in2:
			c.One.Add(uint32(i))
		}
	}
	return c
}

// Rows flattens a mask into chunk-local row indices in increasing order.
func Rows(m *roaring.Bitmap) []int {
	rows := make([]int, 0, m.GetCardinality())
	it := m.Iterator()
	for it.HasNext() {
		rows = append(rows, int(it.Next()))
	}
	return rows
}
