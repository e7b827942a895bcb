package cliptrack

import (
	"fmt"
	"hash/fnv"
)

// markerRec names one coordinate frame. boundary is the save depth the
// marker was recorded at; records sharing a boundary are removed together
// when that boundary is restored. matrix and inverse are recomputed as a
// pair and never drift apart.
type markerRec struct {
	id       uint32
	boundary int
	matrix   Matrix
	inverse  Matrix
}

// MarkerStack records named coordinate frames relative to the drawing
// tree's nesting depth, so effects can later recover the transform of an
// ancestor render scope without walking the clip stack.
//
// Records are grouped contiguously by boundary with the most recent
// boundary on top. A MarkerStack is owned by exactly one drawing context
// and is not safe for concurrent use; callers receive matrix values, never
// references into the stack.
type MarkerStack struct {
	recs []markerRec
}

// NewMarkerStack creates a marker stack. capacity pre-sizes the record
// arena; values below zero are treated as zero.
func NewMarkerStack(capacity int) *MarkerStack {
	if capacity < 0 {
		capacity = 0
	}
	return &MarkerStack{recs: make([]markerRec, 0, capacity)}
}

// Set records the matrix under id at the given boundary. Setting the same
// id again within the current boundary group overwrites the record in
// place; ids from earlier boundary groups are shadowed, not replaced, and
// become visible again when the newer boundary is restored.
//
// The inverse is derived together with the matrix. A singular matrix
// cannot name a usable coordinate frame and panics.
func (s *MarkerStack) Set(id uint32, m Matrix, boundary int) {
	inv, ok := m.Invert()
	if !ok {
		panic(fmt.Sprintf("cliptrack: singular marker matrix for id %#x", id))
	}
	// Records are grouped by boundary, most recent on top; the scan can
	// stop at the first record from an older group.
	for i := len(s.recs) - 1; i >= 0 && s.recs[i].boundary == boundary; i-- {
		if s.recs[i].id == id {
			s.recs[i].matrix = m
			s.recs[i].inverse = inv
			return
		}
	}
	s.recs = append(s.recs, markerRec{
		id:       id,
		boundary: boundary,
		matrix:   m,
		inverse:  inv,
	})
}

// Find returns the most recently set matrix recorded under id, across all
// boundaries.
func (s *MarkerStack) Find(id uint32) (Matrix, bool) {
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].id == id {
			return s.recs[i].matrix, true
		}
	}
	return Matrix{}, false
}

// FindInverse returns the inverse of the most recently set matrix recorded
// under id, across all boundaries.
func (s *MarkerStack) FindInverse(id uint32) (Matrix, bool) {
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].id == id {
			return s.recs[i].inverse, true
		}
	}
	return Matrix{}, false
}

// Restore removes every record of the given boundary from the top of the
// stack. The owning drawing context calls this exactly once per matching
// save scope exit.
func (s *MarkerStack) Restore(boundary int) {
	i := len(s.recs)
	for i > 0 && s.recs[i-1].boundary == boundary {
		i--
	}
	s.recs = s.recs[:i]
}

// MarkerID hashes a marker name into the id space of the stack.
func MarkerID(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// validMarkerName reports whether the name is non-empty and contains only
// letters, digits and underscores.
func validMarkerName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
