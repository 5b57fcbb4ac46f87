// Package store implements the points-to store (L3, §3.4/§4.4) and the
// pointer-flow graph (L4, §4.3): the two monotone structures the solver
// mutates on every event.
package store

import (
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
)

// PointsTo is the monotone partial function Pointer -> Set<Object> (§3.4).
// Missing entries behave as the empty set; objects are never removed
// (Invariant PT-1).
type PointsTo struct {
	sets map[ptr.Pointer]map[object.Object]bool
}

func NewPointsTo() *PointsTo {
	return &PointsTo{sets: map[ptr.Pointer]map[object.Object]bool{}}
}

// Get returns the objects currently in PT(p); the slice must not be
// mutated by the caller.
func (s *PointsTo) Get(p ptr.Pointer) []object.Object {
	set := s.sets[p]
	if len(set) == 0 {
		return nil
	}
	out := make([]object.Object, 0, len(set))
	for o := range set {
		out = append(out, o)
	}
	return out
}

// Has reports whether o is currently in PT(p).
func (s *PointsTo) Has(p ptr.Pointer, o object.Object) bool {
	return s.sets[p][o]
}

// PutAll unions objs into PT(p) and returns the subset that was actually
// new (δ = objs \ PT(p)), per §4.4. The empty PutAll returns nil without
// any side effect; in particular it does not allocate a set for p.
func (s *PointsTo) PutAll(p ptr.Pointer, objs []object.Object) []object.Object {
	if len(objs) == 0 {
		return nil
	}
	set := s.sets[p]
	if set == nil {
		set = map[object.Object]bool{}
		s.sets[p] = set
	}
	var delta []object.Object
	for _, o := range objs {
		if !set[o] {
			set[o] = true
			delta = append(delta, o)
		}
	}
	return delta
}

// Len reports the number of pointers with a non-empty points-to set; used
// only for diagnostics.
func (s *PointsTo) Len() int { return len(s.sets) }

// All iterates every (pointer, objects) pair with a non-empty set; used by
// the serializer (§6.3).
func (s *PointsTo) All(yield func(ptr.Pointer, []object.Object)) {
	for p, set := range s.sets {
		objs := make([]object.Object, 0, len(set))
		for o := range set {
			objs = append(objs, o)
		}
		yield(p, objs)
	}
}
