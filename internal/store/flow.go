package store

import "github.com/ptalias/ptalias/internal/ptr"

// Flow is the pointer-flow graph (L4, §3.4/§4.3): a set of directed edges
// between pointers along which object sets propagate.
type Flow struct {
	succ map[ptr.Pointer]map[ptr.Pointer]bool
}

func NewFlow() *Flow {
	return &Flow{succ: map[ptr.Pointer]map[ptr.Pointer]bool{}}
}

// AddEdge inserts src->tgt and reports whether it is new (§4.3: "PF.put
// returns true on first insertion").
func (f *Flow) AddEdge(src, tgt ptr.Pointer) bool {
	set := f.succ[src]
	if set == nil {
		set = map[ptr.Pointer]bool{}
		f.succ[src] = set
	}
	if set[tgt] {
		return false
	}
	set[tgt] = true
	return true
}

// Successors returns every q such that an edge p->q exists.
func (f *Flow) Successors(p ptr.Pointer) []ptr.Pointer {
	set := f.succ[p]
	if len(set) == 0 {
		return nil
	}
	out := make([]ptr.Pointer, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	return out
}
