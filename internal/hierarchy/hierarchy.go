// Package hierarchy implements the class hierarchy with incremental C3
// linearization (L6, §4.6): for every class-like object (a Class, or a Fake
// standing in for one), the set of MROs currently derivable from its bases'
// points-to sets, plus subclass back-pointers for incremental propagation.
package hierarchy

import (
	"fmt"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
	"github.com/ptalias/ptalias/internal/store"
)

// MRO is a non-empty, duplicate-free tuple whose head is the class being
// linearized (Invariant CH-1).
type MRO []object.Object

func (m MRO) key() string {
	s := ""
	for _, o := range m {
		s += fmt.Sprintf("%p,", o)
	}
	return s
}

func (m MRO) contains(o object.Object) bool {
	for _, e := range m {
		if e == o {
			return true
		}
	}
	return false
}

// SubclassInfo is a (subclass, base-position) back-pointer.
type SubclassInfo struct {
	Class     object.Object
	BaseIndex int
}

type subKey struct {
	sub   object.Object
	index int
}

// Hierarchy owns mros and subClasses (§3.4's CH). It reads base variables'
// points-to sets through pt/pp but never mutates them.
type Hierarchy struct {
	pt  *store.PointsTo
	pp  *ptr.Pool
	obj *object.Pool

	mros       map[object.Object]map[string]MRO
	subClasses map[object.Object]map[subKey]bool
}

// New creates an empty class hierarchy backed by the given points-to store
// and pointer/object pools.
func New(pt *store.PointsTo, pp *ptr.Pool, obj *object.Pool) *Hierarchy {
	return &Hierarchy{
		pt:         pt,
		pp:         pp,
		obj:        obj,
		mros:       map[object.Object]map[string]MRO{},
		subClasses: map[object.Object]map[subKey]bool{},
	}
}

// classLikeBases returns the declared base variables and the context chain
// they must be evaluated under, for any object that can appear in an MRO:
// a real Class, or a Fake standing in for one (which has no bases).
func classLikeBases(c object.Object) ([]*ir.Variable, ctx.Chain, bool) {
	switch t := c.(type) {
	case *object.Class:
		return t.Bases(), t.Chain, true
	case *object.Fake:
		return nil, nil, true
	default:
		return nil, nil, false
	}
}

func (h *Hierarchy) addSubclass(base, sub object.Object, index int) {
	set := h.subClasses[base]
	if set == nil {
		set = map[subKey]bool{}
		h.subClasses[base] = set
	}
	set[subKey{sub: sub, index: index}] = true
}

// Subclasses returns the recorded (subclass, base-position) pairs for base
// (Invariant CH-2).
func (h *Hierarchy) Subclasses(base object.Object) []SubclassInfo {
	set := h.subClasses[base]
	out := make([]SubclassInfo, 0, len(set))
	for k := range set {
		out = append(out, SubclassInfo{Class: k.sub, BaseIndex: k.index})
	}
	return out
}

// MROs returns the MROs currently derivable for c.
func (h *Hierarchy) MROs(c object.Object) []MRO {
	set := h.mros[c]
	out := make([]MRO, 0, len(set))
	for _, m := range set {
		out = append(out, m)
	}
	return out
}

func (h *Hierarchy) addMRO(c object.Object, m MRO) bool {
	set := h.mros[c]
	if set == nil {
		set = map[string]MRO{}
		h.mros[c] = set
	}
	k := m.key()
	if _, ok := set[k]; ok {
		return false
	}
	set[k] = m
	return true
}

// AddClass registers a newly allocated class-like object with the
// hierarchy (invoked once per class when allocated, §4.6). Returns the set
// of newly derived MROs.
func (h *Hierarchy) AddClass(c object.Object) []MRO {
	if _, seen := h.mros[c]; seen {
		return nil // OQ3: explicit guard, idempotent by P1 either way
	}
	bases, chain, ok := classLikeBases(c)
	if !ok {
		return nil
	}
	for i, baseVar := range bases {
		vp := h.pp.Var(baseVar, chain)
		for _, baseObj := range h.pt.Get(vp) {
			if baseObj == c {
				continue
			}
			if fake, isFake := baseObj.(*object.Fake); isFake {
				h.AddClass(fake)
			}
			h.addSubclass(baseObj, c, i)
		}
	}
	return h.addBaseMRO(c, -1, nil)
}

// AddClassBase is invoked incrementally when a new class-like object base
// flows into c's i-th base (§4.6). Returns the set of newly derived MROs.
func (h *Hierarchy) AddClassBase(c object.Object, index int, base object.Object) []MRO {
	if base == c {
		return nil
	}
	if fake, isFake := base.(*object.Fake); isFake {
		h.AddClass(fake)
	}
	h.addSubclass(base, c, index)
	return h.addBaseMRO(c, index, h.MROs(base))
}

// addBaseMRO enumerates every selection of candidate MROs across c's base
// positions (using newMros at position index, and the currently known MROs
// of whatever class-like objects flow into the other positions), runs C3
// merge on each, and recursively propagates genuinely new MROs to c's
// subclasses (§4.6).
func (h *Hierarchy) addBaseMRO(c object.Object, index int, newMros []MRO) []MRO {
	bases, chain, ok := classLikeBases(c)
	if !ok {
		return nil
	}

	var selections [][]MRO
	var walk func(start int, acc []MRO)
	walk = func(start int, acc []MRO) {
		if start == len(bases) {
			sel := append([]MRO(nil), acc...)
			selections = append(selections, sel)
			return
		}
		if start == index {
			for _, m := range newMros {
				walk(start+1, append(acc, m))
			}
			return
		}
		vp := h.pp.Var(bases[start], chain)
		for _, baseObj := range h.pt.Get(vp) {
			if _, _, isClassLike := classLikeBases(baseObj); !isClassLike {
				continue
			}
			for _, m := range h.MROs(baseObj) {
				walk(start+1, append(acc, m))
			}
		}
	}
	walk(0, nil)

	var added []MRO
	for _, sel := range selections {
		order := make(MRO, len(sel))
		for i, m := range sel {
			order[i] = m[0]
		}
		lists := make([]MRO, 0, len(sel)+1)
		lists = append(lists, sel...)
		lists = append(lists, order)

		res, legal := c3(c, lists)
		if !legal {
			continue
		}
		if h.addMRO(c, res) {
			added = append(added, res)
		}
	}

	if len(added) == 0 {
		return nil
	}

	all := append([]MRO(nil), added...)
	for _, si := range h.Subclasses(c) {
		all = append(all, h.addBaseMRO(si.Class, si.BaseIndex, added)...)
	}
	return all
}

// c3 implements the classical C3 linearization merge (§4.6.1). It returns
// (nil, false) when no legal linearization exists; the caller discards the
// attempt rather than raising an error (§7).
func c3(head object.Object, lists []MRO) (MRO, bool) {
	working := make([]MRO, 0, len(lists))
	for _, l := range lists {
		if l.contains(head) {
			return nil, false
		}
		if len(l) > 0 {
			working = append(working, append(MRO(nil), l...))
		}
	}

	var res MRO
	for len(working) > 0 {
		found := false
		for _, candidateList := range working {
			candidate := candidateList[0]
			good := true
			for _, other := range working {
				if len(other) > 1 && MRO(other[1:]).contains(candidate) {
					good = false
					break
				}
			}
			if !good {
				continue
			}
			res = append(res, candidate)
			var next []MRO
			for _, l := range working {
				if l[0] == candidate {
					l = l[1:]
				}
				if len(l) > 0 {
					next = append(next, l)
				}
			}
			working = next
			found = true
			break
		}
		if !found {
			return nil, false
		}
	}
	return append(MRO{head}, res...), true
}
