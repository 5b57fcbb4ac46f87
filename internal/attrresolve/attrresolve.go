// Package attrresolve implements the attribute resolver (L7, §4.7): turning
// a class or super object's lazily-resolved attribute name into flow edges
// from each ancestor along an MRO, up to the first that declares it as
// persistent,
// and re-resolving whenever a DelAttr removes that declaration (§4.12).
package attrresolve

import (
	"github.com/ptalias/ptalias/internal/hierarchy"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
)

// Resolver is either a *object.Class or a *object.Super: the two object
// kinds whose attribute accesses are resolved along an MRO (§4.7).
type Resolver = object.Object

// info is one outstanding resolution: the resolver that requested attr,
// the MRO it was resolved against, and the index it flows from.
type info struct {
	resolver Resolver
	mro      hierarchy.MRO
	index    int
}

// Resolve implements the persistent-attribute bookkeeping of §4.7/§4.12: it
// owns the per-(class, attr) set of outstanding resolutions needed to
// re-resolve correctly after a DelAttr, and the per-resolver set of attrs
// already resolved (so each (resolver, attr) pair is only seeded once,
// Invariant given in §4.7).
type Resolve struct {
	h   *hierarchy.Hierarchy
	pp  *ptr.Pool
	obj *object.Pool

	// persistAttr[class][attr] is the set of resolutions that currently
	// flow from class.attr; DelAttr on (class, attr) clears it and
	// re-resolves each one starting one step further down its MRO. MRO is
	// a slice and so not itself comparable, hence a slice here rather than
	// a set keyed on info.
	persistAttr map[*object.Class]map[string][]info

	// resolvedAttr[resolver] is the set of attr names already seeded for
	// resolver, so repeat GetAttr/DelAttr traffic is a no-op (§4.7).
	resolvedAttr map[Resolver]map[string]bool
}

// New creates a resolver that reads MROs from h.
func New(h *hierarchy.Hierarchy, pp *ptr.Pool, obj *object.Pool) *Resolve {
	return &Resolve{
		h:            h,
		pp:           pp,
		obj:          obj,
		persistAttr:  map[*object.Class]map[string][]info{},
		resolvedAttr: map[Resolver]map[string]bool{},
	}
}

// FlowEdge is one `parent.attr -> resolver.$r_attr` edge the caller must
// install in the pointer-flow graph and seed with parent.attr's current
// points-to set.
type FlowEdge struct {
	Parent Resolver
	Attr   string
	Target *ptr.AttrPtr
}

// DeclaresAttr reports whether c lexically declares attr as a
// persistent-attribute candidate (§4.1's seeding).
func DeclaresAttr(c *object.Class, attr string) bool { return c.Attributes()[attr] }

// resolveAttribute wires `resolver.$r_attr <- parent.attr` for every class
// in mro[start:] up to and including the first one that declares attr
// persistently, and records the resolution against that class so DelAttr
// can re-resolve it (§4.7).
func (r *Resolve) resolveAttribute(resolver Resolver, attr string, mro hierarchy.MRO, start int) []FlowEdge {
	var edges []FlowEdge
	target := r.pp.Attr(resolver, ptr.ResolvedName(attr))
	for i := start; i < len(mro); i++ {
		parent, ok := mro[i].(*object.Class)
		if !ok {
			continue
		}
		edges = append(edges, FlowEdge{Parent: parent, Attr: attr, Target: target})
		if !DeclaresAttr(parent, attr) {
			continue
		}
		set := r.persistAttr[parent]
		if set == nil {
			set = map[string][]info{}
			r.persistAttr[parent] = set
		}
		set[attr] = append(set[attr], info{resolver: resolver, mro: mro, index: i})
		break
	}
	return edges
}

// boundClassOf returns the class whose MROs should drive resolving attr on
// obj: obj itself if it is a Class, or obj's bound class if it is a Super.
func boundClassOf(obj Resolver) *object.Class {
	switch t := obj.(type) {
	case *object.Class:
		return t
	case *object.Super:
		return t.BoundClass()
	default:
		return nil
	}
}

// ResolveIfNeeded seeds resolution of attr on obj against every MRO
// currently known for its bound class, unless already seeded (§4.7). A
// Super starts its search one position past its own Type in the MRO, so
// `super().attr` skips the subclass that constructed it.
func (r *Resolve) ResolveIfNeeded(obj Resolver, attr string) []FlowEdge {
	seen := r.resolvedAttr[obj]
	if seen == nil {
		seen = map[string]bool{}
		r.resolvedAttr[obj] = seen
	}
	if seen[attr] {
		return nil
	}
	seen[attr] = true

	cls := boundClassOf(obj)
	if cls == nil {
		return nil
	}

	var edges []FlowEdge
	for _, mro := range r.h.MROs(cls) {
		start := 0
		if sup, ok := obj.(*object.Super); ok {
			for i, m := range mro {
				if m == sup.Type {
					start = i + 1
					break
				}
			}
		}
		edges = append(edges, r.resolveAttribute(obj, attr, mro, start)...)
	}
	return edges
}

// ReResolveOnMRO is invoked when a new MRO becomes available for class
// (e.g. after a base flows in, §4.2/NewClass handling): every attr already
// resolved on class must also flow along the fresh MRO.
func (r *Resolve) ReResolveOnMRO(class *object.Class, mro hierarchy.MRO) []FlowEdge {
	var edges []FlowEdge
	for attr := range r.resolvedAttr[class] {
		edges = append(edges, r.resolveAttribute(class, attr, mro, 0)...)
	}
	return edges
}

// DelAttr implements §4.12: attr is no longer persistent on class, so every
// outstanding resolution that currently flows from class.attr must
// re-resolve starting one position further down its own MRO.
func (r *Resolve) DelAttr(class *object.Class, attr string) []FlowEdge {
	infos := r.persistAttr[class][attr]
	if len(infos) == 0 {
		return nil
	}
	delete(r.persistAttr[class], attr)

	var edges []FlowEdge
	for _, in := range infos {
		edges = append(edges, r.resolveAttribute(in.resolver, attr, in.mro, in.index+1)...)
	}
	return edges
}
