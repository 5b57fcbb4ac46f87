package attrresolve

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/hierarchy"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
	"github.com/ptalias/ptalias/internal/store"
)

// fixture wires a Hierarchy, Pool and Resolve over a shared pt/pp/obj, and
// provides a mkClass helper that both allocates a Class and registers it
// with the hierarchy, mirroring how the solver drives NewClass handling.
type fixture struct {
	pt  *store.PointsTo
	pp  *ptr.Pool
	obj *object.Pool
	h   *hierarchy.Hierarchy
	r   *Resolve
	m   *ir.ModuleBlock
}

func newFixture() *fixture {
	m := ir.NewModuleBlock("m", false)
	pt := store.NewPointsTo()
	pp := ptr.NewPool()
	obj := object.NewPool()
	h := hierarchy.New(pt, pp, obj)
	return &fixture{pt: pt, pp: pp, obj: obj, h: h, r: New(h, pp, obj), m: m}
}

func (f *fixture) mkClass(name string, bases []*ir.Variable) *object.Class {
	cb := ir.NewClassBlock(name, f.m, name, false)
	target := f.m.AddLocal(name)
	site := ir.NewNewClass(f.m, target, cb, bases)
	c := f.obj.Class(site, ctx.Empty())
	f.h.AddClass(c)
	return c
}

// declare marks attr as a persistent-attribute candidate on c, as the
// solver would on seeing a SetAttr/assignment in the class body.
func declare(c *object.Class, attr string) {
	c.Block().DeclareAttribute(attr)
}

func findEdge(edges []FlowEdge, parent object.Object, attr string) (FlowEdge, bool) {
	for _, e := range edges {
		if e.Parent == parent && e.Attr == attr {
			return e, true
		}
	}
	return FlowEdge{}, false
}

func TestResolveFindsNearestDeclaringAncestor(t *testing.T) {
	f := newFixture()
	a := f.mkClass("A", nil)
	declare(a, "x")

	baseVar := f.m.AddLocal("A_ref_in_B")
	b := f.mkClass("B", []*ir.Variable{baseVar})
	f.pt.PutAll(f.pp.Var(baseVar, ctx.Empty()), []object.Object{a})
	f.h.AddClassBase(b, 0, a)

	edges := f.r.ResolveIfNeeded(b, "x")
	if _, ok := findEdge(edges, a, "x"); !ok {
		t.Fatalf("want a flow edge from A.x, got %v", edges)
	}
}

func TestResolveSkipsOverriddenAncestor(t *testing.T) {
	// A declares x; B(A) also declares x - resolving B.x must stop at B,
	// never reach past it to A, since B's own declaration shadows A's.
	f := newFixture()
	a := f.mkClass("A", nil)
	declare(a, "x")

	baseVar := f.m.AddLocal("A_ref_in_B")
	b := f.mkClass("B", []*ir.Variable{baseVar})
	declare(b, "x")
	f.pt.PutAll(f.pp.Var(baseVar, ctx.Empty()), []object.Object{a})
	f.h.AddClassBase(b, 0, a)

	edges := f.r.ResolveIfNeeded(b, "x")
	if _, ok := findEdge(edges, b, "x"); !ok {
		t.Fatalf("want a flow edge from B.x, got %v", edges)
	}
	if _, ok := findEdge(edges, a, "x"); ok {
		t.Fatalf("must not also flow from A.x once B shadows it, got %v", edges)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	f := newFixture()
	a := f.mkClass("A", nil)
	declare(a, "x")

	if edges := f.r.ResolveIfNeeded(a, "x"); len(edges) == 0 {
		t.Fatalf("first resolution must produce an edge")
	}
	if edges := f.r.ResolveIfNeeded(a, "x"); edges != nil {
		t.Fatalf("repeat resolution of the same (resolver, attr) must be a no-op, got %v", edges)
	}
}

func TestDelAttrReResolvesOneStepFurther(t *testing.T) {
	// A declares x; B(A) also declares x. Resolving B.x flows from B. Once
	// B's own x is deleted, the same resolution must re-seed one position
	// further down B's MRO, landing on A.x.
	f := newFixture()
	a := f.mkClass("A", nil)
	declare(a, "x")

	baseVar := f.m.AddLocal("A_ref_in_B")
	b := f.mkClass("B", []*ir.Variable{baseVar})
	declare(b, "x")
	f.pt.PutAll(f.pp.Var(baseVar, ctx.Empty()), []object.Object{a})
	f.h.AddClassBase(b, 0, a)

	edges := f.r.ResolveIfNeeded(b, "x")
	if _, ok := findEdge(edges, b, "x"); !ok {
		t.Fatalf("want an initial flow edge from B.x, got %v", edges)
	}

	b.Block().Attributes["x"] = false
	reEdges := f.r.DelAttr(b, "x")
	if _, ok := findEdge(reEdges, a, "x"); !ok {
		t.Fatalf("want re-resolution to land on A.x after B.x is deleted, got %v", reEdges)
	}
	if _, ok := findEdge(reEdges, b, "x"); ok {
		t.Fatalf("re-resolution must not flow from B.x again, got %v", reEdges)
	}
}

func TestDelAttrWithNoOutstandingResolutionIsNoop(t *testing.T) {
	f := newFixture()
	a := f.mkClass("A", nil)
	if edges := f.r.DelAttr(a, "never-resolved"); edges != nil {
		t.Fatalf("DelAttr on an attr nobody resolved must return nil, got %v", edges)
	}
}

func TestSuperSkipsOwnType(t *testing.T) {
	// A declares x; B(A) does not. super() constructed with Type=B and
	// Bound=B must search the MRO starting just past B, landing on A.x -
	// it must never resolve to B's own (nonexistent) x.
	f := newFixture()
	a := f.mkClass("A", nil)
	declare(a, "x")

	baseVar := f.m.AddLocal("A_ref_in_B")
	b := f.mkClass("B", []*ir.Variable{baseVar})
	f.pt.PutAll(f.pp.Var(baseVar, ctx.Empty()), []object.Object{a})
	f.h.AddClassBase(b, 0, a)

	su := f.obj.Super(b, b)
	edges := f.r.ResolveIfNeeded(su, "x")
	if _, ok := findEdge(edges, a, "x"); !ok {
		t.Fatalf("want super() to resolve x to A, got %v", edges)
	}
	if _, ok := findEdge(edges, b, "x"); ok {
		t.Fatalf("super() must skip its own Type when searching, got %v", edges)
	}
}

func TestReResolveOnMROPropagatesToFreshMRO(t *testing.T) {
	// x is already resolved against A's only known MRO. A fresh MRO
	// (as if a new base combination became legal later) must also get an
	// edge without a fresh GetAttr.
	f := newFixture()
	a := f.mkClass("A", nil)
	declare(a, "x")
	f.r.ResolveIfNeeded(a, "x")

	freshMRO := hierarchy.MRO{a}
	edges := f.r.ReResolveOnMRO(a, freshMRO)
	if _, ok := findEdge(edges, a, "x"); !ok {
		t.Fatalf("want ReResolveOnMRO to also flow from A.x along the new MRO, got %v", edges)
	}
}
