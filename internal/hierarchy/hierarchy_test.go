package hierarchy

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
	"github.com/ptalias/ptalias/internal/store"
)

// fixture builds four class-like objects A, B(A), C(A), D(B, C) (the
// canonical C3 diamond) and wires their base variables' points-to sets so
// Hierarchy sees them without a solver driving events.
type fixture struct {
	pt  *store.PointsTo
	pp  *ptr.Pool
	obj *object.Pool
	h   *Hierarchy

	a, b, c, d *object.Class
}

func newDiamond(t *testing.T) *fixture {
	t.Helper()
	m := ir.NewModuleBlock("m", false)
	pt := store.NewPointsTo()
	pp := ptr.NewPool()
	obj := object.NewPool()
	h := New(pt, pp, obj)

	mkClass := func(name string, bases []*ir.Variable) *object.Class {
		cb := ir.NewClassBlock(name, m, name, false)
		target := m.AddLocal(name)
		site := ir.NewNewClass(m, target, cb, bases)
		return obj.Class(site, ctx.Empty())
	}

	a := mkClass("A", nil)

	baseOfB := m.AddLocal("A_ref_in_B")
	b := mkClass("B", []*ir.Variable{baseOfB})
	pt.PutAll(pp.Var(baseOfB, ctx.Empty()), []object.Object{a})

	baseOfC := m.AddLocal("A_ref_in_C")
	c := mkClass("C", []*ir.Variable{baseOfC})
	pt.PutAll(pp.Var(baseOfC, ctx.Empty()), []object.Object{a})

	baseOfD1 := m.AddLocal("B_ref_in_D")
	baseOfD2 := m.AddLocal("C_ref_in_D")
	d := mkClass("D", []*ir.Variable{baseOfD1, baseOfD2})
	pt.PutAll(pp.Var(baseOfD1, ctx.Empty()), []object.Object{b})
	pt.PutAll(pp.Var(baseOfD2, ctx.Empty()), []object.Object{c})

	return &fixture{pt: pt, pp: pp, obj: obj, h: h, a: a, b: b, c: c, d: d}
}

func mroEquals(m MRO, want ...object.Object) bool {
	if len(m) != len(want) {
		return false
	}
	for i := range m {
		if m[i] != want[i] {
			return false
		}
	}
	return true
}

func TestDiamondC3Order(t *testing.T) {
	f := newDiamond(t)
	f.h.AddClass(f.a)
	f.h.AddClass(f.b)
	f.h.AddClass(f.c)
	f.h.AddClass(f.d)

	mros := f.h.MROs(f.d)
	if len(mros) != 1 {
		t.Fatalf("want exactly one MRO for D, got %d: %v", len(mros), mros)
	}
	if !mroEquals(mros[0], f.d, f.b, f.c, f.a) {
		t.Fatalf("want D,B,C,A, got %v", mros[0])
	}
}

func TestSubclassPropagationOnLateBase(t *testing.T) {
	// Build A, B(A), C(A) exactly as the diamond fixture does, but D's own
	// base variables are still empty in pt when D is registered, so its MRO
	// can only be derived by filling them one base at a time, each followed
	// by AddClassBase, mirroring how the solver adds an object to a base's
	// points-to set and then processes the NewClass binding.
	m := ir.NewModuleBlock("m", false)
	pt := store.NewPointsTo()
	pp := ptr.NewPool()
	obj := object.NewPool()
	h := New(pt, pp, obj)

	mkClass := func(name string, bases []*ir.Variable) *object.Class {
		cb := ir.NewClassBlock(name, m, name, false)
		target := m.AddLocal(name)
		site := ir.NewNewClass(m, target, cb, bases)
		return obj.Class(site, ctx.Empty())
	}

	a := mkClass("A", nil)
	baseOfB := m.AddLocal("A_ref_in_B")
	b := mkClass("B", []*ir.Variable{baseOfB})
	pt.PutAll(pp.Var(baseOfB, ctx.Empty()), []object.Object{a})
	baseOfC := m.AddLocal("A_ref_in_C")
	c := mkClass("C", []*ir.Variable{baseOfC})
	pt.PutAll(pp.Var(baseOfC, ctx.Empty()), []object.Object{a})

	h.AddClass(a)
	h.AddClass(b)
	h.AddClass(c)

	baseOfD1 := m.AddLocal("B_ref_in_D")
	baseOfD2 := m.AddLocal("C_ref_in_D")
	d := mkClass("D", []*ir.Variable{baseOfD1, baseOfD2})
	h.AddClass(d) // no bases in pt yet: yields no MRO

	// Simulate incremental discovery: D's own bases flow in one at a time
	// after D is already registered, via AddClassBase (as the solver would
	// call it from a BIND_STMT/ADD_POINTS_TO event).
	pt.PutAll(pp.Var(baseOfD1, ctx.Empty()), []object.Object{b})
	added1 := h.AddClassBase(d, 0, b)
	if len(added1) != 0 {
		t.Fatalf("D's MRO cannot be derived with only one base known, got %v", added1)
	}
	pt.PutAll(pp.Var(baseOfD2, ctx.Empty()), []object.Object{c})
	added2 := h.AddClassBase(d, 1, c)
	if len(added2) != 1 {
		t.Fatalf("want exactly one newly derived MRO once both bases are known, got %d", len(added2))
	}
	if !mroEquals(added2[0], d, b, c, a) {
		t.Fatalf("want D,B,C,A, got %v", added2[0])
	}
}

func TestIllegalLinearizationIsDropped(t *testing.T) {
	// The classic illegal case: A; B(A); X(A, B). X's own base order wants
	// A before B, but B's MRO is [B, A], which requires A after B - no
	// linearization can satisfy both, matching CPython's own canonical
	// "Cannot create a consistent MRO" example.
	m := ir.NewModuleBlock("m", false)
	pt := store.NewPointsTo()
	pp := ptr.NewPool()
	obj := object.NewPool()
	h := New(pt, pp, obj)

	mk := func(name string, bases []*ir.Variable) *object.Class {
		cb := ir.NewClassBlock(name, m, name, false)
		target := m.AddLocal(name)
		site := ir.NewNewClass(m, target, cb, bases)
		return obj.Class(site, ctx.Empty())
	}

	a := mk("A", nil)
	bBaseVar := m.AddLocal("bBase")
	b := mk("B", []*ir.Variable{bBaseVar})
	pt.PutAll(pp.Var(bBaseVar, ctx.Empty()), []object.Object{a})
	h.AddClass(a)
	h.AddClass(b)

	xBaseVar1 := m.AddLocal("xBase1")
	xBaseVar2 := m.AddLocal("xBase2")
	x := mk("X", []*ir.Variable{xBaseVar1, xBaseVar2})
	pt.PutAll(pp.Var(xBaseVar1, ctx.Empty()), []object.Object{a})
	pt.PutAll(pp.Var(xBaseVar2, ctx.Empty()), []object.Object{b})
	h.AddClass(x)

	if mros := h.MROs(x); len(mros) != 0 {
		t.Fatalf("inconsistent base precedence must yield no legal MRO, got %v", mros)
	}
}
