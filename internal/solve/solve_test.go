package solve

import (
	"sort"
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
)

// intsAt returns the sorted int values of every Builtin object currently in
// PT(v under the empty chain); it panics (via t.Fatalf) on anything else,
// since these tests only ever push Builtin("int", n) values around.
func intsAt(t *testing.T, s *Solver, v *ir.Variable) []int {
	t.Helper()
	vp := s.Pointers.Var(v, ctx.Empty())
	var out []int
	for _, o := range s.Points.Get(vp) {
		b, ok := o.(*object.Builtin)
		if !ok {
			t.Fatalf("want only Builtin objects at %s, got %T: %v", v, o, o)
		}
		out = append(out, b.Site.Value.(int))
	}
	sort.Ints(out)
	return out
}

func TestSimpleFunctionCallReturnsArgument(t *testing.T) {
	m := ir.NewModuleBlock("m", false)

	fBlock := ir.NewFunctionBlock("f", m, "f", false)
	p := fBlock.AddPosParam("p")
	ir.NewAssign(fBlock, fBlock.ReturnVar, p)

	fVar := m.AddLocal("f")
	ir.NewNewFunction(m, fVar, fBlock)

	xVar := m.AddLocal("x")
	ir.NewNewBuiltin(m, xVar, "int", 7)

	rVar := m.AddLocal("r")
	ir.NewCall(m, rVar, fVar, []*ir.Variable{xVar}, nil)

	s := New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := intsAt(t, s, rVar); len(got) != 1 || got[0] != 7 {
		t.Fatalf("want the call result to carry the argument's value [7], got %v", got)
	}
}

func TestMethodCallOnInstanceReturnsConstructorArgument(t *testing.T) {
	// class C:
	//     def __init__(self, v): self.v = v
	//     def getV(self): return self.v
	// inst = C(42)
	// result = inst.getV()
	m := ir.NewModuleBlock("m", false)
	cb := ir.NewClassBlock("C", m, "C", false)

	initBlock := ir.NewFunctionBlock("__init__", cb, "init", false)
	selfParam := initBlock.AddPosParam("self")
	vParam := initBlock.AddPosParam("v")
	ir.NewSetAttr(initBlock, selfParam, "v", vParam)
	initVar := cb.AddLocal("__init__")
	ir.NewNewFunction(cb, initVar, initBlock)
	ir.NewSetAttr(cb, cb.ThisClass, "__init__", initVar)

	getVBlock := ir.NewFunctionBlock("getV", cb, "getV", false)
	selfParam2 := getVBlock.AddPosParam("self")
	tmp := getVBlock.AddLocal("t")
	ir.NewGetAttr(getVBlock, tmp, selfParam2, "v")
	ir.NewAssign(getVBlock, getVBlock.ReturnVar, tmp)
	getVVar := cb.AddLocal("getV")
	ir.NewNewFunction(cb, getVVar, getVBlock)
	ir.NewSetAttr(cb, cb.ThisClass, "getV", getVVar)

	classVar := m.AddLocal("C")
	ir.NewNewClass(m, classVar, cb, nil)

	xVar := m.AddLocal("x")
	ir.NewNewBuiltin(m, xVar, "int", 42)

	instVar := m.AddLocal("inst")
	ir.NewCall(m, instVar, classVar, []*ir.Variable{xVar}, nil)

	methodVar := m.AddLocal("method")
	ir.NewGetAttr(m, methodVar, instVar, "getV")

	resultVar := m.AddLocal("result")
	ir.NewCall(m, resultVar, methodVar, nil, nil)

	// Context-sensitive mode allocates a real *object.Instance distinct
	// from the class (see DESIGN.md, OQ1), so this also exercises that
	// self.v set in __init__ and self.v read in getV land on the same
	// per-instance attribute slot rather than the class's own.
	s := New(ctx.Selector{K: 1}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := intsAt(t, s, resultVar); len(got) != 1 || got[0] != 42 {
		t.Fatalf("want the bound method call to return the constructor argument [42], got %v", got)
	}
}

func TestBoundMethodCallUnderContextInsensitiveMode(t *testing.T) {
	// class C:
	//     def m(self, x): return x
	// c = C()
	// r = c.m(42)
	//
	// Under K=0, self collapses to the class object itself (OQ1), so this
	// exercises transformClass's Function -> ClassMethod(cls, f) case: the
	// only place ordinary bound-method self-binding happens in
	// context-insensitive mode.
	m := ir.NewModuleBlock("m", false)
	cb := ir.NewClassBlock("C", m, "C", false)

	mBlock := ir.NewFunctionBlock("m", cb, "m", false)
	mBlock.AddPosParam("self")
	xParam := mBlock.AddPosParam("x")
	ir.NewAssign(mBlock, mBlock.ReturnVar, xParam)
	mVar := cb.AddLocal("m")
	ir.NewNewFunction(cb, mVar, mBlock)
	ir.NewSetAttr(cb, cb.ThisClass, "m", mVar)

	classVar := m.AddLocal("C")
	ir.NewNewClass(m, classVar, cb, nil)

	cVar := m.AddLocal("c")
	ir.NewCall(m, cVar, classVar, nil, nil)

	xVar := m.AddLocal("x")
	ir.NewNewBuiltin(m, xVar, "int", 42)

	methodVar := m.AddLocal("method")
	ir.NewGetAttr(m, methodVar, cVar, "m")

	rVar := m.AddLocal("r")
	ir.NewCall(m, rVar, methodVar, []*ir.Variable{xVar}, nil)

	s := New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := intsAt(t, s, rVar); len(got) != 1 || got[0] != 42 {
		t.Fatalf("want c.m(42) to bind self and return x=[42] even under context-insensitive mode, got %v", got)
	}
}

func TestAttributeAccessResolvesToOverridingSubclass(t *testing.T) {
	// class A: x = 1
	// class B(A): x = 2
	// bx = B.x
	m := ir.NewModuleBlock("m", false)

	cbA := ir.NewClassBlock("A", m, "A", false)
	valA := ir.NewTemp(cbA)
	ir.NewNewBuiltin(cbA, valA, "int", 1)
	ir.NewSetAttr(cbA, cbA.ThisClass, "x", valA)
	cbA.DeclareAttribute("x")
	aVar := m.AddLocal("A")
	ir.NewNewClass(m, aVar, cbA, nil)

	cbB := ir.NewClassBlock("B", m, "B", false)
	valB := ir.NewTemp(cbB)
	ir.NewNewBuiltin(cbB, valB, "int", 2)
	ir.NewSetAttr(cbB, cbB.ThisClass, "x", valB)
	cbB.DeclareAttribute("x")
	bVar := m.AddLocal("B")
	ir.NewNewClass(m, bVar, cbB, []*ir.Variable{aVar})

	bxVar := m.AddLocal("bx")
	ir.NewGetAttr(m, bxVar, bVar, "x")

	s := New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := intsAt(t, s, bxVar); len(got) != 1 || got[0] != 2 {
		t.Fatalf("want B.x to resolve to B's own override [2], not A's, got %v", got)
	}
}

func TestDelAttrReResolvesSharedAttributeSlotToAncestor(t *testing.T) {
	// class A: x = 1
	// class B(A): x = 2
	// bx = B.x          (forces B.x's resolution to seed)
	// del B.x
	//
	// The resolver never retracts already-flowed values (points-to only
	// grows), so after the delete B's own $r_x resolved-attribute slot
	// must also carry A's value once re-resolution lands there.
	m := ir.NewModuleBlock("m", false)

	cbA := ir.NewClassBlock("A", m, "A", false)
	valA := ir.NewTemp(cbA)
	ir.NewNewBuiltin(cbA, valA, "int", 1)
	ir.NewSetAttr(cbA, cbA.ThisClass, "x", valA)
	cbA.DeclareAttribute("x")
	aVar := m.AddLocal("A")
	ir.NewNewClass(m, aVar, cbA, nil)

	cbB := ir.NewClassBlock("B", m, "B", false)
	valB := ir.NewTemp(cbB)
	ir.NewNewBuiltin(cbB, valB, "int", 2)
	ir.NewSetAttr(cbB, cbB.ThisClass, "x", valB)
	cbB.DeclareAttribute("x")
	bVar := m.AddLocal("B")
	ir.NewNewClass(m, bVar, cbB, []*ir.Variable{aVar})

	bxVar := m.AddLocal("bx")
	ir.NewGetAttr(m, bxVar, bVar, "x")
	ir.NewDelAttr(m, bVar, "x")

	s := New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	classB := s.Objects.Class(findNewClass(t, m, "B"), ctx.Empty())
	rx := s.Pointers.Attr(classB, ptr.ResolvedName("x"))
	var got []int
	for _, o := range s.Points.Get(rx) {
		got = append(got, o.(*object.Builtin).Site.Value.(int))
	}
	sort.Ints(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("want B's resolved-x slot to carry both [1 2] after DelAttr re-resolves past B, got %v", got)
	}
}

func TestBaseDiscoveredThroughFunctionReturnStillLinearizes(t *testing.T) {
	// class A: pass
	// def identity(v): return v
	// baseHolder = identity(A)       (A discovered as D's base only once
	//                                  the call resolves, not directly)
	// class D(baseHolder): pass
	// mro asserted via the class D object's single MRO being [D, A].
	m := ir.NewModuleBlock("m", false)

	cbA := ir.NewClassBlock("A", m, "A", false)
	aVar := m.AddLocal("A")
	ir.NewNewClass(m, aVar, cbA, nil)

	idBlock := ir.NewFunctionBlock("identity", m, "identity", false)
	vParam := idBlock.AddPosParam("v")
	ir.NewAssign(idBlock, idBlock.ReturnVar, vParam)
	idVar := m.AddLocal("identity")
	ir.NewNewFunction(m, idVar, idBlock)

	baseHolder := m.AddLocal("baseHolder")
	ir.NewCall(m, baseHolder, idVar, []*ir.Variable{aVar}, nil)

	cbD := ir.NewClassBlock("D", m, "D", false)
	dVar := m.AddLocal("D")
	ir.NewNewClass(m, dVar, cbD, []*ir.Variable{baseHolder})

	s := New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	classD := s.Objects.Class(findNewClass(t, m, "D"), ctx.Empty())
	mros := s.Hier.MROs(classD)
	if len(mros) != 1 {
		t.Fatalf("want exactly one MRO for D once its only base resolves, got %d: %v", len(mros), mros)
	}
	if len(mros[0]) != 2 || mros[0][0] != object.Object(classD) {
		t.Fatalf("want D's MRO to start with D itself, got %v", mros[0])
	}
}

func TestKeywordArgumentFlowsToMatchingParam(t *testing.T) {
	// def f(v=None): return v
	// r = f(v=9)
	m := ir.NewModuleBlock("m", false)

	fBlock := ir.NewFunctionBlock("f", m, "f", false)
	fBlock.AddKwParam("v")
	ir.NewAssign(fBlock, fBlock.ReturnVar, fBlock.KwParams["v"])
	fVar := m.AddLocal("f")
	ir.NewNewFunction(m, fVar, fBlock)

	xVar := m.AddLocal("x")
	ir.NewNewBuiltin(m, xVar, "int", 9)

	rVar := m.AddLocal("r")
	ir.NewCall(m, rVar, fVar, nil, map[string]*ir.Variable{"v": xVar})

	s := New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := intsAt(t, s, rVar); len(got) != 1 || got[0] != 9 {
		t.Fatalf("want the keyword argument's value [9] to flow through to the return, got %v", got)
	}
}

func TestSuperSkipsOverridingSubclassAttribute(t *testing.T) {
	// class A: label = 1
	// class B(A):
	//     label = 2
	//     def parentLabel(self):
	//         s = super(B, self)
	//         return s.label
	// inst = B()
	// result = inst.parentLabel()
	m := ir.NewModuleBlock("m", false)

	cbA := ir.NewClassBlock("A", m, "A", false)
	valA := ir.NewTemp(cbA)
	ir.NewNewBuiltin(cbA, valA, "int", 1)
	ir.NewSetAttr(cbA, cbA.ThisClass, "label", valA)
	cbA.DeclareAttribute("label")
	aVar := m.AddLocal("A")
	ir.NewNewClass(m, aVar, cbA, nil)

	cbB := ir.NewClassBlock("B", m, "B", false)
	valB := ir.NewTemp(cbB)
	ir.NewNewBuiltin(cbB, valB, "int", 2)
	ir.NewSetAttr(cbB, cbB.ThisClass, "label", valB)
	cbB.DeclareAttribute("label")

	parentLabelBlock := ir.NewFunctionBlock("parentLabel", cbB, "parentLabel", false)
	selfParam := parentLabelBlock.AddPosParam("self")
	supVar := parentLabelBlock.AddLocal("sup")
	ir.NewNewSuper(parentLabelBlock, supVar, cbB.ThisClass, selfParam)
	tmp := parentLabelBlock.AddLocal("t")
	ir.NewGetAttr(parentLabelBlock, tmp, supVar, "label")
	ir.NewAssign(parentLabelBlock, parentLabelBlock.ReturnVar, tmp)
	parentLabelVar := cbB.AddLocal("parentLabel")
	ir.NewNewFunction(cbB, parentLabelVar, parentLabelBlock)
	ir.NewSetAttr(cbB, cbB.ThisClass, "parentLabel", parentLabelVar)

	bVar := m.AddLocal("B")
	ir.NewNewClass(m, bVar, cbB, []*ir.Variable{aVar})

	instVar := m.AddLocal("inst")
	ir.NewCall(m, instVar, bVar, nil, nil)

	methodVar := m.AddLocal("method")
	ir.NewGetAttr(m, methodVar, instVar, "parentLabel")

	resultVar := m.AddLocal("result")
	ir.NewCall(m, resultVar, methodVar, nil, nil)

	s := New(ctx.Selector{K: 1}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := intsAt(t, s, resultVar); len(got) != 1 || got[0] != 1 {
		t.Fatalf("want super().label to reach past B's own override to A's [1], got %v", got)
	}
}

// findNewClass locates the NewClass statement that allocates the class
// named readableNameSuffix inside m, so tests can recover the same
// object.Class the solver interned for it.
func findNewClass(t *testing.T, m *ir.ModuleBlock, name string) *ir.NewClass {
	t.Helper()
	for _, st := range m.Stmts() {
		if nc, ok := st.(*ir.NewClass); ok && nc.Block.ReadableName() == m.ReadableName()+"."+name {
			return nc
		}
	}
	t.Fatalf("no NewClass found for %q", name)
	return nil
}

func TestSuperRejectsNonClassOrInstanceBound(t *testing.T) {
	// class A: label = 1
	// class B(A): label = 2
	// bogus = 7
	// s = super(B, bogus)
	// result = s.label
	m := ir.NewModuleBlock("m", false)

	cbA := ir.NewClassBlock("A", m, "A", false)
	valA := ir.NewTemp(cbA)
	ir.NewNewBuiltin(cbA, valA, "int", 1)
	ir.NewSetAttr(cbA, cbA.ThisClass, "label", valA)
	cbA.DeclareAttribute("label")
	aVar := m.AddLocal("A")
	ir.NewNewClass(m, aVar, cbA, nil)

	cbB := ir.NewClassBlock("B", m, "B", false)
	valB := ir.NewTemp(cbB)
	ir.NewNewBuiltin(cbB, valB, "int", 2)
	ir.NewSetAttr(cbB, cbB.ThisClass, "label", valB)
	cbB.DeclareAttribute("label")
	bVar := m.AddLocal("B")
	ir.NewNewClass(m, bVar, cbB, []*ir.Variable{aVar})

	bogusVar := m.AddLocal("bogus")
	ir.NewNewBuiltin(m, bogusVar, "int", 7)

	supVar := m.AddLocal("s")
	ir.NewNewSuper(m, supVar, bVar, bogusVar)

	resultVar := m.AddLocal("result")
	ir.NewGetAttr(m, resultVar, supVar, "label")

	s := New(ctx.Selector{K: 1}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := s.Points.Get(s.Pointers.Var(supVar, ctx.Empty())); len(got) != 0 {
		t.Fatalf("want a Builtin Bound to be rejected and no Super object formed, got %v", got)
	}
}
