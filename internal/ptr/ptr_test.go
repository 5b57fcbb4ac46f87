package ptr

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
)

func TestVarInternsByVariableAndTruncatedChain(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	f := ir.NewFunctionBlock("f", m, "f", false)
	v := f.AddLocal("x")

	p := NewPool()
	chain := ctx.Chain{{}, {}}
	p1 := p.Var(v, chain)
	p2 := p.Var(v, chain)
	if p1 != p2 {
		t.Fatalf("same variable + chain must intern to the same VarPtr")
	}

	// A deeper chain truncated to v's own scope level collapses to the same
	// pointer (§6.5: VarPtrs are keyed by ctx[:scopeLevel]).
	longer := ctx.Chain{{}, {}, {{}}}
	p3 := p.Var(v, longer)
	if p1 != p3 {
		t.Fatalf("chains agreeing on the variable's own scope level prefix must intern together")
	}
}

func TestVarDistinguishesDifferentVariables(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	f := ir.NewFunctionBlock("f", m, "f", false)
	v1 := f.AddLocal("x")
	v2 := f.AddLocal("y")

	p := NewPool()
	if p.Var(v1, ctx.Empty()) == p.Var(v2, ctx.Empty()) {
		t.Fatalf("distinct variables must never intern to the same VarPtr")
	}
}

func TestAttrInternsByObjectAndName(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	op := object.NewPool()
	obj1 := op.Module(m)
	obj2 := op.RootFake("os")

	p := NewPool()
	a1 := p.Attr(obj1, "x")
	a2 := p.Attr(obj1, "x")
	if a1 != a2 {
		t.Fatalf("same (object, attr) must intern to the same AttrPtr")
	}

	a3 := p.Attr(obj2, "x")
	if a1 == a3 {
		t.Fatalf("different objects must never share an AttrPtr")
	}

	a4 := p.Attr(obj1, "y")
	if a1 == a4 {
		t.Fatalf("different attr names on the same object must never share an AttrPtr")
	}
}

func TestResolvedNameRoundTrips(t *testing.T) {
	if got := ResolvedName("x"); !Resolved(got) {
		t.Fatalf("ResolvedName output must satisfy Resolved, got %q", got)
	}
	if Resolved("x") {
		t.Fatalf("a plain attribute name must not look resolved")
	}
}
