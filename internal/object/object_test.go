package object

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
)

func TestPoolInternsBySite(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	cb := ir.NewClassBlock("C", m, "C", false)
	target := m.AddLocal("t")
	site := ir.NewNewClass(m, target, cb, nil)

	p := NewPool()
	c1 := p.Class(site, ctx.Empty())
	c2 := p.Class(site, ctx.Empty())
	if c1 != c2 {
		t.Fatalf("same site + chain must intern to the same object")
	}

	site2 := ir.NewNewClass(m, m.AddLocal("t2"), cb, nil)
	c3 := p.Class(site2, ctx.Empty())
	if c1 == c3 {
		t.Fatalf("different allocation sites must not collapse to one object")
	}
}

func TestFakeDerivationIsDeterministic(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	src := m.AddLocal("src")
	tgt := m.AddLocal("tgt")

	p := NewPool()
	root := p.RootFake("os")
	d1 := p.DeriveFake(root, src, tgt, ctx.Empty(), ctx.Empty(), "path")
	d2 := p.DeriveFake(root, src, tgt, ctx.Empty(), ctx.Empty(), "path")
	if d1 != d2 {
		t.Fatalf("identical (prefix, src, tgt, attr) derivations must intern to the same Fake")
	}

	d3 := p.DeriveFake(root, src, tgt, ctx.Empty(), ctx.Empty(), "sep")
	if d1 == d3 {
		t.Fatalf("different attrs must derive different Fakes")
	}
}

func TestSuperBoundClass(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	cb := ir.NewClassBlock("C", m, "C", false)
	site := ir.NewNewClass(m, m.AddLocal("t"), cb, nil)

	p := NewPool()
	cls := p.Class(site, ctx.Empty())
	callSite := ir.NewCall(m, m.AddLocal("r"), m.AddLocal("callee"), nil, nil)
	inst := p.Instance(callSite, ctx.Empty(), cls)

	su := p.Super(cls, inst)
	if su.BoundClass() != cls {
		t.Fatalf("Super bound to an Instance must resolve BoundClass to its Type")
	}
}
