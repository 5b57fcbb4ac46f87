package binding

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/ptr"
)

func TestBindingsAreKeyedPerPointerAndAppendOnly(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	pp := ptr.NewPool()
	p1 := pp.Var(m.AddLocal("v1"), ctx.Empty())
	p2 := pp.Var(m.AddLocal("v2"), ctx.Empty())

	idx := NewIndex()
	call := ir.NewCall(m, m.AddLocal("r"), m.AddLocal("callee"), nil, nil)
	b1 := CallBinding{Stmt: call, Chain: ctx.Empty()}
	idx.BindCall(p1, b1)
	if got := idx.CallBindings(p1); len(got) != 1 || got[0].Stmt != b1.Stmt || got[0].Chain.Key() != b1.Chain.Key() {
		t.Fatalf("want exactly the one bound CallBinding on p1, got %v", got)
	}
	if got := idx.CallBindings(p2); got != nil {
		t.Fatalf("an unbound pointer must report no bindings, got %v", got)
	}

	b2 := CallBinding{Stmt: call, Chain: ctx.Empty()}
	idx.BindCall(p1, b2)
	if got := idx.CallBindings(p1); len(got) != 2 {
		t.Fatalf("binding a second time must append, not replace, got %v", got)
	}
}

func TestDiscriminatedBindingKindsDoNotCollide(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	pp := ptr.NewPool()
	p := pp.Var(m.AddLocal("v"), ctx.Empty())

	idx := NewIndex()
	sup := ir.NewNewSuper(m, m.AddLocal("su"), m.AddLocal("typ"), m.AddLocal("bound"))
	idx.BindNewSuper(p, SuperBinding{Stmt: sup, Chain: ctx.Empty(), Discriminator: SuperType})
	idx.BindNewSuper(p, SuperBinding{Stmt: sup, Chain: ctx.Empty(), Discriminator: SuperBound})

	got := idx.NewSuperBindings(p)
	if len(got) != 2 {
		t.Fatalf("want both discriminated bindings recorded against the same pointer, got %v", got)
	}
	if got[0].Discriminator == got[1].Discriminator {
		t.Fatalf("want distinct discriminators preserved, got %v and %v", got[0].Discriminator, got[1].Discriminator)
	}
}

func TestAttrGraphSeparatesGetsAndSets(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	pp := ptr.NewPool()
	source := pp.Var(m.AddLocal("src"), ctx.Empty())
	target := pp.Var(m.AddLocal("tgt"), ctx.Empty())

	g := NewAttrGraph()
	g.PutGet(source, target, "x")
	g.PutSet(target, source, "y")

	gets := g.GetTargets(source)
	if len(gets) != 1 || gets[0].Target != target || gets[0].Attr != "x" {
		t.Fatalf("want one GetTarget(target, x) on source, got %v", gets)
	}
	if got := g.GetTargets(target); got != nil {
		t.Fatalf("gets and sets must not cross-pollute: target has no recorded GetAttr, got %v", got)
	}

	sets := g.SetSources(target)
	if len(sets) != 1 || sets[0].Source != source || sets[0].Attr != "y" {
		t.Fatalf("want one SetSource(source, y) on target, got %v", sets)
	}
}
