package store

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/ptr"
)

func TestAddEdgeReportsFirstInsertionOnly(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	pp := ptr.NewPool()
	src := pp.Var(m.AddLocal("src"), ctx.Empty())
	tgt := pp.Var(m.AddLocal("tgt"), ctx.Empty())

	f := NewFlow()
	if !f.AddEdge(src, tgt) {
		t.Fatalf("first AddEdge must report true")
	}
	if f.AddEdge(src, tgt) {
		t.Fatalf("repeat AddEdge of the same edge must report false")
	}
}

func TestSuccessorsReturnsEveryDistinctTarget(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	pp := ptr.NewPool()
	src := pp.Var(m.AddLocal("src"), ctx.Empty())
	tgt1 := pp.Var(m.AddLocal("tgt1"), ctx.Empty())
	tgt2 := pp.Var(m.AddLocal("tgt2"), ctx.Empty())

	f := NewFlow()
	f.AddEdge(src, tgt1)
	f.AddEdge(src, tgt2)

	succ := f.Successors(src)
	if len(succ) != 2 {
		t.Fatalf("want 2 successors, got %d: %v", len(succ), succ)
	}

	other := pp.Var(m.AddLocal("other"), ctx.Empty())
	if got := f.Successors(other); got != nil {
		t.Fatalf("pointer with no outgoing edges must report nil successors, got %v", got)
	}
}
