package store

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
)

func names(objs []object.Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.String()
	}
	sort.Strings(out)
	return out
}

func TestPutAllReturnsOnlyTheNewDelta(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	op := object.NewPool()
	a := op.Module(m)
	b := op.RootFake("os")

	pp := ptr.NewPool()
	v := m.AddLocal("v")
	p := pp.Var(v, ctx.Empty())

	s := NewPointsTo()
	delta1 := s.PutAll(p, []object.Object{a})
	if diff := cmp.Diff([]string{"Module(m)"}, names(delta1)); diff != "" {
		t.Fatalf("first PutAll delta mismatch (-want +got):\n%s", diff)
	}

	delta2 := s.PutAll(p, []object.Object{a, b})
	if diff := cmp.Diff([]string{"Fake(os)"}, names(delta2)); diff != "" {
		t.Fatalf("second PutAll delta must contain only the genuinely new object (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Fake(os)", "Module(m)"}, names(s.Get(p))); diff != "" {
		t.Fatalf("final points-to set mismatch (-want +got):\n%s", diff)
	}
}

func TestPutAllEmptyIsNoop(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	pp := ptr.NewPool()
	v := m.AddLocal("v")
	p := pp.Var(v, ctx.Empty())

	s := NewPointsTo()
	if delta := s.PutAll(p, nil); delta != nil {
		t.Fatalf("empty PutAll must return a nil delta, got %v", delta)
	}
	if s.Len() != 0 {
		t.Fatalf("empty PutAll must not allocate a set entry, got Len()=%d", s.Len())
	}
}

func TestHasReflectsCurrentMembership(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	op := object.NewPool()
	a := op.Module(m)

	pp := ptr.NewPool()
	v := m.AddLocal("v")
	p := pp.Var(v, ctx.Empty())

	s := NewPointsTo()
	if s.Has(p, a) {
		t.Fatalf("unpopulated pointer must not contain any object")
	}
	s.PutAll(p, []object.Object{a})
	if !s.Has(p, a) {
		t.Fatalf("Has must reflect a just-added object")
	}
}
