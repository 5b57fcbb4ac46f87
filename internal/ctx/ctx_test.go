package ctx

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ir"
)

func TestSelectorZeroIsAlwaysEmpty(t *testing.T) {
	sel := Selector{K: 0}
	m := ir.NewModuleBlock("m", false)
	f := ir.NewFunctionBlock("f", m, "f", false)
	call := ir.NewCall(f, f.ReturnVar, f.ReturnVar, nil, nil)

	c1 := sel.CallSite(Empty(), call)
	c2 := sel.CallSite(Chain{{elementOf(call)}}, call)

	if got, want := c1.key(), c2.key(); got != want {
		t.Fatalf("K=0 call-site contexts differ: %q vs %q", got, want)
	}
	if len(c1) != 0 {
		t.Fatalf("K=0 context must be empty, got %v", c1)
	}
}

func TestSelectorShiftKeepsWidthK(t *testing.T) {
	sel := Selector{K: 2}
	m := ir.NewModuleBlock("m", false)
	f := ir.NewFunctionBlock("f", m, "f", false)
	c1 := ir.NewCall(f, f.ReturnVar, f.ReturnVar, nil, nil)
	c2 := ir.NewCall(f, f.ReturnVar, f.ReturnVar, nil, nil)
	c3 := ir.NewCall(f, f.ReturnVar, f.ReturnVar, nil, nil)

	ctx1 := sel.CallSite(Empty(), c1)
	if len(ctx1) != 2 {
		t.Fatalf("after first call want len 2 (one empty slot plus the call site), got %d", len(ctx1))
	}
	chain := Chain{ctx1}
	ctx2 := sel.CallSite(chain, c2)
	if len(ctx2) != 2 {
		t.Fatalf("after second call want len 2, got %d", len(ctx2))
	}
	chain = Chain{ctx2}
	ctx3 := sel.CallSite(chain, c3)
	if len(ctx3) != 2 {
		t.Fatalf("context must stay capped at K=2, got len %d", len(ctx3))
	}
	if ctx3[len(ctx3)-1] != elementOf(c3) {
		t.Fatalf("newest element must be last")
	}
}

func TestExtendPadsShallowerLevels(t *testing.T) {
	got := Extend(Chain{{elementOf(nil)}}, 3, Context{elementOf(nil)})
	if len(got) != 3 {
		t.Fatalf("want chain of length 3, got %d", len(got))
	}
}

func TestChainKeyStable(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	f := ir.NewFunctionBlock("f", m, "f", false)
	call := ir.NewCall(f, f.ReturnVar, f.ReturnVar, nil, nil)
	sel := Selector{K: 1}
	c := sel.CallSite(Empty(), call)
	chain1 := Chain{c}
	chain2 := Chain{c}
	if chain1.Key() != chain2.Key() {
		t.Fatalf("equal chains must produce equal keys")
	}
}
