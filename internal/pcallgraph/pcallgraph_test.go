package pcallgraph

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ir"
)

func TestAddEdgeReportsOnlyFirstDiscoveryOfAPair(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	caller := ir.NewFunctionBlock("caller", m, "caller", false)
	callee := ir.NewFunctionBlock("callee", m, "callee", false)
	call := ir.NewCall(caller, caller.AddLocal("r"), caller.AddLocal("c"), nil, nil)

	g := New()
	if !g.AddEdge(call, callee) {
		t.Fatalf("first AddEdge of a (call, callee) pair must report true")
	}
	if g.AddEdge(call, callee) {
		t.Fatalf("repeat AddEdge of the same pair must report false")
	}
}

func TestCalleesOfReturnsEveryResolvedCalleeForASite(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	caller := ir.NewFunctionBlock("caller", m, "caller", false)
	callee1 := ir.NewFunctionBlock("callee1", m, "callee1", false)
	callee2 := ir.NewFunctionBlock("callee2", m, "callee2", false)
	call := ir.NewCall(caller, caller.AddLocal("r"), caller.AddLocal("c"), nil, nil)

	g := New()
	g.AddEdge(call, callee1)
	g.AddEdge(call, callee2)

	callees := g.CalleesOf(call)
	if len(callees) != 2 {
		t.Fatalf("want 2 resolved callees for a polymorphic call site, got %d: %v", len(callees), callees)
	}

	other := ir.NewCall(caller, caller.AddLocal("r2"), caller.AddLocal("c2"), nil, nil)
	if got := g.CalleesOf(other); got != nil {
		t.Fatalf("a call site with no resolved edges must report nil, got %v", got)
	}
}

func TestCallersGroupsByReadableName(t *testing.T) {
	m := ir.NewModuleBlock("m", false)
	caller := ir.NewFunctionBlock("caller", m, "caller", false)
	callee := ir.NewFunctionBlock("callee", m, "callee", false)
	call := ir.NewCall(caller, caller.AddLocal("r"), caller.AddLocal("c"), nil, nil)

	g := New()
	g.AddEdge(call, callee)

	found := false
	g.Callers(func(callerName string, callees []string) {
		if callerName != caller.ReadableName() {
			return
		}
		found = true
		if len(callees) != 1 || callees[0] != callee.ReadableName() {
			t.Fatalf("want caller's callee set to contain exactly %q, got %v", callee.ReadableName(), callees)
		}
	})
	if !found {
		t.Fatalf("want an entry for caller %q", caller.ReadableName())
	}
}
