package serial

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/solve"
)

func solvedSimpleCall(t *testing.T) (*solve.Solver, *ir.Variable) {
	t.Helper()
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

	s := solve.New(ctx.Selector{K: 0}, nil)
	if err := s.Run([]*ir.ModuleBlock{m}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return s, rVar
}

func TestBuildReportIncludesResolvedPointerAndCallGraph(t *testing.T) {
	s, rVar := solvedSimpleCall(t)
	_ = rVar

	r := BuildReport(s)
	if r.EventCount <= 0 {
		t.Fatalf("want a positive event count from a real solve, got %d", r.EventCount)
	}
	if len(r.PointsTo) == 0 {
		t.Fatalf("want at least one points-to entry")
	}
	if len(r.CallGraph) == 0 {
		t.Fatalf("want at least one call graph entry for the f(x) call")
	}

	found := false
	for _, e := range r.CallGraph {
		if strings.HasSuffix(e.Caller, "m") {
			found = true
		}
	}
	if !found {
		t.Fatalf("want the module-level caller present in the call graph, got %v", r.CallGraph)
	}
}

func TestReportJSONRoundTrips(t *testing.T) {
	s, _ := solvedSimpleCall(t)
	r := BuildReport(s)

	data, err := r.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.EventCount != r.EventCount || len(back.PointsTo) != len(r.PointsTo) {
		t.Fatalf("round-tripped report mismatch: got %+v, want %+v", back, r)
	}
}

func TestReportMarkdownIsWellFormed(t *testing.T) {
	s, _ := solvedSimpleCall(t)
	r := BuildReport(s)

	md, err := r.Markdown()
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(md), "# Points-to analysis report") {
		t.Fatalf("want the report heading present, got:\n%s", md)
	}
}

func TestReportPointsToAndCallGraphAreSorted(t *testing.T) {
	s, _ := solvedSimpleCall(t)
	r := BuildReport(s)

	for i := 1; i < len(r.PointsTo); i++ {
		if collator.CompareString(r.PointsTo[i-1].Pointer, r.PointsTo[i].Pointer) > 0 {
			t.Fatalf("points-to entries not sorted at index %d: %v", i, r.PointsTo)
		}
	}
	for i := 1; i < len(r.CallGraph); i++ {
		if collator.CompareString(r.CallGraph[i-1].Caller, r.CallGraph[i].Caller) > 0 {
			t.Fatalf("call graph entries not sorted at index %d: %v", i, r.CallGraph)
		}
	}
}
