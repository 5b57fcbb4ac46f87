// Package pcallgraph is the call graph built on the fly during solving
// (§4.8, grounded on callgraph.py/CSCallGraph.py): edges are recorded both
// by caller/callee readable name (for reporting, §6.3) and by call-site
// statement identity (so the solver and serializer can ask "what can this
// particular call resolve to").
package pcallgraph

import "github.com/ptalias/ptalias/internal/ir"

// Edge is one resolved call-site -> callee-function edge.
type Edge struct {
	Call   *ir.Call
	Callee *ir.FunctionBlock
}

// CallGraph accumulates edges as the solver discovers them. There is no
// removal: call graphs only grow (monotone, like points-to sets).
type CallGraph struct {
	byCaller map[string]map[string]bool      // caller readable name -> callee readable names
	bySite   map[*ir.Call]map[*ir.FunctionBlock]bool // call site -> resolved callee blocks
}

func New() *CallGraph {
	return &CallGraph{
		byCaller: map[string]map[string]bool{},
		bySite:   map[*ir.Call]map[*ir.FunctionBlock]bool{},
	}
}

// AddEdge records call -> callee, keyed both ways. Returns true if this is
// a newly discovered (call site, callee) pair.
func (g *CallGraph) AddEdge(call *ir.Call, callee *ir.FunctionBlock) bool {
	sites := g.bySite[call]
	if sites == nil {
		sites = map[*ir.FunctionBlock]bool{}
		g.bySite[call] = sites
	}
	if sites[callee] {
		return false
	}
	sites[callee] = true

	callerName := call.Owner().ReadableName()
	callees := g.byCaller[callerName]
	if callees == nil {
		callees = map[string]bool{}
		g.byCaller[callerName] = callees
	}
	callees[callee.ReadableName()] = true
	return true
}

// CalleesOf returns the distinct callee function blocks resolved for call,
// or nil if none has been resolved.
func (g *CallGraph) CalleesOf(call *ir.Call) []*ir.FunctionBlock {
	set := g.bySite[call]
	if len(set) == 0 {
		return nil
	}
	out := make([]*ir.FunctionBlock, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	return out
}

// Callers returns every (caller name -> set of callee names) pair, for
// the readable-name-level report (§6.3).
func (g *CallGraph) Callers(yield func(caller string, callees []string)) {
	for caller, set := range g.byCaller {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		yield(caller, names)
	}
}
