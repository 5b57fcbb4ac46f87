package ir

import "testing"

func TestModuleBlockIsScopeZeroAndOwnsGlobal(t *testing.T) {
	m := NewModuleBlock("m", false)
	if m.ScopeLevel() != 0 {
		t.Fatalf("want module scope level 0, got %d", m.ScopeLevel())
	}
	if m.GlobalVariable.ReadableName != "$global@m" {
		t.Fatalf("want the global variable named $global@m, got %q", m.GlobalVariable.ReadableName)
	}
}

func TestClassBlockSharesEnclosingScopeLevel(t *testing.T) {
	m := NewModuleBlock("m", false)
	cb := NewClassBlock("C", m, "C", false)
	if cb.ScopeLevel() != m.ScopeLevel() {
		t.Fatalf("want a class block to share its enclosing scope level, got %d vs %d", cb.ScopeLevel(), m.ScopeLevel())
	}
	if cb.ReadableName() != "m.C" {
		t.Fatalf("want readable name m.C, got %q", cb.ReadableName())
	}
}

func TestFunctionBlockIsOneScopeDeeperThanEnclosing(t *testing.T) {
	m := NewModuleBlock("m", false)
	fb := NewFunctionBlock("f", m, "f", false)
	if fb.ScopeLevel() != m.ScopeLevel()+1 {
		t.Fatalf("want function scope level enclosing+1, got %d", fb.ScopeLevel())
	}

	cb := NewClassBlock("C", m, "C", false)
	method := NewFunctionBlock("m", cb, "m", false)
	if method.ScopeLevel() != cb.ScopeLevel()+1 {
		t.Fatalf("want a method's scope level to be its class's +1, got %d vs %d", method.ScopeLevel(), cb.ScopeLevel())
	}
}

func TestClassAddLocalRegistersAttributeCandidacy(t *testing.T) {
	m := NewModuleBlock("m", false)
	cb := NewClassBlock("C", m, "C", false)
	cb.AddLocal("x")
	if !cb.Attributes["x"] {
		t.Fatalf("want AddLocal to also mark the name as a persistent-attribute candidate")
	}
}

func TestFunctionParamAccessorsReturnDistinctVariables(t *testing.T) {
	m := NewModuleBlock("m", false)
	fb := NewFunctionBlock("f", m, "f", false)

	self := fb.AddPosParam("self")
	v := fb.AddPosParam("v")
	if self == v {
		t.Fatalf("want distinct positional parameters")
	}
	if len(fb.PosParams) != 2 || fb.PosParams[0] != self || fb.PosParams[1] != v {
		t.Fatalf("want PosParams to preserve declaration order, got %v", fb.PosParams)
	}

	kw := fb.AddKwParam("opt")
	if fb.KwParams["opt"] != kw {
		t.Fatalf("want the kw param registered under its own keyword")
	}

	varParam := fb.SetVarParam("args")
	if fb.VarParam != varParam {
		t.Fatalf("want SetVarParam to also store the variable on the block")
	}
	kwParam := fb.SetKwParam("kwargs")
	if fb.KwParam != kwParam {
		t.Fatalf("want SetKwParam to also store the variable on the block")
	}

	local := fb.AddLocal("tmp")
	if len(fb.Locals) != 1 || fb.Locals[0] != local {
		t.Fatalf("want AddLocal to append to Locals, got %v", fb.Locals)
	}
}

func TestNewTempAllocatesDistinctNamesPerBlock(t *testing.T) {
	m := NewModuleBlock("m", false)
	t1 := NewTemp(m)
	t2 := NewTemp(m)
	if t1 == t2 {
		t.Fatalf("want distinct temp variables")
	}
	if !t1.Temp || !t2.Temp {
		t.Fatalf("want temps flagged as such")
	}
	if t1.ReadableName == t2.ReadableName {
		t.Fatalf("want distinct temp names, both got %q", t1.ReadableName)
	}
}

func TestVariableIdentityIsPerDeclarationSite(t *testing.T) {
	// Two Variables are the same iff they are the same pointer: nothing
	// stops two AddLocal calls from sharing a name (or even an ID string,
	// since ID is derived from (block, name)); callers must compare
	// *Variable, never ID() or ReadableName, to tell them apart.
	m := NewModuleBlock("m", false)
	a := m.AddLocal("x")
	b := m.AddLocal("x")
	if a == b {
		t.Fatalf("want two AddLocal calls with the same name to allocate distinct Variables")
	}
}
