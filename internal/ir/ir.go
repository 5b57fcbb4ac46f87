// Package ir defines the immutable program representation consumed by the
// solver: code blocks (module/class/function), variables and statements.
//
// There is no parser here: the frontend that lowers source into this IR is
// out of scope (see the module resolver and driver packages); this package
// only fixes the shape a frontend must produce.
package ir

import "strconv"

// Variable is a pure label identified by (name, owning block); it carries no
// value. Two Variables are the same iff they are the same pointer — each
// declaration site allocates exactly one.
type Variable struct {
	id           string
	ReadableName string
	Block        CodeBlock
	Temp         bool
}

func newVariable(name string, block CodeBlock, temp bool) *Variable {
	return &Variable{
		id:           block.ID() + "." + name,
		ReadableName: name + "@" + block.ReadableName(),
		Block:        block,
		Temp:         temp,
	}
}

func (v *Variable) ID() string     { return v.id }
func (v *Variable) String() string { return v.ReadableName }

// NewTemp allocates a fresh anonymous temporary in b; used by the solver to
// synthesize the implicit `__init__` call when lowering a class
// instantiation (§4.9).
func NewTemp(b CodeBlock) *Variable { return b.newTemp() }

// CodeBlock is satisfied by *ModuleBlock, *ClassBlock and *FunctionBlock.
type CodeBlock interface {
	ID() string
	ReadableName() string
	ScopeLevel() int
	Stmts() []Stmt
	IsFake() bool

	addStmt(Stmt)
	nextStmtID() int
	newTemp() *Variable
}

// base is embedded by every concrete code-block type; it is not exported
// because callers only ever hold a CodeBlock.
type base struct {
	id           string
	readableName string
	scopeLevel   int
	stmts        []Stmt
	fake         bool
	stmtCounter  int
	tmpCounter   int
}

func (b *base) ID() string           { return b.id }
func (b *base) ReadableName() string { return b.readableName }
func (b *base) ScopeLevel() int      { return b.scopeLevel }
func (b *base) Stmts() []Stmt        { return b.stmts }
func (b *base) IsFake() bool         { return b.fake }

func (b *base) addStmt(s Stmt) { b.stmts = append(b.stmts, s) }

func (b *base) nextStmtID() int {
	id := b.stmtCounter
	b.stmtCounter++
	return id
}

// ModuleBlock owns the module object's global variable and its set of
// exported names (§3.1). scopeLevel is always 0.
type ModuleBlock struct {
	base
	GlobalVariable *Variable
	GlobalNames    map[string]bool
}

// NewModuleBlock creates an (initially empty) module code block.
func NewModuleBlock(readableName string, fake bool) *ModuleBlock {
	m := &ModuleBlock{base: base{id: readableName, readableName: readableName, scopeLevel: 0, fake: fake}}
	m.GlobalVariable = newVariable("$global", m, false)
	m.GlobalNames = map[string]bool{}
	return m
}

func (m *ModuleBlock) newTemp() *Variable {
	name := tmpName(&m.base)
	return newVariable(name, m, true)
}

// AddLocal declares a named module-level variable (a module global in the
// source language's terms).
func (m *ModuleBlock) AddLocal(name string) *Variable {
	return newVariable(name, m, false)
}

// ClassBlock owns $thisClass, the set of names declared global within the
// class body, and the set of attribute names discovered by lexical binding
// analysis of the class body (a frontend concern; here it is just data).
type ClassBlock struct {
	base
	Enclosing       CodeBlock
	ThisClass       *Variable
	DeclaredGlobal  map[string]bool
	Attributes      map[string]bool // discovered attribute names (persistent-attribute candidates)
}

// NewClassBlock creates a class code block nested in enclosing. id should be
// unique within enclosing (e.g. an allocation-site-derived suffix).
func NewClassBlock(name string, enclosing CodeBlock, id string, fake bool) *ClassBlock {
	c := &ClassBlock{
		base: base{
			id:           enclosing.ID() + ".$" + id,
			readableName: enclosing.ReadableName() + "." + name,
			scopeLevel:   enclosing.ScopeLevel(),
			fake:         fake,
		},
		Enclosing:      enclosing,
		DeclaredGlobal: map[string]bool{},
		Attributes:     map[string]bool{},
	}
	c.ThisClass = newVariable("$thisClass", c, false)
	return c
}

func (c *ClassBlock) newTemp() *Variable {
	name := tmpName(&c.base)
	return newVariable(name, c, true)
}

// DeclareAttribute registers a its a lexically-bound attribute name on the
// class body; used to seed the persistent-attribute map (§4.1).
func (c *ClassBlock) DeclareAttribute(name string) { c.Attributes[name] = true }

// AddLocal declares a named variable in the class body's own namespace
// (assigning it is how a plain class attribute gets its persistent-attribute
// candidacy recorded via DeclareAttribute).
func (c *ClassBlock) AddLocal(name string) *Variable {
	c.DeclareAttribute(name)
	return newVariable(name, c, false)
}

// FunctionBlock owns its parameter lists, return variable, locals and the
// set of names declared global within its body.
type FunctionBlock struct {
	base
	Enclosing      CodeBlock
	PosParams      []*Variable
	KwParams       map[string]*Variable // keyword-accepting parameters
	VarParam       *Variable             // nil if absent
	KwParam        *Variable             // nil if absent
	ReturnVar      *Variable
	Locals         []*Variable
	DeclaredGlobal map[string]bool
}

// NewFunctionBlock creates a function code block nested in enclosing.
// scopeLevel is enclosing's scopeLevel+1, per §3.1.
func NewFunctionBlock(name string, enclosing CodeBlock, id string, fake bool) *FunctionBlock {
	f := &FunctionBlock{
		base: base{
			id:           enclosing.ID() + ".$" + id,
			readableName: enclosing.ReadableName() + "." + name,
			scopeLevel:   enclosing.ScopeLevel() + 1,
			fake:         fake,
		},
		Enclosing:      enclosing,
		KwParams:       map[string]*Variable{},
		DeclaredGlobal: map[string]bool{},
	}
	f.ReturnVar = newVariable("$return", f, false)
	return f
}

func (f *FunctionBlock) newTemp() *Variable {
	name := tmpName(&f.base)
	return newVariable(name, f, true)
}

// AddPosParam appends a new positional parameter and returns it.
func (f *FunctionBlock) AddPosParam(name string) *Variable {
	v := newVariable(name, f, false)
	f.PosParams = append(f.PosParams, v)
	return v
}

// AddKwParam adds a keyword-accepting parameter under keyword kw.
func (f *FunctionBlock) AddKwParam(kw string) *Variable {
	v := newVariable(kw, f, false)
	f.KwParams[kw] = v
	return v
}

// SetVarParam/SetKwParam declare the optional *args/**kwargs catch-alls.
func (f *FunctionBlock) SetVarParam(name string) *Variable {
	f.VarParam = newVariable(name, f, false)
	return f.VarParam
}

func (f *FunctionBlock) SetKwParam(name string) *Variable {
	f.KwParam = newVariable(name, f, false)
	return f.KwParam
}

// AddLocal declares a named local variable.
func (f *FunctionBlock) AddLocal(name string) *Variable {
	v := newVariable(name, f, false)
	f.Locals = append(f.Locals, v)
	return v
}

func tmpName(b *base) string {
	n := b.tmpCounter
	b.tmpCounter++
	return "$t" + strconv.Itoa(n)
}
