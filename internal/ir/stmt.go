package ir

import "fmt"

// Stmt is the tagged-sum interface implemented by every statement variant.
// The variant set is closed; the solver switches over concrete types.
type Stmt interface {
	Owner() CodeBlock
	SeqID() int
	fmt.Stringer
}

type stmtBase struct {
	owner CodeBlock
	id    int
}

func (s *stmtBase) Owner() CodeBlock { return s.owner }
func (s *stmtBase) SeqID() int       { return s.id }

func attach(owner CodeBlock, s Stmt) stmtBase {
	b := stmtBase{owner: owner, id: owner.nextStmtID()}
	owner.addStmt(s)
	return b
}

// Assign is `Target <- Source`.
type Assign struct {
	stmtBase
	Target *Variable
	Source *Variable
}

func NewAssign(owner CodeBlock, target, source *Variable) *Assign {
	a := &Assign{Target: target, Source: source}
	a.stmtBase = attach(owner, a)
	return a
}

func (a *Assign) String() string { return fmt.Sprintf("%s = %s", a.Target, a.Source) }

// GetAttr is `Target <- Source.Attr`.
type GetAttr struct {
	stmtBase
	Target *Variable
	Source *Variable
	Attr   string
}

func NewGetAttr(owner CodeBlock, target, source *Variable, attr string) *GetAttr {
	g := &GetAttr{Target: target, Source: source, Attr: attr}
	g.stmtBase = attach(owner, g)
	return g
}

func (g *GetAttr) String() string { return fmt.Sprintf("%s = %s.%s", g.Target, g.Source, g.Attr) }

// SetAttr is `Target.Attr <- Source`.
type SetAttr struct {
	stmtBase
	Target *Variable
	Attr   string
	Source *Variable
}

func NewSetAttr(owner CodeBlock, target *Variable, attr string, source *Variable) *SetAttr {
	s := &SetAttr{Target: target, Attr: attr, Source: source}
	s.stmtBase = attach(owner, s)
	return s
}

func (s *SetAttr) String() string { return fmt.Sprintf("%s.%s = %s", s.Target, s.Attr, s.Source) }

// DelAttr is `del Var.Attr`.
type DelAttr struct {
	stmtBase
	Var  *Variable
	Attr string
}

func NewDelAttr(owner CodeBlock, v *Variable, attr string) *DelAttr {
	d := &DelAttr{Var: v, Attr: attr}
	d.stmtBase = attach(owner, d)
	return d
}

func (d *DelAttr) String() string { return fmt.Sprintf("del %s.%s", d.Var, d.Attr) }

// ModuleRef is either a resolved ModuleBlock or an unresolved dotted name.
type ModuleRef struct {
	Resolved   *ModuleBlock
	Unresolved string
}

// NewModule is `Target <- <module-ref>`.
type NewModule struct {
	stmtBase
	Target *Variable
	Module ModuleRef
}

func NewNewModule(owner CodeBlock, target *Variable, ref ModuleRef) *NewModule {
	n := &NewModule{Target: target, Module: ref}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewModule) String() string {
	if n.Module.Resolved != nil {
		return fmt.Sprintf("%s = NewModule %s", n.Target, n.Module.Resolved.ReadableName())
	}
	return fmt.Sprintf("%s = NewModule %q", n.Target, n.Module.Unresolved)
}

// NewFunction is `Target <- <function-block>`.
type NewFunction struct {
	stmtBase
	Target *Variable
	Block   *FunctionBlock
}

func NewNewFunction(owner CodeBlock, target *Variable, block *FunctionBlock) *NewFunction {
	n := &NewFunction{Target: target, Block: block}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewFunction) String() string { return fmt.Sprintf("%s = NewFunction %s", n.Target, n.Block.ReadableName()) }

// NewClass is `Target <- <class-block>(Bases...)`.
type NewClass struct {
	stmtBase
	Target *Variable
	Block  *ClassBlock
	Bases  []*Variable
}

func NewNewClass(owner CodeBlock, target *Variable, block *ClassBlock, bases []*Variable) *NewClass {
	n := &NewClass{Target: target, Block: block, Bases: bases}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewClass) String() string {
	return fmt.Sprintf("%s = NewClass %s(%d bases)", n.Target, n.Block.ReadableName(), len(n.Bases))
}

// NewBuiltin is `Target <- <type-tag, optional value>`.
type NewBuiltin struct {
	stmtBase
	Target *Variable
	Type   string
	Value  any
}

func NewNewBuiltin(owner CodeBlock, target *Variable, typ string, value any) *NewBuiltin {
	n := &NewBuiltin{Target: target, Type: typ, Value: value}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewBuiltin) String() string { return fmt.Sprintf("%s = NewBuiltin %s", n.Target, n.Type) }

// NewStaticMethod is `Target <- staticmethod(Func)`.
type NewStaticMethod struct {
	stmtBase
	Target *Variable
	Func   *Variable
}

func NewNewStaticMethod(owner CodeBlock, target, fn *Variable) *NewStaticMethod {
	n := &NewStaticMethod{Target: target, Func: fn}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewStaticMethod) String() string { return fmt.Sprintf("%s = NewStaticMethod(%s)", n.Target, n.Func) }

// NewClassMethod is `Target <- classmethod(Func)`.
type NewClassMethod struct {
	stmtBase
	Target *Variable
	Func   *Variable
}

func NewNewClassMethod(owner CodeBlock, target, fn *Variable) *NewClassMethod {
	n := &NewClassMethod{Target: target, Func: fn}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewClassMethod) String() string { return fmt.Sprintf("%s = NewClassMethod(%s)", n.Target, n.Func) }

// NewSuper is `Target <- super(Type, Bound)`; either may be nil.
type NewSuper struct {
	stmtBase
	Target *Variable
	Type   *Variable
	Bound  *Variable
}

func NewNewSuper(owner CodeBlock, target, typ, bound *Variable) *NewSuper {
	n := &NewSuper{Target: target, Type: typ, Bound: bound}
	n.stmtBase = attach(owner, n)
	return n
}

func (n *NewSuper) String() string { return fmt.Sprintf("%s = NewSuper(%v, %v)", n.Target, n.Type, n.Bound) }

// Call is `Target <- Callee(PosArgs..., KwArgs...)`.
type Call struct {
	stmtBase
	Target  *Variable
	Callee  *Variable
	PosArgs []*Variable
	KwArgs  map[string]*Variable
}

func NewCall(owner CodeBlock, target, callee *Variable, posArgs []*Variable, kwArgs map[string]*Variable) *Call {
	c := &Call{Target: target, Callee: callee, PosArgs: posArgs, KwArgs: kwArgs}
	c.stmtBase = attach(owner, c)
	return c
}

func (c *Call) String() string { return fmt.Sprintf("%s = Call %s(%d pos, %d kw)", c.Target, c.Callee, len(c.PosArgs), len(c.KwArgs)) }
