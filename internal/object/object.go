// Package object implements the abstract object universe (§3.2): every
// variant is allocation-site-keyed, optionally refined by a context chain
// in context-sensitive mode. The variant set is a closed tagged sum, per
// the design notes in spec §9.
package object

import (
	"fmt"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
)

// Kind tags the closed set of object variants.
type Kind int

const (
	KindModule Kind = iota
	KindFunction
	KindClass
	KindInstance
	KindBuiltin
	KindStaticMethod
	KindClassMethod
	KindInstanceMethod
	KindSuper
	KindFake
)

// Object is implemented by every abstract object variant.
type Object interface {
	Kind() Kind
	String() string
	key() string
}

// Module wraps a module code block.
type Module struct {
	Block *ir.ModuleBlock
}

func (m *Module) Kind() Kind     { return KindModule }
func (m *Module) String() string { return "Module(" + m.Block.ReadableName() + ")" }
func (m *Module) key() string    { return "M:" + m.Block.ID() }

// Function wraps a NewFunction allocation site, exposing the function
// block's parameters and return variable as the solver needs them.
type Function struct {
	Site  *ir.NewFunction
	Chain ctx.Chain
}

func (f *Function) Kind() Kind { return KindFunction }
func (f *Function) Block() *ir.FunctionBlock { return f.Site.Block }
func (f *Function) String() string {
	return fmt.Sprintf("%sFunction(%s)", f.Chain, f.Site.Block.ReadableName())
}
func (f *Function) key() string {
	return fmt.Sprintf("F:%s.%d@%s", f.Site.Owner().ID(), f.Site.SeqID(), f.Chain.Key())
}

// Class wraps a NewClass allocation site.
type Class struct {
	Site  *ir.NewClass
	Chain ctx.Chain
}

func (c *Class) Kind() Kind { return KindClass }
func (c *Class) Block() *ir.ClassBlock { return c.Site.Block }

// Bases returns the class's declared base variables, paired with the
// context chain in which they must be evaluated (c's own chain).
func (c *Class) Bases() []*ir.Variable { return c.Site.Bases }

func (c *Class) Attributes() map[string]bool { return c.Site.Block.Attributes }

func (c *Class) String() string {
	return fmt.Sprintf("%sClass(%s)", c.Chain, c.Site.Block.ReadableName())
}
func (c *Class) key() string {
	return fmt.Sprintf("C:%s.%d@%s", c.Site.Owner().ID(), c.Site.SeqID(), c.Chain.Key())
}

// Instance wraps a constructor Call site and the class invoked; it exists
// only in context-sensitive mode (see DESIGN.md, OQ1).
type Instance struct {
	Site  *ir.Call
	Chain ctx.Chain
	Type  *Class
}

func (i *Instance) Kind() Kind { return KindInstance }
func (i *Instance) String() string {
	return fmt.Sprintf("%sInstance(%s @ %s#%d)", i.Chain, i.Type.Block().ReadableName(), i.Site.Owner().ID(), i.Site.SeqID())
}
func (i *Instance) key() string {
	return fmt.Sprintf("I:%s#%d@%s/%s", i.Site.Owner().ID(), i.Site.SeqID(), i.Chain.Key(), i.Type.key())
}

// Builtin wraps a NewBuiltin allocation site.
type Builtin struct {
	Site  *ir.NewBuiltin
	Chain ctx.Chain
}

func (b *Builtin) Kind() Kind     { return KindBuiltin }
func (b *Builtin) String() string { return fmt.Sprintf("%sBuiltin(%s)", b.Chain, b.Site.Type) }
func (b *Builtin) key() string {
	return fmt.Sprintf("B:%s.%d@%s", b.Site.Owner().ID(), b.Site.SeqID(), b.Chain.Key())
}

// StaticMethod wraps the underlying function object.
type StaticMethod struct {
	Func *Function
}

func (s *StaticMethod) Kind() Kind     { return KindStaticMethod }
func (s *StaticMethod) String() string { return "StaticMethod(" + s.Func.String() + ")" }
func (s *StaticMethod) key() string    { return "SM:" + s.Func.key() }

// ClassMethod wraps a (class, function) pair.
type ClassMethod struct {
	Class *Class
	Func  *Function
}

func (c *ClassMethod) Kind() Kind { return KindClassMethod }
func (c *ClassMethod) String() string {
	return "ClassMethod(" + c.Class.String() + ", " + c.Func.String() + ")"
}
func (c *ClassMethod) key() string { return "CM:" + c.Class.key() + "," + c.Func.key() }

// InstanceMethod wraps a (self instance, function) pair; context-sensitive
// mode only (§4.7.2's additional binding policy).
type InstanceMethod struct {
	Self *Instance
	Func *Function
}

func (m *InstanceMethod) Kind() Kind { return KindInstanceMethod }
func (m *InstanceMethod) String() string {
	return "InstanceMethod(self: " + m.Self.String() + ", " + m.Func.String() + ")"
}
func (m *InstanceMethod) key() string { return "IM:" + m.Self.key() + "," + m.Func.key() }

// Super wraps a (type class, bound class-or-instance) pair.
type Super struct {
	Type  *Class
	Bound Object // *Class or *Instance
}

func (s *Super) Kind() Kind     { return KindSuper }
func (s *Super) String() string { return "Super(" + s.Type.String() + ", " + s.Bound.String() + ")" }
func (s *Super) key() string    { return "SU:" + s.Type.key() + "," + s.Bound.key() }

// BoundClass returns the class to search an MRO of: Bound itself if it is a
// Class, or Bound's type if it is an Instance.
func (s *Super) BoundClass() *Class {
	switch b := s.Bound.(type) {
	case *Class:
		return b
	case *Instance:
		return b.Type
	default:
		return nil
	}
}

// getAttrKey identifies a single GetAttr-driven derivation for cycle-cutting
// (§4.7.1); it intentionally does not include any Fake-specific string so
// that identity never depends on a chain of prior stringifications (OQ4).
type getAttrKey struct {
	srcVar, tgtVar *ir.Variable
	srcChain, tgtChain string
	attr               string
}

// Fake stands in for an attribute access on an unresolved import. Identity
// is the (prefix, witness) pair with cycle-cut collapsing (§4.7.1); two
// Fakes are the same object iff FakeObject.create would have returned the
// same node, which Pool.RootFake/Pool.DeriveFake implement by looking up
// idKey.
type Fake struct {
	Prefix  *Fake // nil for a root Fake (an unresolved NewModule)
	Origin  string // descriptive root origin (unresolved module name) when Prefix == nil
	witness getAttrKey
	idKey   string
}

func (f *Fake) Kind() Kind { return KindFake }
func (f *Fake) String() string {
	if f.Prefix == nil {
		return "Fake(" + f.Origin + ")"
	}
	return "Fake(" + f.Prefix.String() + "." + f.witness.attr + ")"
}
func (f *Fake) key() string { return "K:" + f.idKey }
