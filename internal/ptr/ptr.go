// Package ptr implements the pointer universe (§3.3): variable pointers,
// keyed by (variable, context chain), and attribute pointers, keyed by
// (abstract object, attribute name). Both variants are interned through a
// Pool so that pointer identity coincides with pointer equality, letting
// every other package use them directly as map keys.
package ptr

import (
	"strings"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
)

// FakePrefix marks the reserved "resolved attribute" namespace (§3.3): an
// AttrPtr whose Attr has this prefix is written to only by the attribute
// resolver.
const FakePrefix = "$r_"

// Resolved reports whether attr names a resolved-attribute slot.
func Resolved(attr string) bool { return strings.HasPrefix(attr, FakePrefix) }

// ResolvedName returns the resolved-attribute slot name for attr.
func ResolvedName(attr string) string { return FakePrefix + attr }

// Pointer is implemented by *VarPtr and *AttrPtr.
type Pointer interface {
	isPointer()
	String() string
}

// VarPtr is (variable, context-chain prefix truncated to the variable's own
// scope level).
type VarPtr struct {
	Var   *ir.Variable
	Chain ctx.Chain
}

func (*VarPtr) isPointer() {}

func (v *VarPtr) String() string {
	if len(v.Chain) == 0 {
		return v.Var.String()
	}
	return v.Chain.String() + v.Var.String()
}

// AttrPtr is (abstract object, attribute name).
type AttrPtr struct {
	Obj  object.Object
	Attr string
}

func (*AttrPtr) isPointer() {}

func (a *AttrPtr) String() string { return a.Obj.String() + "." + a.Attr }

type varKey struct {
	v         *ir.Variable
	chainKey  string
}

type attrKey struct {
	obj  object.Object
	attr string
}

// Pool interns VarPtr/AttrPtr values.
type Pool struct {
	vars  map[varKey]*VarPtr
	attrs map[attrKey]*AttrPtr
}

func NewPool() *Pool {
	return &Pool{vars: map[varKey]*VarPtr{}, attrs: map[attrKey]*AttrPtr{}}
}

// Var returns the canonical VarPtr for v evaluated under chain, truncating
// chain to v's owning block's scope level as §6.5 requires.
func (p *Pool) Var(v *ir.Variable, chain ctx.Chain) *VarPtr {
	truncated := chain.Prefix(v.Block.ScopeLevel())
	k := varKey{v: v, chainKey: truncated.Key()}
	if existing, ok := p.vars[k]; ok {
		return existing
	}
	vp := &VarPtr{Var: v, Chain: truncated}
	p.vars[k] = vp
	return vp
}

// Attr returns the canonical AttrPtr for (obj, attr).
func (p *Pool) Attr(obj object.Object, attr string) *AttrPtr {
	k := attrKey{obj: obj, attr: attr}
	if existing, ok := p.attrs[k]; ok {
		return existing
	}
	ap := &AttrPtr{Obj: obj, Attr: attr}
	p.attrs[k] = ap
	return ap
}
