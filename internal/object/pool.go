package object

import (
	"fmt"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
)

// Pool interns abstract objects so that identity coincides with equality:
// two calls describing the same (variant, allocation site, context) always
// return the same *pointer* (Invariant O-1/O-2 of spec §3.2).
type Pool struct {
	byKey map[string]Object
}

// NewPool creates an empty interning table.
func NewPool() *Pool { return &Pool{byKey: map[string]Object{}} }

func (p *Pool) intern(o Object) Object {
	k := o.key()
	if existing, ok := p.byKey[k]; ok {
		return existing
	}
	p.byKey[k] = o
	return o
}

func (p *Pool) Module(block *ir.ModuleBlock) *Module {
	o := &Module{Block: block}
	return p.intern(o).(*Module)
}

func (p *Pool) Function(site *ir.NewFunction, chain ctx.Chain) *Function {
	o := &Function{Site: site, Chain: chain}
	return p.intern(o).(*Function)
}

func (p *Pool) Class(site *ir.NewClass, chain ctx.Chain) *Class {
	o := &Class{Site: site, Chain: chain}
	return p.intern(o).(*Class)
}

func (p *Pool) Instance(site *ir.Call, chain ctx.Chain, typ *Class) *Instance {
	o := &Instance{Site: site, Chain: chain, Type: typ}
	return p.intern(o).(*Instance)
}

func (p *Pool) Builtin(site *ir.NewBuiltin, chain ctx.Chain) *Builtin {
	o := &Builtin{Site: site, Chain: chain}
	return p.intern(o).(*Builtin)
}

func (p *Pool) StaticMethod(fn *Function) *StaticMethod {
	o := &StaticMethod{Func: fn}
	return p.intern(o).(*StaticMethod)
}

func (p *Pool) ClassMethod(cls *Class, fn *Function) *ClassMethod {
	o := &ClassMethod{Class: cls, Func: fn}
	return p.intern(o).(*ClassMethod)
}

func (p *Pool) InstanceMethod(self *Instance, fn *Function) *InstanceMethod {
	o := &InstanceMethod{Self: self, Func: fn}
	return p.intern(o).(*InstanceMethod)
}

func (p *Pool) Super(typ *Class, bound Object) *Super {
	o := &Super{Type: typ, Bound: bound}
	return p.intern(o).(*Super)
}

// RootFake creates (or returns the existing) Fake standing for an
// unresolved import named origin.
func (p *Pool) RootFake(origin string) *Fake {
	o := &Fake{Origin: origin, idKey: "root:" + origin}
	return p.intern(o).(*Fake)
}

// DeriveFake creates the Fake for reading attr off prefix via the GetAttr
// edge (srcVar@srcChain -> tgtVar@tgtChain), collapsing to an existing node
// of the same witness anywhere along prefix's chain (§4.7.1 cycle-cut).
func (p *Pool) DeriveFake(prefix *Fake, srcVar, tgtVar *ir.Variable, srcChain, tgtChain ctx.Chain, attr string) *Fake {
	w := getAttrKey{srcVar: srcVar, tgtVar: tgtVar, srcChain: srcChain.Key(), tgtChain: tgtChain.Key(), attr: attr}

	// Cycle-cut: walk prefix's own chain of witnesses; if an ancestor
	// already recorded this exact witness, reuse its prefix instead of
	// growing the chain (FakeObject.cut in original_source).
	cut := prefix
	for cut != nil && cut.Prefix != nil {
		if cut.witness == w {
			return cut.Prefix
		}
		cut = cut.Prefix
	}

	o := &Fake{
		Prefix:  prefix,
		witness: w,
		idKey:   fmt.Sprintf("%s.%s!%s>%s!%s>%s", prefix.idKey, attr, srcVar.ID(), srcChain.Key(), tgtVar.ID(), tgtChain.Key()),
	}
	return p.intern(o).(*Fake)
}
