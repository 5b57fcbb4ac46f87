// Package binding implements the binding index (L5, §3.4/§4.5): for each
// statement kind that needs re-evaluation when new objects arrive at one of
// its operands, a multimap from VarPtr to the statement (plus whatever
// discriminator and context chain the re-evaluation needs).
package binding

import (
	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/ptr"
)

// NewClassBinding records that stmt's base at BaseIndex was (or is being)
// evaluated under Chain.
type NewClassBinding struct {
	Stmt      *ir.NewClass
	BaseIndex int
	Chain     ctx.Chain
}

// CallBinding records a Call site reachable under Chain.
type CallBinding struct {
	Stmt  *ir.Call
	Chain ctx.Chain
}

// DelAttrBinding records a DelAttr statement reachable under Chain.
type DelAttrBinding struct {
	Stmt  *ir.DelAttr
	Chain ctx.Chain
}

// StaticMethodBinding records a NewStaticMethod statement reachable under
// Chain.
type StaticMethodBinding struct {
	Stmt  *ir.NewStaticMethod
	Chain ctx.Chain
}

// ClassMethodBinding records a NewClassMethod statement reachable under
// Chain, bound on the wrapped function's variable only; the enclosing
// class's $thisClass variable is read when the binding is processed (see
// DESIGN.md, OQ2).
type ClassMethodBinding struct {
	Stmt  *ir.NewClassMethod
	Chain ctx.Chain
}

// SuperDiscriminator distinguishes the "type" and "bound" operand of a
// NewSuper statement (§4.2).
type SuperDiscriminator int

const (
	SuperType SuperDiscriminator = iota
	SuperBound
)

// SuperBinding records a NewSuper statement reachable under Chain, bound on
// one of its two operands.
type SuperBinding struct {
	Stmt          *ir.NewSuper
	Chain         ctx.Chain
	Discriminator SuperDiscriminator
}

// Index is the binding index: per statement kind, a multimap from VarPtr to
// statement-info. All operations are O(1) amortized; there is no removal
// (§4.5).
type Index struct {
	newClass        map[*ptr.VarPtr][]NewClassBinding
	call            map[*ptr.VarPtr][]CallBinding
	delAttr         map[*ptr.VarPtr][]DelAttrBinding
	newStaticMethod map[*ptr.VarPtr][]StaticMethodBinding
	newClassMethod  map[*ptr.VarPtr][]ClassMethodBinding
	newSuper        map[*ptr.VarPtr][]SuperBinding
}

func NewIndex() *Index {
	return &Index{
		newClass:        map[*ptr.VarPtr][]NewClassBinding{},
		call:            map[*ptr.VarPtr][]CallBinding{},
		delAttr:         map[*ptr.VarPtr][]DelAttrBinding{},
		newStaticMethod: map[*ptr.VarPtr][]StaticMethodBinding{},
		newClassMethod:  map[*ptr.VarPtr][]ClassMethodBinding{},
		newSuper:        map[*ptr.VarPtr][]SuperBinding{},
	}
}

func (idx *Index) BindNewClass(p *ptr.VarPtr, b NewClassBinding) {
	idx.newClass[p] = append(idx.newClass[p], b)
}
func (idx *Index) NewClassBindings(p *ptr.VarPtr) []NewClassBinding { return idx.newClass[p] }

func (idx *Index) BindCall(p *ptr.VarPtr, b CallBinding) {
	idx.call[p] = append(idx.call[p], b)
}
func (idx *Index) CallBindings(p *ptr.VarPtr) []CallBinding { return idx.call[p] }

func (idx *Index) BindDelAttr(p *ptr.VarPtr, b DelAttrBinding) {
	idx.delAttr[p] = append(idx.delAttr[p], b)
}
func (idx *Index) DelAttrBindings(p *ptr.VarPtr) []DelAttrBinding { return idx.delAttr[p] }

func (idx *Index) BindNewStaticMethod(p *ptr.VarPtr, b StaticMethodBinding) {
	idx.newStaticMethod[p] = append(idx.newStaticMethod[p], b)
}
func (idx *Index) NewStaticMethodBindings(p *ptr.VarPtr) []StaticMethodBinding {
	return idx.newStaticMethod[p]
}

func (idx *Index) BindNewClassMethod(p *ptr.VarPtr, b ClassMethodBinding) {
	idx.newClassMethod[p] = append(idx.newClassMethod[p], b)
}
func (idx *Index) NewClassMethodBindings(p *ptr.VarPtr) []ClassMethodBinding {
	return idx.newClassMethod[p]
}

func (idx *Index) BindNewSuper(p *ptr.VarPtr, b SuperBinding) {
	idx.newSuper[p] = append(idx.newSuper[p], b)
}
func (idx *Index) NewSuperBindings(p *ptr.VarPtr) []SuperBinding { return idx.newSuper[p] }
