package solve

import (
	"github.com/ptalias/ptalias/internal/attrresolve"
	"github.com/ptalias/ptalias/internal/binding"
	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
)

// attrresolveResolver and resolveEdge are local aliases so the rest of the
// package doesn't need to import attrresolve just to spell these two types.
type attrresolveResolver = attrresolve.Resolver
type resolveEdge = attrresolve.FlowEdge

const (
	typeDiscriminator  = binding.SuperType
	boundDiscriminator = binding.SuperBound
)

func newClassBinding(stmt *ir.NewClass, index int, chain ctx.Chain) binding.NewClassBinding {
	return binding.NewClassBinding{Stmt: stmt, BaseIndex: index, Chain: chain}
}

func callBinding(stmt *ir.Call, chain ctx.Chain) binding.CallBinding {
	return binding.CallBinding{Stmt: stmt, Chain: chain}
}

func delAttrBinding(stmt *ir.DelAttr, chain ctx.Chain) binding.DelAttrBinding {
	return binding.DelAttrBinding{Stmt: stmt, Chain: chain}
}

func staticMethodBinding(stmt *ir.NewStaticMethod, chain ctx.Chain) binding.StaticMethodBinding {
	return binding.StaticMethodBinding{Stmt: stmt, Chain: chain}
}

func classMethodBinding(stmt *ir.NewClassMethod, chain ctx.Chain) binding.ClassMethodBinding {
	return binding.ClassMethodBinding{Stmt: stmt, Chain: chain}
}

func superBinding(stmt *ir.NewSuper, chain ctx.Chain, d binding.SuperDiscriminator) binding.SuperBinding {
	return binding.SuperBinding{Stmt: stmt, Chain: chain, Discriminator: d}
}
