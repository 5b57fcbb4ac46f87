package solve

import (
	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
)

// addReachable marks block reachable under chain (a no-op if already so,
// §4.1's idempotent reachable set) and performs the one-time wiring every
// statement in it needs: queuing a BIND_STMT event for every statement,
// then installing the unconditional flow/allocation effects of Assign,
// GetAttr, SetAttr, NewModule, NewFunction, NewClass and NewBuiltin.
func (s *Solver) addReachable(block ir.CodeBlock, chain ctx.Chain) {
	key := reachKey{block: block, chain: chain.Key()}
	if s.reachable[key] {
		return
	}
	s.reachable[key] = true

	for _, stmt := range block.Stmts() {
		s.pushBindStmt(stmt, chain)
	}

	for _, stmt := range block.Stmts() {
		switch st := stmt.(type) {
		case *ir.Assign:
			srcVP := s.Pointers.Var(st.Source, chain)
			tgtVP := s.Pointers.Var(st.Target, chain)
			s.addFlow(srcVP, tgtVP)

		case *ir.GetAttr:
			srcVP := s.Pointers.Var(st.Source, chain)
			tgtVP := s.Pointers.Var(st.Target, chain)
			s.Attrs.PutGet(srcVP, tgtVP, st.Attr)
			s.addGetEdge(tgtVP, srcVP, st.Attr, s.Points.Get(srcVP))

		case *ir.SetAttr:
			srcVP := s.Pointers.Var(st.Source, chain)
			tgtVP := s.Pointers.Var(st.Target, chain)
			s.Attrs.PutSet(tgtVP, srcVP, st.Attr)
			s.addSetEdge(tgtVP, srcVP, st.Attr, s.Points.Get(tgtVP))

		case *ir.NewModule:
			tgtVP := s.Pointers.Var(st.Target, chain)
			if st.Module.Resolved != nil {
				mod := st.Module.Resolved
				obj := s.Objects.Module(mod)
				globalVP := s.Pointers.Var(mod.GlobalVariable, ctx.Empty())
				s.pushAddPointsTo(tgtVP, []object.Object{obj})
				s.pushAddPointsTo(globalVP, []object.Object{obj})
				s.addReachable(mod, ctx.Empty())
			} else {
				fake := s.Objects.RootFake(st.Module.Unresolved)
				s.pushAddPointsTo(tgtVP, []object.Object{fake})
			}

		case *ir.NewFunction:
			obj := s.Objects.Function(st, chain)
			tgtVP := s.Pointers.Var(st.Target, chain)
			s.pushAddPointsTo(tgtVP, []object.Object{obj})

		case *ir.NewClass:
			obj := s.Objects.Class(st, chain)
			tgtVP := s.Pointers.Var(st.Target, chain)
			thisVP := s.Pointers.Var(st.Block.ThisClass, chain)
			s.pushAddPointsTo(tgtVP, []object.Object{obj})
			s.pushAddPointsTo(thisVP, []object.Object{obj})

			// Persistent-attribute candidates are read lazily off
			// obj.Attributes() by the resolver; no separate seeding
			// table is needed (see DESIGN.md).
			s.Hier.AddClass(obj)

			s.addReachable(st.Block, chain)

		case *ir.NewBuiltin:
			obj := s.Objects.Builtin(st, chain)
			tgtVP := s.Pointers.Var(st.Target, chain)
			s.pushAddPointsTo(tgtVP, []object.Object{obj})
		}
	}
}

// bindStmt is the BIND_STMT handler (§4.2): for statement kinds whose
// outcome depends on an operand's points-to set, record the binding and
// immediately process the operand's current set (so wiring done before
// this statement became reachable isn't missed).
func (s *Solver) bindStmt(stmt ir.Stmt, chain ctx.Chain) {
	switch st := stmt.(type) {
	case *ir.NewClass:
		for i, baseVar := range st.Bases {
			baseVP := s.Pointers.Var(baseVar, chain)
			b := newClassBinding(st, i, chain)
			s.Bindings.BindNewClass(baseVP, b)
			s.processNewClass(b, s.Points.Get(baseVP))
		}

	case *ir.Call:
		calleeVP := s.Pointers.Var(st.Callee, chain)
		b := callBinding(st, chain)
		s.Bindings.BindCall(calleeVP, b)
		s.processCall(b, s.Points.Get(calleeVP))

	case *ir.DelAttr:
		varVP := s.Pointers.Var(st.Var, chain)
		b := delAttrBinding(st, chain)
		s.Bindings.BindDelAttr(varVP, b)
		s.processDelAttr(b, s.Points.Get(varVP))

	case *ir.NewStaticMethod:
		fnVP := s.Pointers.Var(st.Func, chain)
		b := staticMethodBinding(st, chain)
		s.Bindings.BindNewStaticMethod(fnVP, b)
		s.processNewStaticMethod(b, s.Points.Get(fnVP))

	case *ir.NewClassMethod:
		fnVP := s.Pointers.Var(st.Func, chain)
		b := classMethodBinding(st, chain)
		s.Bindings.BindNewClassMethod(fnVP, b)
		s.processNewClassMethod(b, s.Points.Get(fnVP))

	case *ir.NewSuper:
		typeVP := s.Pointers.Var(st.Type, chain)
		bt := superBinding(st, chain, typeDiscriminator)
		s.Bindings.BindNewSuper(typeVP, bt)
		s.processNewSuper(bt, s.Points.Get(typeVP))

		boundVP := s.Pointers.Var(st.Bound, chain)
		bb := superBinding(st, chain, boundDiscriminator)
		s.Bindings.BindNewSuper(boundVP, bb)
		s.processNewSuper(bb, s.Points.Get(boundVP))
	}
}

// addGetEdge is `target <- source.attr` applied to a freshly-discovered
// object set (§4.7): each object kind resolves the read differently.
func (s *Solver) addGetEdge(target, source *ptr.VarPtr, attr string, objs []object.Object) {
	for _, obj := range objs {
		switch o := obj.(type) {
		case *object.Fake:
			fake := s.Objects.DeriveFake(o, source.Var, target.Var, source.Chain, target.Chain, attr)
			s.pushAddPointsTo(target, []object.Object{fake})

		case *object.Class:
			s.resolveIfNeeded(o, attr)
			classAttr := s.Pointers.Attr(o, ptr.ResolvedName(attr))
			s.addFlow(classAttr, target)

		case *object.Instance:
			insAttr := s.Pointers.Attr(o, attr)
			insResAttr := s.Pointers.Attr(o, ptr.ResolvedName(attr))
			s.addFlow(insAttr, target)
			s.addFlow(insResAttr, target)
			s.resolveIfNeeded(o.Type, attr)
			classAttr := s.Pointers.Attr(o.Type, ptr.ResolvedName(attr))
			s.addFlow(classAttr, insResAttr)

		case *object.Super:
			s.resolveIfNeeded(o, attr)
			superAttr := s.Pointers.Attr(o, ptr.ResolvedName(attr))
			s.addFlow(superAttr, target)

		default:
			attrP := s.Pointers.Attr(obj, attr)
			s.addFlow(attrP, target)
		}
	}
}

// addSetEdge is `target.attr <- source` (§4.7): source flows to every
// freshly-discovered target object's attr slot, no resolution involved.
func (s *Solver) addSetEdge(target, source *ptr.VarPtr, attr string, objs []object.Object) {
	for _, obj := range objs {
		attrP := s.Pointers.Attr(obj, attr)
		s.addFlow(source, attrP)
	}
}

func (s *Solver) resolveIfNeeded(obj attrresolveResolver, attr string) {
	s.applyEdges(s.Resolver.ResolveIfNeeded(obj, attr))
}

func (s *Solver) applyEdges(edges []resolveEdge) {
	for _, e := range edges {
		parentAttr := s.Pointers.Attr(e.Parent, e.Attr)
		s.addFlow(parentAttr, e.Target)
	}
}
