package solve

import (
	"github.com/ptalias/ptalias/internal/binding"
	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/ptr"
)

// processNewClass reacts to new objects flowing into base position index of
// a NewClass statement (§4.2/§4.6): each class-like object becomes a new
// base of the class being allocated, and every MRO that becomes available
// as a result gets every attribute already resolved on its head
// re-resolved along it.
func (s *Solver) processNewClass(b binding.NewClassBinding, objs []object.Object) {
	cls := s.Objects.Class(b.Stmt, b.Chain)
	for _, obj := range objs {
		if obj == object.Object(cls) {
			continue
		}
		for _, mro := range s.Hier.AddClassBase(cls, b.BaseIndex, obj) {
			head, ok := mro[0].(*object.Class)
			if !ok {
				continue
			}
			s.applyEdges(s.Resolver.ReResolveOnMRO(head, mro))
		}
	}
}

// processDelAttr implements §4.12: deleting a class's persistent attr
// forces every outstanding resolution rooted at it to re-resolve starting
// one position further along its MRO.
func (s *Solver) processDelAttr(b binding.DelAttrBinding, objs []object.Object) {
	attr := b.Stmt.Attr
	for _, obj := range objs {
		cls, ok := obj.(*object.Class)
		if !ok {
			continue
		}
		s.applyEdges(s.Resolver.DelAttr(cls, attr))
	}
}

// processNewStaticMethod wraps a freshly-discovered function as a
// StaticMethod, but only inside a class body (§4.10): a staticmethod()
// call elsewhere is meaningless and dropped.
func (s *Solver) processNewStaticMethod(b binding.StaticMethodBinding, objs []object.Object) {
	if _, inClass := b.Stmt.Owner().(*ir.ClassBlock); !inClass {
		return
	}
	target := s.Pointers.Var(b.Stmt.Target, b.Chain)
	var newObjs []object.Object
	for _, obj := range objs {
		if fn, ok := obj.(*object.Function); ok {
			newObjs = append(newObjs, s.Objects.StaticMethod(fn))
		}
	}
	s.pushAddPointsTo(target, newObjs)
}

// processNewClassMethod wraps a freshly-discovered function as a
// ClassMethod bound to whatever class is currently flowing into the
// enclosing class body's $thisClass variable (§4.11, DESIGN.md OQ2: this
// deviates from the upstream implementation, which leaves classmethod()
// permanently unbound; here it is resolved eagerly and consistently with
// staticmethod() and every other class-body binding form).
func (s *Solver) processNewClassMethod(b binding.ClassMethodBinding, objs []object.Object) {
	classBlock, inClass := b.Stmt.Owner().(*ir.ClassBlock)
	if !inClass {
		return
	}
	target := s.Pointers.Var(b.Stmt.Target, b.Chain)
	thisVP := s.Pointers.Var(classBlock.ThisClass, b.Chain)
	var newObjs []object.Object
	for _, obj := range objs {
		fn, ok := obj.(*object.Function)
		if !ok {
			continue
		}
		for _, co := range s.Points.Get(thisVP) {
			if cls, ok := co.(*object.Class); ok {
				newObjs = append(newObjs, s.Objects.ClassMethod(cls, fn))
			}
		}
	}
	s.pushAddPointsTo(target, newObjs)
}

// isSuperBound reports whether obj is a legal super() Bound operand: per
// object.Super's own Bound field doc, only a Class or an Instance may
// occupy it (§4.11).
func isSuperBound(obj object.Object) bool {
	switch obj.(type) {
	case *object.Class, *object.Instance:
		return true
	default:
		return false
	}
}

// processNewSuper reacts on either operand of a NewSuper statement (§4.2):
// a super(Type, Bound) object is only formed once both a class-like Type
// and a Bound have been observed together.
func (s *Solver) processNewSuper(b binding.SuperBinding, objs []object.Object) {
	target := s.Pointers.Var(b.Stmt.Target, b.Chain)
	var newObjs []object.Object
	switch b.Discriminator {
	case binding.SuperType:
		boundVP := s.Pointers.Var(b.Stmt.Bound, b.Chain)
		bounds := s.Points.Get(boundVP)
		for _, obj := range objs {
			cls, ok := obj.(*object.Class)
			if !ok {
				continue
			}
			for _, bound := range bounds {
				if !isSuperBound(bound) {
					continue
				}
				newObjs = append(newObjs, s.Objects.Super(cls, bound))
			}
		}
	case binding.SuperBound:
		typeVP := s.Pointers.Var(b.Stmt.Type, b.Chain)
		types := s.Points.Get(typeVP)
		for _, bound := range objs {
			if !isSuperBound(bound) {
				continue
			}
			for _, obj := range types {
				cls, ok := obj.(*object.Class)
				if !ok {
					continue
				}
				newObjs = append(newObjs, s.Objects.Super(cls, bound))
			}
		}
	}
	s.pushAddPointsTo(target, newObjs)
}

// processCall dispatches a Call statement's callee objects to the right
// invocation path (§4.8): plain functions, bound class/instance methods,
// static methods, and class instantiation each bind arguments and wire the
// return value differently.
func (s *Solver) processCall(b binding.CallBinding, objs []object.Object) {
	target := s.Pointers.Var(b.Stmt.Target, b.Chain)
	var newObjs []object.Object
	for _, obj := range objs {
		switch o := obj.(type) {
		case *object.Function:
			s.callFunction(o, b.Stmt, b.Chain, nil)
		case *object.StaticMethod:
			s.callFunction(o.Func, b.Stmt, b.Chain, nil)
		case *object.ClassMethod:
			s.callFunction(o.Func, b.Stmt, b.Chain, o.Class)
		case *object.InstanceMethod:
			s.callFunction(o.Func, b.Stmt, b.Chain, o.Self)
		case *object.Class:
			newObjs = append(newObjs, s.instantiate(o, b.Stmt, b.Chain))
		}
	}
	s.pushAddPointsTo(target, newObjs)
}

// callFunction binds stmt's arguments against fn's parameters and wires its
// return value back to stmt's target (§4.8.1). self, if non-nil, is bound
// to fn's first positional parameter and is not itself counted against the
// call's own argument list (bound-method call); fn with no parameters at
// all in that case is not a usable method and the call is simply dropped,
// matching the upstream solver's behavior for malformed methods.
func (s *Solver) callFunction(fn *object.Function, stmt *ir.Call, callerChain ctx.Chain, self object.Object) {
	calleeChain := s.calleeChain(fn, stmt, callerChain, self)
	block := fn.Block()

	posParams := block.PosParams
	if self != nil {
		if len(posParams) == 0 {
			return
		}
		selfVP := s.Pointers.Var(posParams[0], calleeChain)
		s.pushAddPointsTo(selfVP, []object.Object{self})
		posParams = posParams[1:]
	}

	posArgs := varPtrs(s.Pointers, stmt.PosArgs, callerChain)
	kwArgs := varPtrMap(s.Pointers, stmt.KwArgs, callerChain)
	posParamPtrs := varPtrs(s.Pointers, posParams, calleeChain)
	kwParamPtrs := varPtrMap(s.Pointers, block.KwParams, calleeChain)

	var varParamPtr, kwParamPtr *ptr.VarPtr
	if block.VarParam != nil {
		varParamPtr = s.Pointers.Var(block.VarParam, calleeChain)
	}
	if block.KwParam != nil {
		kwParamPtr = s.Pointers.Var(block.KwParam, calleeChain)
	}

	s.matchArgParam(posArgs, kwArgs, posParamPtrs, kwParamPtrs, varParamPtr, kwParamPtr)

	retVP := s.Pointers.Var(block.ReturnVar, calleeChain)
	resVP := s.Pointers.Var(stmt.Target, callerChain)
	s.addFlow(retVP, resVP)

	s.addReachable(block, calleeChain)
	s.Calls.AddEdge(stmt, block)
}

// matchArgParam wires each positional/keyword argument to its matching
// parameter, falling back to *args/**kwargs when present and simply
// discarding unmatched arguments otherwise (§4.8.1).
func (s *Solver) matchArgParam(posArgs []*ptr.VarPtr, kwArgs map[string]*ptr.VarPtr, posParams []*ptr.VarPtr, kwParams map[string]*ptr.VarPtr, varParam, kwParam *ptr.VarPtr) {
	for i, a := range posArgs {
		switch {
		case i < len(posParams):
			s.addFlow(a, posParams[i])
		case varParam != nil:
			s.addFlow(a, varParam)
		}
	}
	for kw, a := range kwArgs {
		if p, ok := kwParams[kw]; ok {
			s.addFlow(a, p)
		} else if kwParam != nil {
			s.addFlow(a, kwParam)
		}
	}
}

func varPtrs(pp *ptr.Pool, vars []*ir.Variable, chain ctx.Chain) []*ptr.VarPtr {
	out := make([]*ptr.VarPtr, len(vars))
	for i, v := range vars {
		out[i] = pp.Var(v, chain)
	}
	return out
}

func varPtrMap(pp *ptr.Pool, vars map[string]*ir.Variable, chain ctx.Chain) map[string]*ptr.VarPtr {
	out := make(map[string]*ptr.VarPtr, len(vars))
	for kw, v := range vars {
		out[kw] = pp.Var(v, chain)
	}
	return out
}

// calleeChain computes the chain to execute fn's body under (§6.5's mixed
// selector): object-sensitive on self's own allocation context when a
// receiver is known (bound method call), call-site-sensitive otherwise.
func (s *Solver) calleeChain(fn *object.Function, stmt *ir.Call, callerChain ctx.Chain, self object.Object) ctx.Chain {
	var selfChain ctx.Chain
	var selfSite *ir.Call
	hasSelf := self != nil
	if hasSelf {
		switch t := self.(type) {
		case *object.Instance:
			selfChain, selfSite = t.Chain, t.Site
		case *object.Class:
			selfChain = t.Chain
		}
	}
	c := s.sel.Mixed(callerChain, stmt, selfChain, selfSite, hasSelf)
	return ctx.Extend(fn.Chain, fn.Block().ScopeLevel(), c)
}

// instantiate implements `obj = Class(...)` (§4.9): allocate (or, in
// context-insensitive mode, reuse the class itself as, per DESIGN.md's
// OQ1) the receiver object, flow the class's resolved __init__ to it, and
// synthesize + bind the implicit constructor call.
func (s *Solver) instantiate(cls *object.Class, stmt *ir.Call, callerChain ctx.Chain) object.Object {
	var self object.Object
	if s.sel.K == 0 {
		self = cls
	} else {
		instCtx := s.sel.CallSite(callerChain, stmt)
		instChain := ctx.Extend(callerChain, len(callerChain)+1, instCtx)
		self = s.Objects.Instance(stmt, instChain, cls)
	}

	classAttr := s.Pointers.Attr(cls, ptr.ResolvedName("__init__"))
	selfAttr := s.Pointers.Attr(self, ptr.ResolvedName("__init__"))
	s.addFlow(classAttr, selfAttr)
	s.resolveIfNeeded(cls, "__init__")

	initVar := ir.NewTemp(stmt.Owner())
	initVP := s.Pointers.Var(initVar, callerChain)
	s.addFlow(selfAttr, initVP)

	dummyTarget := ir.NewTemp(stmt.Owner())
	initCall := ir.NewCall(stmt.Owner(), dummyTarget, initVar, stmt.PosArgs, stmt.KwArgs)
	s.pushBindStmt(initCall, callerChain)

	return self
}
