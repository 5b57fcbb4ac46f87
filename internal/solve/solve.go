// Package solve implements the worklist-driven fixed-point solver (L8,
// §4.1-§4.12): it owns every mutable structure (points-to store, pointer
// flow graph, binding index, attribute graph, class hierarchy, attribute
// resolver, call graph) and drives them to closure by repeatedly draining
// an event queue of ADD_POINTS_TO and BIND_STMT events, exactly as
// Analysis.py/CSPTA's Analysis.py do. The same code path serves both
// context-insensitive (Selector.K == 0) and context-sensitive runs.
package solve

import (
	"io"

	"golang.org/x/xerrors"

	"github.com/ptalias/ptalias/internal/attrresolve"
	"github.com/ptalias/ptalias/internal/binding"
	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/hierarchy"
	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/object"
	"github.com/ptalias/ptalias/internal/pcallgraph"
	"github.com/ptalias/ptalias/internal/ptr"
	"github.com/ptalias/ptalias/internal/store"
)

// ErrBudgetExceeded is returned by Run/drain when MaxEvents is set and the
// worklist has not reached a fixed point within that budget (a
// supplemented, non-original safety valve for runaway or pathological
// inputs; see DESIGN.md).
var ErrBudgetExceeded = xerrors.New("solve: max event budget exceeded before reaching a fixed point")

type eventKind int

const (
	evAddPointsTo eventKind = iota
	evBindStmt
)

type event struct {
	kind  eventKind
	p     ptr.Pointer
	objs  []object.Object
	stmt  ir.Stmt
	chain ctx.Chain
}

// Solver is the L8 fixed-point engine. Construct with New and drive with
// Run; all other exported methods exist for tests to inspect intermediate
// state.
type Solver struct {
	Objects  *object.Pool
	Pointers *ptr.Pool
	Points   *store.PointsTo
	Flow     *store.Flow
	Attrs    *binding.AttrGraph
	Bindings *binding.Index
	Hier     *hierarchy.Hierarchy
	Resolver *attrresolve.Resolve
	Calls    *pcallgraph.CallGraph

	sel        ctx.Selector
	reachable  map[reachKey]bool
	worklist   []event
	MaxEvents  int // 0 = unbounded
	processed  int
	log        io.Writer
}

type reachKey struct {
	block ir.CodeBlock
	chain string
}

// New creates a solver parameterized by the context-selection policy sel
// (Selector{K:0} for context-insensitive analysis). log, if non-nil,
// receives one human-readable line per object each time an ADD_POINTS_TO
// event is queued; BIND_STMT events are not traced (mirrors the
// teacher's own `-a.log`-style optional trace; see DESIGN.md for why this
// stays on stdlib io.Writer rather than a structured logging library).
func New(sel ctx.Selector, log io.Writer) *Solver {
	objects := object.NewPool()
	pointers := ptr.NewPool()
	points := store.NewPointsTo()
	hier := hierarchy.New(points, pointers, objects)
	return &Solver{
		Objects:   objects,
		Pointers:  pointers,
		Points:    points,
		Flow:      store.NewFlow(),
		Attrs:     binding.NewAttrGraph(),
		Bindings:  binding.NewIndex(),
		Hier:      hier,
		Resolver:  attrresolve.New(hier, pointers, objects),
		Calls:     pcallgraph.New(),
		sel:       sel,
		reachable: map[reachKey]bool{},
		log:       log,
	}
}

// Run seeds every entry module as reachable and drains the worklist to a
// fixed point (§4.1/§4.9's "analyze").
func (s *Solver) Run(entries []*ir.ModuleBlock) error {
	for _, m := range entries {
		obj := s.Objects.Module(m)
		gvp := s.Pointers.Var(m.GlobalVariable, ctx.Empty())
		s.pushAddPointsTo(gvp, []object.Object{obj})
		s.addReachable(m, ctx.Empty())
	}
	return s.drain()
}

func (s *Solver) drain() error {
	for len(s.worklist) > 0 {
		if s.MaxEvents > 0 && s.processed >= s.MaxEvents {
			return xerrors.Errorf("after %d events: %w", s.processed, ErrBudgetExceeded)
		}
		ev := s.worklist[0]
		s.worklist = s.worklist[1:]
		s.processed++
		switch ev.kind {
		case evAddPointsTo:
			s.processAddPointsTo(ev.p, ev.objs)
		case evBindStmt:
			s.bindStmt(ev.stmt, ev.chain)
		}
	}
	return nil
}

// EventsProcessed reports how many worklist events Run has drained so far;
// serial uses it to stamp a Report with the size of the solve that produced
// it.
func (s *Solver) EventsProcessed() int { return s.processed }

func (s *Solver) pushAddPointsTo(p ptr.Pointer, objs []object.Object) {
	if len(objs) == 0 {
		return
	}
	if s.log != nil {
		for _, o := range objs {
			io.WriteString(s.log, "+ "+p.String()+" <- "+o.String()+"\n")
		}
	}
	s.worklist = append(s.worklist, event{kind: evAddPointsTo, p: p, objs: objs})
}

func (s *Solver) pushBindStmt(stmt ir.Stmt, chain ctx.Chain) {
	s.worklist = append(s.worklist, event{kind: evBindStmt, stmt: stmt, chain: chain})
}

// addFlow installs source->target in the pointer-flow graph and, if the
// edge is new, propagates source's current points-to set along it (§4.3).
func (s *Solver) addFlow(source, target ptr.Pointer) {
	if s.Flow.AddEdge(source, target) {
		s.flow(source, target, s.Points.Get(source))
	}
}

// flow applies the resolved-attribute method-binding transform (§4.7.2)
// whenever objs are about to land on a resolved-attribute slot belonging
// to a Class, Instance or Super, then schedules the (possibly rewritten)
// objects onto target.
func (s *Solver) flow(source, target ptr.Pointer, objs []object.Object) {
	newObjs := objs
	if attrP, ok := target.(*ptr.AttrPtr); ok && ptr.Resolved(attrP.Attr) {
		switch o := attrP.Obj.(type) {
		case *object.Class:
			newObjs = s.transformClass(o, objs)
		case *object.Instance:
			newObjs = s.transformInstance(o, objs)
		case *object.Super:
			if ins, ok := o.Bound.(*object.Instance); ok {
				newObjs = s.transformInstance(ins, objs)
			} else if cls, ok := o.Bound.(*object.Class); ok {
				newObjs = s.transformClass(cls, objs)
			}
		}
	}
	s.pushAddPointsTo(target, newObjs)
}

func (s *Solver) transformClass(cls *object.Class, objs []object.Object) []object.Object {
	out := make([]object.Object, 0, len(objs))
	for _, o := range objs {
		switch t := o.(type) {
		case *object.Function:
			out = append(out, s.Objects.ClassMethod(cls, t))
		case *object.ClassMethod:
			out = append(out, s.Objects.ClassMethod(cls, t.Func))
		default:
			out = append(out, o)
		}
	}
	return out
}

func (s *Solver) transformInstance(ins *object.Instance, objs []object.Object) []object.Object {
	out := make([]object.Object, 0, len(objs))
	for _, o := range objs {
		switch t := o.(type) {
		case *object.Function:
			out = append(out, s.Objects.InstanceMethod(ins, t))
		case *object.ClassMethod:
			out = append(out, s.Objects.ClassMethod(ins.Type, t.Func))
		default:
			out = append(out, o)
		}
	}
	return out
}

// processAddPointsTo is the ADD_POINTS_TO handler (§4.1): union delta into
// PT(p), then re-trigger every consumer of p (flow successors, the
// attribute graph, and every statement kind bound to p).
func (s *Solver) processAddPointsTo(p ptr.Pointer, objs []object.Object) {
	delta := s.Points.PutAll(p, objs)
	if len(delta) == 0 {
		return
	}
	for _, succ := range s.Flow.Successors(p) {
		s.flow(p, succ, delta)
	}

	vp, ok := p.(*ptr.VarPtr)
	if !ok {
		return
	}
	for _, gt := range s.Attrs.GetTargets(vp) {
		s.addGetEdge(gt.Target, vp, gt.Attr, delta)
	}
	for _, ss := range s.Attrs.SetSources(vp) {
		s.addSetEdge(vp, ss.Source, ss.Attr, delta)
	}
	for _, b := range s.Bindings.NewClassBindings(vp) {
		s.processNewClass(b, delta)
	}
	for _, b := range s.Bindings.CallBindings(vp) {
		s.processCall(b, delta)
	}
	for _, b := range s.Bindings.DelAttrBindings(vp) {
		s.processDelAttr(b, delta)
	}
	for _, b := range s.Bindings.NewStaticMethodBindings(vp) {
		s.processNewStaticMethod(b, delta)
	}
	for _, b := range s.Bindings.NewClassMethodBindings(vp) {
		s.processNewClassMethod(b, delta)
	}
	for _, b := range s.Bindings.NewSuperBindings(vp) {
		s.processNewSuper(b, delta)
	}
}
