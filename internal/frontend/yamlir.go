package frontend

import (
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/resolve"
)

// ModuleSpec, ClassSpec and FunctionSpec are a declarative, YAML-decodable
// stand-in for the real frontend this repo deliberately omits (§6.1): since
// parsing a dynamic scripting language's surface syntax is out of scope,
// entry programs are instead written directly against the IR's own shape,
// one statement per list entry, and turned into ir.*Block values by
// YAMLLoader and buildClasses/buildFunctions below. This plays the same role a
// fixture-driven `ssautil`/direct-construction test does in go/ssa's own
// test suite, just reachable from a config file instead of only from Go
// source.
type ModuleSpec struct {
	Vars      []string                `yaml:"vars"`
	Stmts     []StmtSpec               `yaml:"stmts"`
	Classes   map[string]ClassSpec     `yaml:"classes"`
	Functions map[string]FunctionSpec  `yaml:"functions"`
}

type ClassSpec struct {
	Vars      []string                `yaml:"vars"`
	Stmts     []StmtSpec               `yaml:"stmts"`
	Classes   map[string]ClassSpec     `yaml:"classes"`
	Functions map[string]FunctionSpec  `yaml:"functions"`
}

type FunctionSpec struct {
	PosParams []string                `yaml:"pos_params"`
	KwParams  []string                `yaml:"kw_params"`
	VarParam  string                  `yaml:"var_param"`
	KwParam   string                  `yaml:"kw_param"`
	Locals    []string                `yaml:"locals"`
	Stmts     []StmtSpec               `yaml:"stmts"`
	Classes   map[string]ClassSpec     `yaml:"classes"`
	Functions map[string]FunctionSpec  `yaml:"functions"`
}

// StmtSpec is a tagged union over every ir.Stmt constructor, discriminated
// by Op. Variable-valued fields name a variable visible in the current
// block's scope chain (own params/locals, or an enclosing block's, for a
// closure read); Func/Class name a sibling Functions/Classes entry, except
// for newstaticmethod/newclassmethod, where Func names a variable.
type StmtSpec struct {
	Op       string            `yaml:"op"`
	Target   string            `yaml:"target"`
	Source   string            `yaml:"source"`
	Attr     string            `yaml:"attr"`
	Callee   string            `yaml:"callee"`
	PosArgs  []string          `yaml:"pos_args"`
	KwArgs   map[string]string `yaml:"kw_args"`
	Func     string            `yaml:"func"`
	Class    string            `yaml:"class"`
	Bases    []string          `yaml:"bases"`
	Type     string            `yaml:"type"`
	Value    any               `yaml:"value"`
	Module   string            `yaml:"module"`
	Unresolved bool            `yaml:"unresolved"`
	SuperType  string          `yaml:"super_type"`
	SuperBound string          `yaml:"super_bound"`
}

// scope is one link in a block's lexical lookup chain: innermost first.
type scope struct {
	vars   map[string]*ir.Variable
	parent *scope
}

func (s *scope) lookup(name string) (*ir.Variable, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, nil
		}
	}
	return nil, xerrors.Errorf("frontend: undeclared variable %q", name)
}

// YAMLLoader parses a YAML document (in ModuleSpec's shape) under name and
// returns a Loader suitable for frontend.Load. This is the concrete
// Loader this package supplies out of the box; a caller with a real parser
// is free to write its own Loader instead.
func YAMLLoader(name string, doc []byte) Loader {
	return func(r *resolve.Resolver) (*ir.ModuleBlock, error) {
		var spec ModuleSpec
		if err := yaml.Unmarshal(doc, &spec); err != nil {
			return nil, xerrors.Errorf("frontend: parsing %s: %w", name, err)
		}
		m := ir.NewModuleBlock(name, false)
		sc := &scope{vars: map[string]*ir.Variable{"$global": m.GlobalVariable}}
		for _, v := range spec.Vars {
			sc.vars[v] = m.AddLocal(v)
		}
		classes, err := buildClasses(m, sc, spec.Classes, r)
		if err != nil {
			return nil, err
		}
		funcs, err := buildFunctions(m, sc, spec.Functions, r)
		if err != nil {
			return nil, err
		}
		if err := buildStmts(m, sc, spec.Stmts, classes, funcs, r); err != nil {
			return nil, err
		}
		r.Add(name, m)
		return m, nil
	}
}

func buildClasses(owner ir.CodeBlock, parent *scope, specs map[string]ClassSpec, r *resolve.Resolver) (map[string]*ir.ClassBlock, error) {
	out := map[string]*ir.ClassBlock{}
	for name, spec := range specs {
		cb := ir.NewClassBlock(name, owner, name, false)
		sc := &scope{vars: map[string]*ir.Variable{"$thisClass": cb.ThisClass}, parent: parent}
		for _, v := range spec.Vars {
			sc.vars[v] = cb.AddLocal(v)
		}
		nestedClasses, err := buildClasses(cb, sc, spec.Classes, r)
		if err != nil {
			return nil, err
		}
		nestedFuncs, err := buildFunctions(cb, sc, spec.Functions, r)
		if err != nil {
			return nil, err
		}
		if err := buildStmts(cb, sc, spec.Stmts, nestedClasses, nestedFuncs, r); err != nil {
			return nil, err
		}
		out[name] = cb
	}
	return out, nil
}

func buildFunctions(owner ir.CodeBlock, parent *scope, specs map[string]FunctionSpec, r *resolve.Resolver) (map[string]*ir.FunctionBlock, error) {
	out := map[string]*ir.FunctionBlock{}
	for name, spec := range specs {
		fb := ir.NewFunctionBlock(name, owner, name, false)
		sc := &scope{vars: map[string]*ir.Variable{"$return": fb.ReturnVar}, parent: parent}
		for _, p := range spec.PosParams {
			sc.vars[p] = fb.AddPosParam(p)
		}
		for _, kw := range spec.KwParams {
			sc.vars[kw] = fb.AddKwParam(kw)
		}
		if spec.VarParam != "" {
			sc.vars[spec.VarParam] = fb.SetVarParam(spec.VarParam)
		}
		if spec.KwParam != "" {
			sc.vars[spec.KwParam] = fb.SetKwParam(spec.KwParam)
		}
		for _, l := range spec.Locals {
			sc.vars[l] = fb.AddLocal(l)
		}
		nestedClasses, err := buildClasses(fb, sc, spec.Classes, r)
		if err != nil {
			return nil, err
		}
		nestedFuncs, err := buildFunctions(fb, sc, spec.Functions, r)
		if err != nil {
			return nil, err
		}
		if err := buildStmts(fb, sc, spec.Stmts, nestedClasses, nestedFuncs, r); err != nil {
			return nil, err
		}
		out[name] = fb
	}
	return out, nil
}

func buildStmts(owner ir.CodeBlock, sc *scope, specs []StmtSpec, classes map[string]*ir.ClassBlock, funcs map[string]*ir.FunctionBlock, r *resolve.Resolver) error {
	for _, s := range specs {
		if err := buildStmt(owner, sc, s, classes, funcs, r); err != nil {
			return err
		}
	}
	return nil
}

func buildStmt(owner ir.CodeBlock, sc *scope, s StmtSpec, classes map[string]*ir.ClassBlock, funcs map[string]*ir.FunctionBlock, r *resolve.Resolver) error {
	v := func(name string) (*ir.Variable, error) { return sc.lookup(name) }
	vs := func(names []string) ([]*ir.Variable, error) {
		out := make([]*ir.Variable, len(names))
		for i, n := range names {
			vv, err := v(n)
			if err != nil {
				return nil, err
			}
			out[i] = vv
		}
		return out, nil
	}
	vm := func(m map[string]string) (map[string]*ir.Variable, error) {
		out := make(map[string]*ir.Variable, len(m))
		for k, n := range m {
			vv, err := v(n)
			if err != nil {
				return nil, err
			}
			out[k] = vv
		}
		return out, nil
	}

	switch s.Op {
	case "assign":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		src, err := v(s.Source)
		if err != nil {
			return err
		}
		ir.NewAssign(owner, tgt, src)

	case "getattr":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		src, err := v(s.Source)
		if err != nil {
			return err
		}
		ir.NewGetAttr(owner, tgt, src, s.Attr)

	case "setattr":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		src, err := v(s.Source)
		if err != nil {
			return err
		}
		ir.NewSetAttr(owner, tgt, s.Attr, src)

	case "delattr":
		vv, err := v(s.Target)
		if err != nil {
			return err
		}
		ir.NewDelAttr(owner, vv, s.Attr)

	case "call":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		callee, err := v(s.Callee)
		if err != nil {
			return err
		}
		pos, err := vs(s.PosArgs)
		if err != nil {
			return err
		}
		kw, err := vm(s.KwArgs)
		if err != nil {
			return err
		}
		ir.NewCall(owner, tgt, callee, pos, kw)

	case "newfunction":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		fb, ok := funcs[s.Func]
		if !ok {
			return xerrors.Errorf("frontend: undeclared function %q", s.Func)
		}
		ir.NewNewFunction(owner, tgt, fb)

	case "newclass":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		cb, ok := classes[s.Class]
		if !ok {
			return xerrors.Errorf("frontend: undeclared class %q", s.Class)
		}
		bases, err := vs(s.Bases)
		if err != nil {
			return err
		}
		ir.NewNewClass(owner, tgt, cb, bases)

	case "newbuiltin":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		ir.NewNewBuiltin(owner, tgt, s.Type, s.Value)

	case "newstaticmethod":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		fn, err := v(s.Func)
		if err != nil {
			return err
		}
		ir.NewNewStaticMethod(owner, tgt, fn)

	case "newclassmethod":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		fn, err := v(s.Func)
		if err != nil {
			return err
		}
		ir.NewNewClassMethod(owner, tgt, fn)

	case "newsuper":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		var typ, bound *ir.Variable
		if s.SuperType != "" {
			if typ, err = v(s.SuperType); err != nil {
				return err
			}
		}
		if s.SuperBound != "" {
			if bound, err = v(s.SuperBound); err != nil {
				return err
			}
		}
		ir.NewNewSuper(owner, tgt, typ, bound)

	case "newmodule":
		tgt, err := v(s.Target)
		if err != nil {
			return err
		}
		if s.Unresolved || r == nil {
			ir.NewNewModule(owner, tgt, ir.ModuleRef{Unresolved: s.Module})
			return nil
		}
		ir.NewNewModule(owner, tgt, r.Resolve(s.Module, nil, nil, 0))

	default:
		return xerrors.Errorf("frontend: unknown statement op %q", s.Op)
	}
	return nil
}
