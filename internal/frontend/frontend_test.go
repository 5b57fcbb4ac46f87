package frontend

import (
	"context"
	"errors"
	"testing"

	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/resolve"
)

func TestYAMLLoaderBuildsCallableModule(t *testing.T) {
	doc := []byte(`
vars: [x, r]
functions:
  f:
    pos_params: [p]
    stmts:
      - {op: assign, target: $return, source: p}
stmts:
  - {op: newbuiltin, target: x, type: int, value: 7}
  - {op: newfunction, target: r, func: f}
  - {op: call, target: r, callee: r, pos_args: [x]}
`)

	r := resolve.New()
	m, err := YAMLLoader("m", doc)(r)
	if err != nil {
		t.Fatalf("YAMLLoader: %v", err)
	}
	if m.ReadableName() != "m" {
		t.Fatalf("want module named %q, got %q", "m", m.ReadableName())
	}
	if len(m.Stmts()) != 3 {
		t.Fatalf("want 3 lowered statements, got %d", len(m.Stmts()))
	}
}

func TestYAMLLoaderRegistersItselfWithTheResolver(t *testing.T) {
	doc := []byte(`vars: []`)
	r := resolve.New()
	m, err := YAMLLoader("pkg.sub", doc)(r)
	if err != nil {
		t.Fatalf("YAMLLoader: %v", err)
	}
	ref := r.Resolve("pkg.sub", nil, nil, 0)
	if ref.Resolved != m {
		t.Fatalf("want the loaded module registered under its own name")
	}
}

func TestYAMLLoaderRejectsUndeclaredVariable(t *testing.T) {
	doc := []byte(`
vars: [x]
stmts:
  - {op: assign, target: x, source: nope}
`)
	r := resolve.New()
	if _, err := YAMLLoader("m", doc)(r); err == nil {
		t.Fatalf("want an error referencing an undeclared variable")
	}
}

func TestYAMLLoaderBuildsNestedClassAndFunction(t *testing.T) {
	doc := []byte(`
vars: [C]
classes:
  C:
    vars: [v]
    functions:
      m:
        pos_params: [self]
        stmts:
          - {op: setattr, target: self, attr: v, source: self}
    stmts:
      - {op: newfunction, target: v, func: m}
      - {op: setattr, target: $thisClass, attr: m, source: v}
stmts:
  - {op: newclass, target: C, class: C, bases: []}
`)
	r := resolve.New()
	if _, err := YAMLLoader("m", doc)(r); err != nil {
		t.Fatalf("YAMLLoader: %v", err)
	}
}

func TestLoadRunsEveryLoaderAndPreservesOrder(t *testing.T) {
	r := resolve.New()
	docA := []byte(`vars: []`)
	docB := []byte(`vars: []`)

	out, err := Load(context.Background(), r,
		YAMLLoader("a", docA),
		YAMLLoader("b", docB),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out[0].ReadableName() != "a" || out[1].ReadableName() != "b" {
		t.Fatalf("want [a b] in order, got %v", readableNames(out))
	}
}

func TestLoadPropagatesTheFirstLoaderError(t *testing.T) {
	r := resolve.New()
	boom := errors.New("boom")
	bad := func(r *resolve.Resolver) (*ir.ModuleBlock, error) { return nil, boom }

	_, err := Load(context.Background(), r, YAMLLoader("ok", []byte(`vars: []`)), bad)
	if !errors.Is(err, boom) {
		t.Fatalf("want the loader's own error surfaced, got %v", err)
	}
}

func readableNames(ms []*ir.ModuleBlock) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ReadableName()
	}
	return out
}
