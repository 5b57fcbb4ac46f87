package resolve

import (
	"testing"

	"github.com/ptalias/ptalias/internal/ir"
)

func TestResolveFindsRegisteredModule(t *testing.T) {
	m := ir.NewModuleBlock("pkg.sub", false)
	r := New()
	r.Add("pkg.sub", m)

	ref := r.Resolve("pkg.sub", nil, nil, 0)
	if ref.Resolved != m {
		t.Fatalf("want the registered block back, got %+v", ref)
	}
}

func TestResolveReportsUnresolvedPathAsString(t *testing.T) {
	r := New()
	ref := r.Resolve("pkg.missing", nil, nil, 0)
	if ref.Resolved != nil {
		t.Fatalf("want no resolved block, got %+v", ref.Resolved)
	}
	if ref.Unresolved != "pkg.missing" {
		t.Fatalf("want the unresolved path preserved, got %q", ref.Unresolved)
	}
}

func TestResolveHandlesRelativeImport(t *testing.T) {
	caller := ir.NewModuleBlock("pkg.sub.mod", false)
	sibling := ir.NewModuleBlock("pkg.sub.other", false)

	r := New()
	r.Add("pkg.sub.mod", caller)
	r.Add("pkg.sub.other", sibling)

	// `from . import other` inside pkg.sub.mod: one leading dot strips the
	// importing module's own last component before appending the tail.
	ref := r.Resolve("other", caller, nil, 1)
	if ref.Resolved != sibling {
		t.Fatalf("want the relative import to resolve to the sibling module, got %+v", ref)
	}
}

func TestResolveHandlesBarePackageRelativeImport(t *testing.T) {
	caller := ir.NewModuleBlock("pkg.sub", false)
	pkg := ir.NewModuleBlock("pkg", false)

	r := New()
	r.Add("pkg.sub", caller)
	r.Add("pkg", pkg)

	// `from . import *` with an empty tail resolves to the stripped base
	// itself.
	ref := r.Resolve("", caller, nil, 1)
	if ref.Resolved != pkg {
		t.Fatalf("want the empty-tail relative import to resolve to the base package, got %+v", ref)
	}
}

func TestAddRejectsMalformedPath(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("want Add to panic on an invalid module path")
		}
	}()
	r := New()
	r.Add("..bad..path", ir.NewModuleBlock("bad", false))
}
