// Package resolve implements the module resolver contract (§6.2): a
// callable with the signature resolve(module-ref, caller, fromlist, level)
// -> ModuleCodeBlock | string. The frontend invokes it while lowering
// `import`/`from ... import` statements into ir.NewModule statements; the
// solver itself never calls it.
//
// Grounded on golang.org/x/tools/go/packages' own load-then-register
// pattern (a package is either found in an already-built index or reported
// back as an unresolved import path), simplified to a synchronous registry
// since a dotted module namespace has no build-system variants to drive.
package resolve

import (
	"strings"
	"sync"

	"golang.org/x/mod/module"

	"github.com/ptalias/ptalias/internal/ir"
)

// Resolver holds every module code block known to the analysis, indexed by
// its dotted path (e.g. "pkg.sub.mod"), and resolves import statements
// against it. Add and Resolve are safe for concurrent use: internal/frontend
// loads entry modules concurrently and each may register itself mid-load.
type Resolver struct {
	mu      sync.Mutex
	modules map[string]*ir.ModuleBlock
}

// New creates an empty resolver. Register modules with Add before calling
// Resolve.
func New() *Resolver {
	return &Resolver{modules: map[string]*ir.ModuleBlock{}}
}

// Add registers a module block under its dotted path, validating the path
// the way a real build system would reject a malformed import (converting
// dots to slashes so golang.org/x/mod/module's slash-delimited checker
// applies; a dotted module path has no other structural constraint of its
// own). Add panics on a malformed path: a frontend that registers modules
// under invalid names is a programmer error, not a resolution failure.
func (r *Resolver) Add(path string, m *ir.ModuleBlock) {
	if err := module.CheckImportPath(toSlashPath(path)); err != nil {
		panic("resolve: invalid module path " + path + ": " + err.Error())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[path] = m
}

func toSlashPath(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

// Resolve implements §6.2: path is the (already dotted-joined) module-ref
// named at the import site, caller is the importing module (used only to
// resolve relative imports when level > 0), fromlist is the names imported
// via `from path import fromlist...` (currently unused beyond presence —
// per-name submodule resolution is a frontend concern, not this package's),
// and level is the number of leading dots on a relative import (0 = absolute).
//
// A resolved module yields a ModuleRef wrapping its ModuleBlock; an
// unresolved one yields a ModuleRef carrying the dotted path as a plain
// string, which the solver turns into a cut-point object.Fake (§4.6).
func (r *Resolver) Resolve(path string, caller *ir.ModuleBlock, fromlist []string, level int) ir.ModuleRef {
	full := path
	if level > 0 && caller != nil {
		full = relativeJoin(caller.ReadableName(), path, level)
	}
	r.mu.Lock()
	m, ok := r.modules[full]
	r.mu.Unlock()
	if ok {
		return ir.ModuleRef{Resolved: m}
	}
	return ir.ModuleRef{Unresolved: full}
}

// relativeJoin resolves a `from ...pkg import x`-style relative reference:
// level leading dots strip that many trailing components off callerPkg
// before appending tail (an empty tail is legal: `from . import x`).
func relativeJoin(callerPkg, tail string, level int) string {
	parts := strings.Split(callerPkg, ".")
	if level > len(parts) {
		level = len(parts)
	}
	base := parts[:len(parts)-level]
	if tail == "" {
		return strings.Join(base, ".")
	}
	return strings.Join(append(base, tail), ".")
}
