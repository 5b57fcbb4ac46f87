// Package frontend is the thin driver-facing loader that turns a set of
// entry sources into the ir.ModuleBlocks the solver runs over (§6.1). There
// is no parser here (out of scope, per spec.md §1): each entry is supplied
// as a Loader, a caller-provided function that builds one module's IR
// directly (exactly as go/ssa's own tests construct SSA without parsing Go
// source via ssautil). What this package owns is orchestration: loading
// every entry concurrently, the way golang.org/x/tools/go/packages loads
// each requested package's syntax tree concurrently before type-checking
// begins, using golang.org/x/sync/errgroup so a bad entry aborts the whole
// load instead of limping into a partially-built solver input.
package frontend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ptalias/ptalias/internal/ir"
	"github.com/ptalias/ptalias/internal/resolve"
)

// Loader builds one entry module's IR. It is given the shared resolver so
// it can register itself (under its own dotted path, via r.Add) before
// returning, making the module visible to imports lowered by loaders that
// run concurrently alongside it.
type Loader func(r *resolve.Resolver) (*ir.ModuleBlock, error)

// Load runs every loader concurrently and returns the resulting entry
// modules in the same order the loaders were given, or the first error any
// loader returned. Loaders are not given the group's context, so every
// loader already started runs to completion even after another has failed.
func Load(ctx context.Context, r *resolve.Resolver, loaders ...Loader) ([]*ir.ModuleBlock, error) {
	out := make([]*ir.ModuleBlock, len(loaders))
	g, _ := errgroup.WithContext(ctx)
	for i, ld := range loaders {
		i, ld := i, ld
		g.Go(func() error {
			m, err := ld(r)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
