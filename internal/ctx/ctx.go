// Package ctx implements the k-limited context chains of §6.5: context
// elements (call-site identities), contexts (tuples of at most K elements)
// and context chains (one context per enclosing scope level), plus the
// mixed call-site/object context selector.
//
// The context-insensitive solver uses K=0, under which every Context is
// empty (a Chain holds only empty Contexts) and this package degenerates to the "empty singleton
// type" the design notes call for (§9, "context-sensitivity as a
// decoration") without a second code path.
package ctx

import (
	"strconv"
	"strings"

	"github.com/ptalias/ptalias/internal/ir"
)

// Element is the identity of a Call IR statement used as one slot of a
// Context, or the empty element for an unfilled slot.
type Element struct {
	blockID string
	seq     int
	empty   bool
}

func elementOf(call *ir.Call) Element {
	if call == nil {
		return Element{empty: true}
	}
	return Element{blockID: call.Owner().ID(), seq: call.SeqID()}
}

func (e Element) String() string {
	if e.empty {
		return "_"
	}
	return e.blockID + "#" + strconv.Itoa(e.seq)
}

// Context is a tuple of at most K ContextElements, newest last.
type Context []Element

func (c Context) key() string {
	parts := make([]string, len(c))
	for i, e := range c {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

func (c Context) String() string { return "(" + c.key() + ")" }

// Chain is a tuple of Contexts, one per enclosing scope level; its length
// equals the scope level of the code block it was built for.
type Chain []Context

// Key returns a stable, comparable string encoding suitable as (part of) a
// map key; Chain itself is a slice and not comparable.
func (ch Chain) Key() string {
	parts := make([]string, len(ch))
	for i, c := range ch {
		parts[i] = c.key()
	}
	return strings.Join(parts, "|")
}

func (ch Chain) String() string {
	parts := make([]string, len(ch))
	for i, c := range ch {
		parts[i] = c.String()
	}
	return strings.Join(parts, "")
}

// Prefix returns the first level contexts of ch (§6.5: VarPtrs and objects
// are keyed by ctx[:var.belongsTo.scopeLevel]).
func (ch Chain) Prefix(level int) Chain {
	if level >= len(ch) {
		return ch
	}
	if level <= 0 {
		return nil
	}
	return ch[:level]
}

// Empty is the context-insensitive chain (and the chain at the outermost
// module scope in context-sensitive mode).
func Empty() Chain { return nil }

// Selector implements the k-limited mixed context-selection heuristic.
type Selector struct {
	K int // 0 means context-insensitive
}

func (s Selector) emptyContext() Context {
	return make(Context, s.K)
}

func (s Selector) tail(chain Chain) Context {
	if len(chain) == 0 {
		return s.emptyContext()
	}
	return chain[len(chain)-1]
}

// shift drops the oldest element of tail and appends e, keeping length K.
func (s Selector) shift(tail Context, e Element) Context {
	if s.K == 0 {
		return Context{}
	}
	next := make(Context, 0, s.K)
	if len(tail) > 1 {
		next = append(next, tail[len(tail)-(s.K-1):]...)
	}
	next = append(next, e)
	return next
}

// CallSite computes a call-site-sensitive Context: the caller's own
// (shifted) context with the call site appended.
func (s Selector) CallSite(callerChain Chain, call *ir.Call) Context {
	return s.shift(s.tail(callerChain), elementOf(call))
}

// Object computes an object-sensitive Context from the receiver's own chain
// and allocation site: the receiver's (shifted) context with its allocation
// site appended.
func (s Selector) Object(selfChain Chain, allocSite *ir.Call) Context {
	return s.shift(s.tail(selfChain), elementOf(allocSite))
}

// Mixed is the §6.5 selector: object context at a method call site (self
// known), call-site context otherwise.
func (s Selector) Mixed(callerChain Chain, call *ir.Call, selfChain Chain, selfAllocSite *ir.Call, hasSelf bool) Context {
	if hasSelf {
		return s.Object(selfChain, selfAllocSite)
	}
	return s.CallSite(callerChain, call)
}

// Extend returns the chain to use while executing inside a code block whose
// scope level is scopeLevel, given the chain active at the call/allocation
// site (callerChain) and the freshly selected Context c for this new
// level. Shallower levels are inherited from callerChain; if callerChain is
// shorter than scopeLevel-1 (e.g. the call crosses into an unrelated lexical
// branch) the gap is padded with empty contexts.
func Extend(callerChain Chain, scopeLevel int, c Context) Chain {
	if scopeLevel <= 0 {
		return nil
	}
	next := make(Chain, scopeLevel)
	for i := 0; i < scopeLevel-1; i++ {
		if i < len(callerChain) {
			next[i] = callerChain[i]
		}
	}
	next[scopeLevel-1] = c
	return next
}
