package binding

import "github.com/ptalias/ptalias/internal/ptr"

// GetTarget is one (target, attr) pair recorded against a GetAttr's source
// pointer.
type GetTarget struct {
	Target *ptr.VarPtr
	Attr   string
}

// SetSource is one (source, attr) pair recorded against a SetAttr's target
// pointer.
type SetSource struct {
	Source *ptr.VarPtr
	Attr   string
}

// AttrGraph is the reverse index from a VarPtr to the statements whose
// outcome depends on it (L5, §3.4): GetAttr keyed by its source, SetAttr
// keyed by its target.
type AttrGraph struct {
	gets map[*ptr.VarPtr][]GetTarget
	sets map[*ptr.VarPtr][]SetSource
}

func NewAttrGraph() *AttrGraph {
	return &AttrGraph{gets: map[*ptr.VarPtr][]GetTarget{}, sets: map[*ptr.VarPtr][]SetSource{}}
}

// PutGet records `target <- source.attr`.
func (g *AttrGraph) PutGet(source, target *ptr.VarPtr, attr string) {
	g.gets[source] = append(g.gets[source], GetTarget{Target: target, Attr: attr})
}

// GetTargets returns the GetTargets recorded against source.
func (g *AttrGraph) GetTargets(source *ptr.VarPtr) []GetTarget { return g.gets[source] }

// PutSet records `target.attr <- source`.
func (g *AttrGraph) PutSet(target, source *ptr.VarPtr, attr string) {
	g.sets[target] = append(g.sets[target], SetSource{Source: source, Attr: attr})
}

// SetSources returns the SetSources recorded against target.
func (g *AttrGraph) SetSources(target *ptr.VarPtr) []SetSource { return g.sets[target] }
