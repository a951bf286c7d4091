package graph

import "fmt"

// AutomatonKind is Or (exclusive alternatives) or And (concurrent regions).
type AutomatonKind int

const (
	AutomatonOr AutomatonKind = iota
	AutomatonAnd
)

func (k AutomatonKind) String() string {
	if k == AutomatonAnd {
		return "AND"
	}
	return "OR"
}

// AutomatonVertex is a node of an object's AND/OR automaton.
//
// IDs are dense per model and give the canonical ordering used for sorted
// variable sets during decision compilation.
type AutomatonVertex struct {
	ID      int
	Kind    AutomatonKind
	Context *Vertex

	parent   *AutomatonVertex
	children []*AutomatonVertex
}

func (a *AutomatonVertex) Parent() *AutomatonVertex     { return a.parent }
func (a *AutomatonVertex) Children() []*AutomatonVertex { return a.children }
func (a *AutomatonVertex) IsLeaf() bool                 { return len(a.children) == 0 }

// TestAncestor returns the variable that must be tested to know whether this
// vertex is active: the nearest vertex, starting at a itself, whose parent is
// an Or. The automaton root has none.
func (a *AutomatonVertex) TestAncestor() (*AutomatonVertex, bool) {
	for it := a; it.parent != nil; it = it.parent {
		if it.parent.Kind == AutomatonOr {
			return it, true
		}
	}
	return nil, false
}

// Siblings returns the mutually exclusive alternatives of a: the other
// children of an Or parent. Children of an And have no siblings.
func (a *AutomatonVertex) Siblings() []*AutomatonVertex {
	if a.parent == nil || a.parent.Kind != AutomatonOr {
		return nil
	}
	siblings := make([]*AutomatonVertex, 0, len(a.parent.children)-1)
	for _, c := range a.parent.children {
		if c != a {
			siblings = append(siblings, c)
		}
	}
	return siblings
}

func (a *AutomatonVertex) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Context.FullName()
}

// GoString includes the kind and ID, for test failure output.
func (a *AutomatonVertex) GoString() string {
	return fmt.Sprintf("%s#%d(%s)", a.Kind, a.ID, a.Context.FullName())
}
