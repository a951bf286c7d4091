package decision

import (
	"sort"

	"github.com/roach88/megac/internal/graph"
)

// VariableOrdering is a sequence of variable groups together with an
// order-independent view used to compare signatures.
type VariableOrdering struct {
	// Variables holds the groups in their original order.
	Variables [][]*graph.AutomatonVertex

	sorted    [][]*graph.AutomatonVertex
	sortedPos []int
}

// NewVariableOrdering indexes groups.
func NewVariableOrdering(groups [][]*graph.AutomatonVertex) VariableOrdering {
	o := VariableOrdering{Variables: groups}
	o.sorted = make([][]*graph.AutomatonVertex, len(groups))
	o.sortedPos = make([]int, len(groups))
	for i, g := range groups {
		o.sorted[i] = sortedCopy(g)
		o.sortedPos[i] = i
	}
	sort.SliceStable(o.sortedPos, func(i, j int) bool {
		return compareGroups(o.sorted[o.sortedPos[i]], o.sorted[o.sortedPos[j]]) < 0
	})
	sorted := make([][]*graph.AutomatonVertex, len(groups))
	for i, pos := range o.sortedPos {
		sorted[i] = o.sorted[pos]
	}
	o.sorted = sorted
	return o
}

// singletonOrdering makes one group per variable.
func singletonOrdering(vars []*graph.AutomatonVertex) VariableOrdering {
	groups := make([][]*graph.AutomatonVertex, len(vars))
	for i, v := range vars {
		groups[i] = []*graph.AutomatonVertex{v}
	}
	return NewVariableOrdering(groups)
}

// Len returns the number of groups.
func (o VariableOrdering) Len() int { return len(o.Variables) }

// Match reports whether both orderings hold the same groups, in any order.
func (o VariableOrdering) Match(other VariableOrdering) bool {
	if len(o.sorted) != len(other.sorted) {
		return false
	}
	for i := range o.sorted {
		if compareGroups(o.sorted[i], other.sorted[i]) != 0 {
			return false
		}
	}
	return true
}

func compareGroups(a, b []*graph.AutomatonVertex) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].ID != b[i].ID {
			if a[i].ID < b[i].ID {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// DeciderInfo is a decider and the variable signature of its events.
type DeciderInfo struct {
	Decider   *graph.Vertex
	Variables VariableOrdering
}

// Match compares the decider signature against cmp. On a match it returns
// the ordering that maps each decider event position to the position of
// the same group in cmp.
func (d DeciderInfo) Match(cmp VariableOrdering) ([]int, bool) {
	if !d.Variables.Match(cmp) {
		return nil, false
	}
	ordering := make([]int, d.Variables.Len())
	for i, deciderPos := range d.Variables.sortedPos {
		ordering[deciderPos] = cmp.sortedPos[i]
	}
	return ordering, true
}

// Decider is a decider context with its solved event derivations.
type Decider struct {
	Context *graph.Vertex
	Events  []Derivation
}

// DeciderSelector finds the decider that resolves a set of variables.
type DeciderSelector struct {
	context  *graph.Vertex
	deciders []DeciderInfo
}

// NewDeciderSelector computes the signature of every decider. context is
// the transition context named in resolution errors.
func NewDeciderSelector(context *graph.Vertex, deciders []Decider) (*DeciderSelector, error) {
	s := &DeciderSelector{context: context}
	for _, d := range deciders {
		states, err := CollectDerivationStates(d.Context, d.Events)
		if err != nil {
			return nil, err
		}
		vars := StatesToUniqueVariables(states)
		s.deciders = append(s.deciders, DeciderInfo{Decider: d.Context, Variables: NewVariableOrdering(vars)})
	}
	return s, nil
}

// Deciders returns the indexed deciders in declaration order.
func (s *DeciderSelector) Deciders() []DeciderInfo { return s.deciders }

// ChooseTransitionDecider selects the decider for the top-level choice
// between transition groups. A single group needs no decider and gets the
// ordering [0].
func (s *DeciderSelector) ChooseTransitionDecider(groups [][]*graph.AutomatonVertex) (*graph.Vertex, []int, error) {
	if len(groups) == 1 {
		return nil, []int{0}, nil
	}
	want := NewVariableOrdering(groups)
	for _, d := range s.deciders {
		if ordering, ok := d.Match(want); ok {
			return d.Decider, ordering, nil
		}
	}
	return nil, nil, newError(ErrCodeDeciderResolution, s.context,
		"Failed to resolve decider for non singular transition: %s", s.context.FullName())
}

// ChooseDecider selects the first decider whose signature matches the
// leading variables of remainingSorted, taking as many as the decider has
// events. Deciders without variables never match.
func (s *DeciderSelector) ChooseDecider(remainingSorted []*graph.AutomatonVertex) (*graph.Vertex, []int, error) {
	for _, d := range s.deciders {
		size := d.Variables.Len()
		if size == 0 || size > len(remainingSorted) {
			continue
		}
		if ordering, ok := d.Match(singletonOrdering(remainingSorted[:size])); ok {
			return d.Decider, ordering, nil
		}
	}
	return nil, nil, newError(ErrCodeDeciderResolution, s.context,
		"Failed to resolve decider for non singular transition: %s %s",
		s.context.ContextKind, s.context.FullName())
}
