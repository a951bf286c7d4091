package decision

import (
	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
)

// Derivation is a solved and disambiguated derivation tree.
type Derivation struct {
	Arena *derivation.Arena
	Root  derivation.NodeID
}

// CollectVariables returns the variables of the automaton below v in
// preorder: every child of every Or, recursively.
func CollectVariables(v *graph.AutomatonVertex) []*graph.AutomatonVertex {
	var out []*graph.AutomatonVertex
	var walk func(v *graph.AutomatonVertex)
	walk = func(v *graph.AutomatonVertex) {
		for _, c := range v.Children() {
			if v.Kind == graph.AutomatonOr {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(v)
	return out
}

// CollectTargets returns the vertices of the leaf steps reachable from id
// over non-eliminated edges.
func CollectTargets(arena *derivation.Arena, id derivation.NodeID) []*graph.Vertex {
	n := arena.Node(id)
	if len(n.Edges) == 0 {
		return []*graph.Vertex{n.Vertex}
	}
	var out []*graph.Vertex
	for _, e := range arena.Edges(id) {
		if !e.Eliminated {
			out = append(out, CollectTargets(arena, e.Next)...)
		}
	}
	return out
}

// CollectTargetStates returns the single state a transition or decider
// event derivation of context resolves to.
func CollectTargetStates(context *graph.Vertex, d Derivation) ([]*graph.Vertex, error) {
	var targets []*graph.Vertex
	for _, e := range d.Arena.Edges(d.Root) {
		if !e.Eliminated {
			targets = append(targets, CollectTargets(d.Arena, e.Next)...)
		}
	}

	if len(targets) == 0 {
		return nil, newError(ErrCodeInvalidTransition, context,
			"No derivation targets for derivation: %s", context.FullName())
	}
	if len(targets) != 1 {
		return nil, newError(ErrCodeInvalidTransition, context,
			"Non-singular derivation targets for derivation: %s\n%s",
			context.FullName(), derivation.Sprint(d.Arena, d.Root, false))
	}

	states := make([]*graph.Vertex, 0, len(targets))
	seen := make(map[*graph.Vertex]bool)
	for _, v := range targets {
		if !v.IsStateLike() {
			return nil, newError(ErrCodeInvalidTransition, context,
				"Transition to non-state context: %s", context.FullName())
		}
		if !seen[v] {
			seen[v] = true
			states = append(states, v)
		}
	}
	return states, nil
}

// CollectDerivationStates collects the target states of each derivation.
func CollectDerivationStates(context *graph.Vertex, ds []Derivation) ([][]*graph.Vertex, error) {
	out := make([][]*graph.Vertex, 0, len(ds))
	for _, d := range ds {
		states, err := CollectTargetStates(context, d)
		if err != nil {
			return nil, err
		}
		out = append(out, states)
	}
	if len(out) == 0 {
		return nil, newError(ErrCodeInvalidTransition, context,
			"Derivation has no successors: %s", context.FullName())
	}
	return out, nil
}

// StatesToUniqueVariables maps each group of states to the test ancestors
// of its states. A variable is kept only in the first group it appears in;
// groups left empty are dropped.
func StatesToUniqueVariables(groups [][]*graph.Vertex) [][]*graph.AutomatonVertex {
	seen := make(map[*graph.AutomatonVertex]bool)
	var out [][]*graph.AutomatonVertex
	for _, states := range groups {
		var vars []*graph.AutomatonVertex
		for _, s := range states {
			a := s.Automaton()
			if a == nil {
				continue
			}
			v, ok := a.TestAncestor()
			if !ok || seen[v] {
				continue
			}
			seen[v] = true
			vars = append(vars, v)
		}
		if len(vars) > 0 {
			out = append(out, vars)
		}
	}
	return out
}
