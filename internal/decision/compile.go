package decision

import (
	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
)

// CompileDecision compiles the procedure that picks a transition target of
// context. transitionStates holds the target states of each transition
// derivation; deciders are the deciders of the owning object.
func CompileDecision(context *graph.Vertex, transitionStates [][]*graph.Vertex, deciders []Decider) (*Procedure, error) {
	contextState := nearestState(context)
	if contextState == nil {
		return nil, newError(ErrCodeNoCommonAncestor, context,
			"Failed to determine state associated with transition context: %s", context.FullName())
	}

	ancestor, err := FindCommonAncestor(contextState, transitionStates)
	if err != nil {
		return nil, err
	}
	ancestor = FindCommonAncestorContextParent(context, ancestor)
	if ancestor == nil {
		return nil, newError(ErrCodeNoCommonAncestor, context,
			"Failed to determine common ancestor for decision: %s", context.FullName())
	}

	divider := int64(1)
	for it := context; it != ancestor; it = it.Parent() {
		if it == nil {
			return nil, newError(ErrCodeNoCommonAncestor, context,
				"%s is not below %s", context.FullName(), ancestor.FullName())
		}
		divider *= it.LocalSize
	}

	selector, err := NewDeciderSelector(context, deciders)
	if err != nil {
		return nil, err
	}
	root, err := BuildDecisionProcedure(context, ancestor, selector, StatesToUniqueVariables(transitionStates))
	if err != nil {
		return nil, err
	}

	return &Procedure{CommonAncestor: ancestor, InstanceDivider: divider, Root: root}, nil
}

// FindCommonAncestor folds the common root of start and every target state.
// Each intermediate ancestor must be a state-like context.
func FindCommonAncestor(start *graph.Vertex, transitionStates [][]*graph.Vertex) (*graph.Vertex, error) {
	ancestor := start
	for _, states := range transitionStates {
		for _, s := range states {
			path, ok, err := derivation.CommonRootDerivation(s, ancestor, true)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, newError(ErrCodeNoCommonAncestor, start,
					"Failed to find common ancestor between: %s and: %s", s.FullName(), ancestor.FullName())
			}
			if !path.Ancestor.IsStateLike() {
				return nil, newError(ErrCodeNoCommonAncestor, start,
					"Failed to find common ancestor state between: %s and: %s", s.FullName(), ancestor.FullName())
			}
			ancestor = path.Ancestor
		}
	}
	return ancestor, nil
}

// FindCommonAncestorContextParent walks up from ancestor to the first state
// that is not context itself and whose automaton vertex is an Or. It
// returns nil when there is none.
func FindCommonAncestorContextParent(context, ancestor *graph.Vertex) *graph.Vertex {
	for it := ancestor; it != nil; it = nearestState(it.Parent()) {
		if it != context && it.Automaton() != nil && it.Automaton().Kind == graph.AutomatonOr {
			return it
		}
	}
	return nil
}

// nearestState returns v or its closest state-like ancestor.
func nearestState(v *graph.Vertex) *graph.Vertex {
	for it := v; it != nil; it = it.Parent() {
		if it.IsStateLike() {
			return it
		}
	}
	return nil
}
