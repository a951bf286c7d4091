package decision

import (
	"github.com/roach88/megac/internal/graph"
)

// CalculateRemainingDecideableVariables returns the variables of
// remainingSorted that are true in some and false in another truth table
// state compatible with the partial assignment. No compatible state at all
// is a TRUTH_TABLE_EXHAUSTION error naming context.
func CalculateRemainingDecideableVariables(context *graph.Vertex, table []State,
	trueVars, falseVars, remainingSorted []*graph.AutomatonVertex,
) ([]*graph.AutomatonVertex, error) {
	var canBeTrue, canBeFalse []*graph.AutomatonVertex
	compatible := 0
	for _, s := range table {
		if !s.Match(trueVars, falseVars) {
			continue
		}
		compatible++
		canBeTrue = union(canBeTrue, s.CanBeTrue(remainingSorted))
		canBeFalse = union(canBeFalse, s.CanBeFalse(remainingSorted))
	}
	if compatible == 0 {
		return nil, newError(ErrCodeTruthTableExhaustion, context,
			"Failed to find compatible truth table states for transition: %s %s",
			context.ContextKind, context.FullName())
	}
	return intersect(canBeTrue, canBeFalse), nil
}

// CalculateInstanceMultiplier returns the product of the local sizes of the
// contexts from the variable's context up to, but excluding, ancestor.
func CalculateInstanceMultiplier(ancestor *graph.Vertex, variable *graph.AutomatonVertex) (int64, error) {
	multiplier := int64(1)
	for it := variable.Context; it != ancestor; it = it.Parent() {
		if it == nil {
			return 0, newError(ErrCodeNoCommonAncestor, ancestor,
				"%s is not below %s", variable.Context.FullName(), ancestor.FullName())
		}
		multiplier *= it.LocalSize
	}
	return multiplier, nil
}

// BuildAssignments builds the leaf of a branch. Each true variable is
// assigned true and its Or siblings false; remaining false variables are
// then assigned false.
func BuildAssignments(ancestor *graph.Vertex, assignment, trueVars, falseVars []*graph.AutomatonVertex) (*Assignments, error) {
	var out []Assignment
	assigned := make(map[*graph.AutomatonVertex]bool)

	for _, v := range trueVars {
		m, err := CalculateInstanceMultiplier(ancestor, v)
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Value: true, Variable: v, InstanceMultiplier: m})
		assigned[v] = true

		for _, sibling := range v.Siblings() {
			if assigned[sibling] {
				return nil, newError(ErrCodeInconsistentAssignment, ancestor,
					"%s and %s are both assigned below %s", v, sibling, ancestor.FullName())
			}
			out = append(out, Assignment{Value: false, Variable: sibling, InstanceMultiplier: m})
			assigned[sibling] = true
		}
	}

	for _, v := range falseVars {
		if assigned[v] {
			continue
		}
		m, err := CalculateInstanceMultiplier(ancestor, v)
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Value: false, Variable: v, InstanceMultiplier: m})
		assigned[v] = true
	}

	return &Assignments{
		StepBase: StepBase{
			Assignment: assignment,
			TrueVars:   trueVars,
			FalseVars:  falseVars,
		},
		Assignments: out,
	}, nil
}

type treeBuilder struct {
	context  *graph.Vertex
	ancestor *graph.Vertex
	selector *DeciderSelector
	table    []State
}

// BuildDecisionProcedure builds the decision tree for a context whose
// transitions resolve to the given variable groups, one variable per group.
// The top level is a Selection over the groups.
func BuildDecisionProcedure(context, ancestor *graph.Vertex, selector *DeciderSelector,
	transitionVariables [][]*graph.AutomatonVertex,
) (Step, error) {
	if len(transitionVariables) == 0 {
		return nil, newError(ErrCodeInvalidTransition, context,
			"Transition has no decideable variables: %s", context.FullName())
	}

	root := ancestor.Automaton()
	variablesSorted := sortedCopy(CollectVariables(root))
	b := &treeBuilder{
		context:  context,
		ancestor: ancestor,
		selector: selector,
		table:    FromTruthTable(SolveTruthTable(root), variablesSorted),
	}

	selection := make([]*graph.AutomatonVertex, 0, len(transitionVariables))
	for _, group := range transitionVariables {
		if len(group) != 1 {
			return nil, newError(ErrCodeInvalidTransition, context,
				"Transition target resolves to %d variables: %s", len(group), context.FullName())
		}
		selection = append(selection, group[0])
	}
	remainingSorted := difference(variablesSorted, sortedCopy(selection))

	decider, ordering, err := selector.ChooseTransitionDecider(transitionVariables)
	if err != nil {
		return nil, err
	}
	top := &Selection{
		StepBase:         StepBase{Decider: decider},
		Variables:        selection,
		VariableOrdering: ordering,
	}

	for i := range transitionVariables {
		var trueVars, falseVars []*graph.AutomatonVertex
		for j, group := range transitionVariables {
			if i == j {
				trueVars = append(trueVars, group...)
			} else {
				falseVars = append(falseVars, group...)
			}
		}
		trueVars, falseVars = sortedCopy(trueVars), sortedCopy(falseVars)

		child, err := b.branch(trueVars, trueVars, falseVars, remainingSorted)
		if err != nil {
			return nil, err
		}
		top.Children = append(top.Children, child)
	}
	return top, nil
}

// branch continues below a choice: it recurses while variables remain
// undecided and otherwise ends in an Assignments leaf.
func (b *treeBuilder) branch(assignment, trueVars, falseVars, candidates []*graph.AutomatonVertex) (Step, error) {
	remaining, err := CalculateRemainingDecideableVariables(b.context, b.table, trueVars, falseVars, candidates)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return b.recurse(assignment, trueVars, falseVars, remaining)
	}
	return BuildAssignments(b.ancestor, assignment, trueVars, falseVars)
}

func (b *treeBuilder) recurse(assignment, trueVars, falseVars, remaining []*graph.AutomatonVertex) (Step, error) {
	decider, ordering, err := b.selector.ChooseDecider(remaining)
	if err != nil {
		return nil, err
	}
	base := StepBase{
		Decider:    decider,
		Assignment: assignment,
		TrueVars:   trueVars,
		FalseVars:  falseVars,
	}

	if len(ordering) == 1 {
		v := remaining[0]
		step := &Boolean{StepBase: base, Variable: v}

		whenTrue, err := b.branch([]*graph.AutomatonVertex{v}, withVar(trueVars, v), falseVars, remaining)
		if err != nil {
			return nil, err
		}
		whenFalse, err := b.branch(nil, trueVars, withVar(falseVars, v), remaining)
		if err != nil {
			return nil, err
		}
		step.Children = []Step{whenTrue, whenFalse}
		return step, nil
	}

	n := len(ordering)
	step := &Selection{
		StepBase:         base,
		Variables:        append([]*graph.AutomatonVertex(nil), remaining[:n]...),
		VariableOrdering: ordering,
	}
	for i := 0; i < n; i++ {
		var chosen []*graph.AutomatonVertex
		newTrue := append([]*graph.AutomatonVertex(nil), trueVars...)
		newFalse := append([]*graph.AutomatonVertex(nil), falseVars...)
		for j := 0; j < n; j++ {
			if i == j {
				chosen = append(chosen, remaining[j])
				newTrue = append(newTrue, remaining[j])
			} else {
				newFalse = append(newFalse, remaining[j])
			}
		}
		child, err := b.branch(chosen, sortedCopy(newTrue), sortedCopy(newFalse), remaining)
		if err != nil {
			return nil, err
		}
		step.Children = append(step.Children, child)
	}
	return step, nil
}
