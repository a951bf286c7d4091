package decision

import "github.com/roach88/megac/internal/graph"

// State is a truth table row split into the variables it sets true and
// the remaining known variables, which it sets false. Both are sorted.
type State struct {
	TrueVars  []*graph.AutomatonVertex
	FalseVars []*graph.AutomatonVertex
}

// NewState classifies row against the sorted variable set.
func NewState(row Row, variablesSorted []*graph.AutomatonVertex) State {
	trueVars := sortedCopy(row)
	return State{
		TrueVars:  trueVars,
		FalseVars: difference(variablesSorted, trueVars),
	}
}

// FromTruthTable classifies every row.
func FromTruthTable(rows []Row, variablesSorted []*graph.AutomatonVertex) []State {
	out := make([]State, len(rows))
	for i, r := range rows {
		out[i] = NewState(r, variablesSorted)
	}
	return out
}

// Match reports whether the state agrees with a partial assignment given as
// sorted true and false sets.
func (s State) Match(trueVars, falseVars []*graph.AutomatonVertex) bool {
	return includes(s.TrueVars, trueVars) && includes(s.FalseVars, falseVars)
}

// CanBeTrue returns the variables of remainingSorted this state sets true.
func (s State) CanBeTrue(remainingSorted []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	return intersect(s.TrueVars, remainingSorted)
}

// CanBeFalse returns the variables of remainingSorted this state sets false.
func (s State) CanBeFalse(remainingSorted []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	return intersect(s.FalseVars, remainingSorted)
}
