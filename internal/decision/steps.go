package decision

import "github.com/roach88/megac/internal/graph"

// Step is a node of a compiled decision tree: *Boolean, *Selection or
// *Assignments.
type Step interface {
	Base() *StepBase
	isStep()
}

// StepBase holds the fields every step carries.
type StepBase struct {
	// Decider resolves this step at runtime. Nil for leaves and for a
	// top-level selection with a single alternative.
	Decider *graph.Vertex

	// Assignment is the set of variables chosen by the branch leading here.
	Assignment []*graph.AutomatonVertex

	TrueVars  []*graph.AutomatonVertex
	FalseVars []*graph.AutomatonVertex

	Children []Step
}

// Base returns the shared fields.
func (b *StepBase) Base() *StepBase { return b }

// Boolean tests one variable. Children[0] is the true branch and
// Children[1] the false branch.
type Boolean struct {
	StepBase
	Variable *graph.AutomatonVertex
}

// Selection is an N-way branch over a decider's result. Children[i]
// assumes Variables[i] true. VariableOrdering maps the decider's event
// position to the index in Variables.
type Selection struct {
	StepBase
	Variables        []*graph.AutomatonVertex
	VariableOrdering []int
}

// Assignments is a leaf listing the variable writes for one branch.
type Assignments struct {
	StepBase
	Assignments []Assignment
}

func (*Boolean) isStep()     {}
func (*Selection) isStep()   {}
func (*Assignments) isStep() {}

// Assignment writes Value to Variable. InstanceMultiplier scales the
// instance index from the variable's context to the common ancestor.
type Assignment struct {
	Value              bool
	Variable           *graph.AutomatonVertex
	InstanceMultiplier int64
}

// Procedure is a compiled decision procedure. InstanceDivider maps an
// instance of the transition context to an instance of CommonAncestor.
type Procedure struct {
	CommonAncestor  *graph.Vertex
	InstanceDivider int64
	Root            Step
}

// Walk calls fn for every step in depth-first order.
func Walk(step Step, fn func(Step)) {
	fn(step)
	for _, c := range step.Base().Children {
		Walk(c, fn)
	}
}
