package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/testutil"
)

// follow walks the procedure the way a runtime would for one truth table
// state and returns the leaf it reaches.
func follow(t *testing.T, step Step, s State) *Assignments {
	t.Helper()
	switch x := step.(type) {
	case *Selection:
		var taken []int
		for i, v := range x.Variables {
			if containsVar(s.TrueVars, v) {
				taken = append(taken, i)
			}
		}
		require.Len(t, taken, 1, "selection over %v for %v", names(x.Variables), names(s.TrueVars))
		return follow(t, x.Children[taken[0]], s)
	case *Boolean:
		require.Len(t, x.Children, 2)
		if containsVar(s.TrueVars, x.Variable) {
			return follow(t, x.Children[0], s)
		}
		return follow(t, x.Children[1], s)
	case *Assignments:
		return x
	}
	t.Fatalf("unexpected step %T", step)
	return nil
}

// assertTotal checks that every legal state reaches exactly one leaf and
// that the leaf agrees with the state.
func assertTotal(t *testing.T, p *Procedure) {
	t.Helper()
	root := p.CommonAncestor.Automaton()
	vars := sortedCopy(CollectVariables(root))
	for _, s := range FromTruthTable(SolveTruthTable(root), vars) {
		leaf := follow(t, p.Root, s)
		require.NotEmpty(t, leaf.Assignments)
		for _, a := range leaf.Assignments {
			assert.Equal(t, containsVar(s.TrueVars, a.Variable), a.Value,
				"%s in state %v", a.Variable, names(s.TrueVars))
		}
	}
}

func TestCompileDecision_DeciderOrdering(t *testing.T) {
	m := testutil.MachineModel(t)
	p := compile(t, m, "Machine.Go")

	assert.Equal(t, "Machine", p.CommonAncestor.FullName())
	assert.Equal(t, int64(1), p.InstanceDivider)

	top, ok := p.Root.(*Selection)
	require.True(t, ok)
	assert.Equal(t, "Machine.Pick", top.Decider.FullName())
	assert.Equal(t, []string{"Machine.S1", "Machine.S2", "Machine.S3"}, names(top.Variables))
	assert.Equal(t, []int{2, 0, 1}, top.VariableOrdering)

	require.Len(t, top.Children, 3)
	for i, c := range top.Children {
		leaf, ok := c.(*Assignments)
		require.True(t, ok)
		require.Len(t, leaf.Assignments, 3)

		first := leaf.Assignments[0]
		assert.True(t, first.Value)
		assert.Same(t, top.Variables[i], first.Variable)
		for _, a := range leaf.Assignments[1:] {
			assert.False(t, a.Value)
			assert.Equal(t, first.InstanceMultiplier, a.InstanceMultiplier)
		}
	}

	s3 := top.Children[2].(*Assignments)
	assert.Equal(t, int64(2), s3.Assignments[0].InstanceMultiplier)
	assertTotal(t, p)
}

func TestCompileDecision_NestedBoolean(t *testing.T) {
	m := testutil.DoorModel(t)
	p := compile(t, m, "Door.Push")

	top := p.Root.(*Selection)
	assert.Equal(t, "Door.Which", top.Decider.FullName())
	assert.Equal(t, []int{0, 1}, top.VariableOrdering)

	require.Len(t, top.Children, 2)
	b, ok := top.Children[0].(*Boolean)
	require.True(t, ok)
	assert.Equal(t, "Door.HowOpen", b.Decider.FullName())
	assert.Equal(t, "Door.Open.Ajar", b.Variable.String())
	assert.Equal(t, []string{"Door.Open"}, names(b.Assignment))

	whenTrue := b.Children[0].(*Assignments)
	assert.Equal(t, []string{"Door.Open.Ajar"}, names(whenTrue.Assignment))
	assert.Equal(t, []string{"Door.Open", "Door.Open.Ajar"}, names(whenTrue.TrueVars))

	whenFalse := b.Children[1].(*Assignments)
	assert.Empty(t, whenFalse.Assignment)
	assert.Equal(t, []string{"Door.Open"}, names(whenFalse.TrueVars))
	assert.Equal(t, []string{"Door.Open.Ajar", "Door.Closed"}, names(whenFalse.FalseVars))

	closed, ok := top.Children[1].(*Assignments)
	require.True(t, ok)
	assert.Nil(t, closed.Decider)

	assertTotal(t, p)
}

func TestCompileDecision_NestedSelection(t *testing.T) {
	m := testutil.ValveModel(t)
	p := compile(t, m, "Valve.Turn")

	top := p.Root.(*Selection)
	assert.Equal(t, "Valve.Mode", top.Decider.FullName())
	require.Len(t, top.Children, 2)

	_, ok := top.Children[0].(*Assignments)
	assert.True(t, ok, "Shut has nothing left to decide")

	flow, ok := top.Children[1].(*Selection)
	require.True(t, ok)
	assert.Equal(t, "Valve.Rate", flow.Decider.FullName())
	assert.Equal(t, []string{"Valve.Flow.Low", "Valve.Flow.Mid", "Valve.Flow.High"}, names(flow.Variables))
	assert.Equal(t, []int{2, 0, 1}, flow.VariableOrdering)
	for i, c := range flow.Children {
		assert.Equal(t, []string{flow.Variables[i].String()}, names(c.Base().Assignment))
	}

	assertTotal(t, p)
}

func TestCompileDecision_SingleTransition(t *testing.T) {
	m := testutil.LampModel(t)
	p := compile(t, m, "Lamp.On")

	assert.Equal(t, "Lamp", p.CommonAncestor.FullName())
	top := p.Root.(*Selection)
	assert.Nil(t, top.Decider)
	assert.Equal(t, []int{0}, top.VariableOrdering)
	require.Len(t, top.Children, 1)

	leaf := top.Children[0].(*Assignments)
	require.Len(t, leaf.Assignments, 2)
	assert.Equal(t, Assignment{Value: true, Variable: automaton(t, m, "Lamp.Off"), InstanceMultiplier: 1}, leaf.Assignments[0])
	assert.Equal(t, Assignment{Value: false, Variable: automaton(t, m, "Lamp.On"), InstanceMultiplier: 1}, leaf.Assignments[1])
}

func TestCompileDecision_InstanceDivider(t *testing.T) {
	m := testutil.Build(t, func(b *graph.Builder) {
		o := b.Object("O")
		outer := b.Context(o, graph.ContextState, "Outer", 3)
		b.Context(o, graph.ContextState, "Other", 1)
		inner := b.Context(outer, graph.ContextState, "Inner", 4)
		b.Context(outer, graph.ContextState, "Spare", 1)
		b.Transition(inner, "Other")
	})
	p := compile(t, m, "O.Outer.Inner")

	assert.Equal(t, "O", p.CommonAncestor.FullName())
	assert.Equal(t, int64(12), p.InstanceDivider)
}

func TestCalculateInstanceMultiplier(t *testing.T) {
	m := testutil.MachineModel(t)
	machine := testutil.Vertex(t, m, "Machine")

	got, err := CalculateInstanceMultiplier(machine, automaton(t, m, "Machine.S3"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	got, err = CalculateInstanceMultiplier(machine, automaton(t, m, "Machine.S1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	_, err = CalculateInstanceMultiplier(testutil.Vertex(t, m, "Machine.S1"), automaton(t, m, "Machine.S3"))
	assert.True(t, IsNoCommonAncestor(err))
}

func TestCompileDecision_Errors(t *testing.T) {
	t.Run("no transition decider", func(t *testing.T) {
		m := testutil.MachineModel(t)
		ctx := testutil.Vertex(t, m, "Machine.Go")
		_, err := CompileDecision(ctx, transitionStates(t, m, ctx), nil)
		require.Error(t, err)
		assert.True(t, IsDeciderResolution(err))
		assert.Contains(t, err.Error(), "Machine.Go")
	})

	t.Run("no nested decider", func(t *testing.T) {
		m := testutil.DoorModel(t)
		ctx := testutil.Vertex(t, m, "Door.Push")
		var which []Decider
		for _, d := range deciders(t, m, ctx.Object()) {
			if d.Context.Name == "Which" {
				which = append(which, d)
			}
		}
		_, err := CompileDecision(ctx, transitionStates(t, m, ctx), which)
		assert.True(t, IsDeciderResolution(err))
	})

	t.Run("truth table exhaustion", func(t *testing.T) {
		m := testutil.DoorModel(t)
		ajar := testutil.Vertex(t, m, "Door.Open.Ajar")
		open := testutil.Vertex(t, m, "Door.Open")
		_, err := CompileDecision(ajar, [][]*graph.Vertex{{open}}, nil)
		require.Error(t, err)
		assert.True(t, IsTruthTableExhaustion(err))
		assert.Contains(t, err.Error(), "Failed to find compatible truth table states")
	})

	t.Run("target without variable", func(t *testing.T) {
		m := testutil.LampModel(t)
		on := testutil.Vertex(t, m, "Lamp.On")
		lamp := testutil.Vertex(t, m, "Lamp")
		_, err := CompileDecision(on, [][]*graph.Vertex{{lamp}}, nil)
		assert.True(t, IsInvalidTransition(err))
	})

	t.Run("target in another object", func(t *testing.T) {
		m := testutil.Build(t, func(b *graph.Builder) {
			a := b.Object("A")
			b.Context(a, graph.ContextState, "S", 1)
			c := b.Object("C")
			b.Context(c, graph.ContextState, "T", 1)
		})
		_, err := CompileDecision(testutil.Vertex(t, m, "A.S"),
			[][]*graph.Vertex{{testutil.Vertex(t, m, "C.T")}}, nil)
		assert.True(t, IsNoCommonAncestor(err))
	})
}

func TestCollectTargetStates_Errors(t *testing.T) {
	t.Run("non-singular", func(t *testing.T) {
		m := testutil.TwinModel(t)
		x := testutil.Vertex(t, m, "X")
		d := derivationOf(t, x, testutil.Vertex(t, m, "X.Y1"), testutil.Vertex(t, m, "X.Y2"))
		_, err := CollectTargetStates(x, d)
		assert.True(t, IsInvalidTransition(err))
		assert.Contains(t, err.Error(), "Non-singular derivation targets for derivation: X")
	})

	t.Run("non-state target", func(t *testing.T) {
		m := testutil.LinkModel(t)
		x := testutil.Vertex(t, m, "X")
		d := derivationOf(t, x, testutil.Vertex(t, m, "X.Bar"))
		_, err := CollectTargetStates(x, d)
		assert.True(t, IsInvalidTransition(err))
		assert.Contains(t, err.Error(), "Transition to non-state context: X")
	})

	t.Run("no successors", func(t *testing.T) {
		m := testutil.ChildModel(t)
		_, err := CollectDerivationStates(testutil.Vertex(t, m, "X"), nil)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestStatesToUniqueVariables(t *testing.T) {
	m := testutil.DoorModel(t)
	open := testutil.Vertex(t, m, "Door.Open")
	closed := testutil.Vertex(t, m, "Door.Closed")

	got := StatesToUniqueVariables([][]*graph.Vertex{{open}, {open}, {closed}})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Door.Open"}, names(got[0]))
	assert.Equal(t, []string{"Door.Closed"}, names(got[1]))

	assert.Empty(t, StatesToUniqueVariables([][]*graph.Vertex{{testutil.Vertex(t, m, "Door")}}))
}
