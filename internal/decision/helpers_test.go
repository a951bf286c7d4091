package decision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/testutil"
)

// derive solves and disambiguates one type path and requires success.
func derive(t *testing.T, m *graph.Model, context *graph.Vertex, path graph.TypePath,
	newPolicy func(*derivation.Arena) derivation.Policy,
) Derivation {
	t.Helper()
	spec, err := derivation.NewSpecFromTypePath(m, []*graph.Vertex{context}, path)
	require.NoError(t, err)

	arena := derivation.NewArena()
	root, final, err := derivation.Solve(spec, newPolicy(arena))
	require.NoError(t, err)
	require.NotEmpty(t, final, "derivation failed for %s", context)

	derivation.Precedence(arena, root)
	outcome, err := derivation.Disambiguate(arena, root, final)
	require.NoError(t, err)
	require.Equal(t, derivation.Success, outcome, derivation.Sprint(arena, root, true))
	return Derivation{Arena: arena, Root: root}
}

func transitionPolicy(a *derivation.Arena) derivation.Policy { return derivation.NewTransitionPolicy(a) }
func deciderPolicy(a *derivation.Arena) derivation.Policy    { return derivation.NewDeciderPolicy(a) }

// transitionStates derives every transition of context.
func transitionStates(t *testing.T, m *graph.Model, context *graph.Vertex) [][]*graph.Vertex {
	t.Helper()
	var ds []Derivation
	for _, p := range context.Transitions {
		ds = append(ds, derive(t, m, context, p, transitionPolicy))
	}
	states, err := CollectDerivationStates(context, ds)
	require.NoError(t, err)
	return states
}

// deciders derives the events of every decider of object.
func deciders(t *testing.T, m *graph.Model, object *graph.Vertex) []Decider {
	t.Helper()
	var out []Decider
	for _, d := range m.Deciders(object) {
		dec := Decider{Context: d}
		for _, p := range d.Events {
			dec.Events = append(dec.Events, derive(t, m, d, p, deciderPolicy))
		}
		out = append(out, dec)
	}
	return out
}

// compile compiles the decision for the named context of a fixture model.
func compile(t *testing.T, m *graph.Model, context string) *Procedure {
	t.Helper()
	ctx := testutil.Vertex(t, m, context)
	p, err := CompileDecision(ctx, transitionStates(t, m, ctx), deciders(t, m, ctx.Object()))
	require.NoError(t, err)
	return p
}

func automaton(t *testing.T, m *graph.Model, fullName string) *graph.AutomatonVertex {
	t.Helper()
	a := testutil.Vertex(t, m, fullName).Automaton()
	require.NotNil(t, a, fullName)
	return a
}

func names(vs []*graph.AutomatonVertex) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

// derivationOf solves a single path step over targets with the invocation
// policy and disambiguates it without requiring success.
func derivationOf(t *testing.T, context *graph.Vertex, targets ...*graph.Vertex) Derivation {
	t.Helper()
	spec, err := derivation.NewSpec([]*graph.Vertex{context}, [][]*graph.Vertex{targets})
	require.NoError(t, err)

	arena := derivation.NewArena()
	root, final, err := derivation.Solve(spec, derivation.NewInvocationPolicy(arena))
	require.NoError(t, err)
	require.NotEmpty(t, final)

	derivation.Precedence(arena, root)
	_, err = derivation.Disambiguate(arena, root, final)
	require.NoError(t, err)
	return Derivation{Arena: arena, Root: root}
}
