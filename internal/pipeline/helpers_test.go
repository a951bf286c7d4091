package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/testutil"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// run compiles m with a fresh step clock and the default fixed pass ID.
func run(t *testing.T, m *graph.Model, opts ...Option) (*Result, error) {
	t.Helper()
	base := []Option{
		WithLogger(quietLogger()),
		WithClock(testutil.NewStepClock()),
		WithPassIDGenerator(testutil.DefaultPassID),
	}
	return New(m, append(base, opts...)...).Run(context.Background())
}

// crossObjectModel has a transition in A that names a state of B, which no
// derivation can reach, next to a well-formed object B.
func crossObjectModel(t *testing.T) *graph.Model {
	return testutil.Build(t, func(b *graph.Builder) {
		a := b.Object("A")
		s := b.Context(a, graph.ContextState, "S", 1)
		b.Transition(s, "T")

		bo := b.Object("B")
		tt := b.Context(bo, graph.ContextState, "T", 1)
		b.Context(bo, graph.ContextState, "U", 1)
		b.Transition(tt, "U")
	})
}

// ambiguousModel has an interupt whose transition names two nested states
// that are equally far away.
func ambiguousModel(t *testing.T) *graph.Model {
	return testutil.Build(t, func(b *graph.Builder) {
		x := b.Object("X")
		a := b.Context(x, graph.ContextState, "A", 1)
		b.Context(a, graph.ContextState, "C", 1)
		bb := b.Context(x, graph.ContextState, "B", 1)
		b.Context(bb, graph.ContextState, "C", 1)

		i := b.Context(x, graph.ContextInterupt, "I", 1)
		b.Transition(i, "C")
	})
}
