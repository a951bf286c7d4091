package pipeline

import (
	"io"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
)

// Resolution is an invocation type path resolved from a context.
type Resolution struct {
	Context *graph.Vertex
	Path    graph.TypePath
	Outcome derivation.Outcome

	arena *derivation.Arena
	root  derivation.NodeID
	final []derivation.NodeID
}

// Resolve derives path from context with the invocation policy. An
// unmatched path or an unsuccessful disambiguation is reported through the
// Outcome and Err, not as an error; the error return is for paths that do
// not resolve against the model and for malformed graphs.
func Resolve(m *graph.Model, context *graph.Vertex, path graph.TypePath) (*Resolution, error) {
	spec, err := derivation.NewSpecFromTypePath(m, []*graph.Vertex{context}, path)
	if err != nil {
		return nil, err
	}
	arena := derivation.NewArena()
	root, final, err := derivation.Solve(spec, derivation.NewInvocationPolicy(arena))
	if err != nil {
		return nil, err
	}

	r := &Resolution{Context: context, Path: path, Outcome: derivation.Failure, arena: arena, root: root, final: final}
	if len(final) == 0 {
		return r, nil
	}
	derivation.Precedence(arena, root)
	if r.Outcome, err = derivation.Disambiguate(arena, root, final); err != nil {
		return nil, err
	}
	return r, nil
}

// Matched reports whether the final path element was reached at all.
func (r *Resolution) Matched() bool { return len(r.final) > 0 }

// Err returns the error for an unmatched or unsuccessful resolution.
func (r *Resolution) Err() error {
	if !r.Matched() {
		return failedDerivation(r.Context, r.arena, r.root)
	}
	return derivation.OutcomeError(r.Outcome, r.Context, r.Tree(true))
}

// Tree renders the derivation tree.
func (r *Resolution) Tree(showEliminated bool) string {
	return derivation.Sprint(r.arena, r.root, showEliminated)
}

// WriteDOT renders the derivation tree in Graphviz DOT.
func (r *Resolution) WriteDOT(w io.Writer) error {
	return derivation.WriteDOT(w, r.arena, r.root)
}

// Targets returns the vertices the surviving interpretations end on.
func (r *Resolution) Targets() []*graph.Vertex {
	if !r.Matched() {
		return nil
	}
	return decision.CollectTargets(r.arena, r.root)
}
