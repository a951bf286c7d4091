package pipeline

import (
	"errors"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/ir"
)

// Derivation is one solved type path of a context.
type Derivation struct {
	Context *graph.Vertex
	Kind    ir.DerivationKind
	Path    graph.TypePath
	Outcome derivation.Outcome

	// Tree is the printed derivation.
	Tree string
	Seq  int64
}

// EventDispatch is an event an interupt listens to. Dispatch is the printed
// chain from the event back to the interupt.
type EventDispatch struct {
	Interupt *graph.Vertex
	Event    *graph.Vertex
	Path     graph.TypePath
	Dispatch string
	Seq      int64
}

// Decision is the compiled decision procedure of one transition context.
type Decision struct {
	Context   *graph.Vertex
	Procedure *decision.Procedure
	Seq       int64
}

// ObjectResult holds everything compiled for one object. Err is set when
// the object's unit failed; the artifacts produced before the failure are
// kept.
type ObjectResult struct {
	Object      *graph.Vertex
	Derivations []Derivation
	Dispatches  []EventDispatch

	// Variables is the sorted variable set of the object automaton, the
	// column order of TruthTable.
	Variables  []*graph.AutomatonVertex
	TruthTable []decision.Row
	Decisions  []Decision

	Err error
}

// Result is the output of one pass over a model.
type Result struct {
	PassID    string
	ModelHash string
	Seq       int64
	Objects   []*ObjectResult
}

// Object returns the result for the named object.
func (r *Result) Object(name string) (*ObjectResult, bool) {
	for _, o := range r.Objects {
		if o.Object.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Err joins the errors of every failed object.
func (r *Result) Err() error {
	var errs []error
	for _, o := range r.Objects {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}

// Decision returns the procedure compiled for the context with the given
// full name.
func (r *Result) Decision(context string) (*decision.Procedure, bool) {
	for _, o := range r.Objects {
		for _, d := range o.Decisions {
			if d.Context.FullName() == context {
				return d.Procedure, true
			}
		}
	}
	return nil, false
}

// stamp assigns sequence numbers in object order: the pass first, then each
// object's derivations, dispatches and decisions.
func (r *Result) stamp(clock Clock) {
	r.Seq = clock.Next()
	for _, o := range r.Objects {
		for i := range o.Derivations {
			o.Derivations[i].Seq = clock.Next()
		}
		for i := range o.Dispatches {
			o.Dispatches[i].Seq = clock.Next()
		}
		for i := range o.Decisions {
			o.Decisions[i].Seq = clock.Next()
		}
	}
}
