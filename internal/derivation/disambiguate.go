package derivation

import (
	"fmt"

	"github.com/roach88/megac/internal/graph"
)

// Outcome is the result of disambiguating a derivation (sub)tree.
type Outcome int

const (
	Success Outcome = iota
	Failure
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome maps a printed outcome back to its value.
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range []Outcome{Success, Failure, Ambiguous} {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}

// Fold accumulates sibling outcomes. The zero value holds no result yet.
type Fold struct {
	value Outcome
	set   bool
}

// Result returns the accumulated outcome and whether any was folded in.
func (f Fold) Result() (Outcome, bool) {
	return f.value, f.set
}

// Inclusive folds next into f for siblings that must all hold. Any Failure
// wins, then Ambiguous, then Success.
func (f Fold) Inclusive(next Outcome) Fold {
	switch next {
	case Success:
		if !f.set {
			return Fold{value: Success, set: true}
		}
		return f
	case Failure:
		return Fold{value: Failure, set: true}
	default:
		if f.set && f.value == Failure {
			return f
		}
		return Fold{value: Ambiguous, set: true}
	}
}

// Exclusive folds next into f for competing alternatives. Two successes are
// ambiguous, a success outlives a failure, and Ambiguous dominates.
func (f Fold) Exclusive(next Outcome) Fold {
	switch next {
	case Success:
		if !f.set || f.value == Failure {
			return Fold{value: Success, set: true}
		}
		return Fold{value: Ambiguous, set: true}
	case Failure:
		if !f.set {
			return Fold{value: Failure, set: true}
		}
		return f
	default:
		return Fold{value: Ambiguous, set: true}
	}
}

// Precedence annotates every edge below root. An edge traversing exactly one
// ChildSingular, ChildNonSingular, Dim or Link edge gets 1, except a Link
// into an ownership link; every other edge gets 0.
func Precedence(arena *Arena, root NodeID) {
	for _, id := range arena.Node(root).Edges {
		e := arena.Edge(id)
		e.Precedence = edgePrecedence(e.GraphEdges)
		Precedence(arena, e.Next)
	}
}

func edgePrecedence(edges []*graph.Edge) int {
	if len(edges) != 1 {
		return 0
	}
	e := edges[0]
	switch e.Type {
	case graph.EdgeChildSingular, graph.EdgeChildNonSingular, graph.EdgeDim:
		return 1
	case graph.EdgeLink:
		if e.Target.IsOwnershipLink() {
			return 0
		}
		return 1
	}
	return 0
}

// Disambiguate prunes the tree below root and reports whether exactly one
// interpretation survives. Precedence must have run first.
//
// At an Or step the outgoing edges compete. Edges whose subtree fails are
// eliminated first, then surviving edges below the highest precedence, and
// the remaining edges are folded exclusively. And steps and the root fold
// their children inclusively. Eliminated edges stay in the arena for
// diagnostics.
func Disambiguate(arena *Arena, root NodeID, finalFrontier []NodeID) (Outcome, error) {
	d := &disambiguator{arena: arena, final: make(map[NodeID]bool, len(finalFrontier))}
	for _, id := range finalFrontier {
		d.final[id] = true
	}
	if arena.Node(root).Kind != NodeRoot {
		return Failure, NewStructuralError(nil, "disambiguate: node %d is not a root", root)
	}
	return d.inclusive(arena.Node(root))
}

type disambiguator struct {
	arena *Arena
	final map[NodeID]bool
}

func (d *disambiguator) step(id NodeID) (Outcome, error) {
	n := d.arena.Node(id)
	switch n.Kind {
	case NodeAnd, NodeRoot:
		return d.inclusive(n)
	case NodeOr, NodeSelect:
		return d.or(n)
	default:
		return Failure, NewStructuralError(n.Vertex, "disambiguate: unexpected %s step", n.Kind)
	}
}

func (d *disambiguator) inclusive(n *Node) (Outcome, error) {
	var fold Fold
	for _, id := range n.Edges {
		r, err := d.step(d.arena.Edge(id).Next)
		if err != nil {
			return Failure, err
		}
		fold = fold.Inclusive(r)
	}
	if r, ok := fold.Result(); ok {
		return r, nil
	}
	return Failure, nil
}

func (d *disambiguator) or(n *Node) (Outcome, error) {
	if d.final[n.ID] {
		if len(n.Edges) != 0 {
			return Failure, NewStructuralError(n.Vertex, "final frontier step has outgoing edges")
		}
		return Success, nil
	}

	// Elimination pass.
	results := make(map[EdgeID]Outcome, len(n.Edges))
	var survivors []*Edge
	for _, id := range n.Edges {
		e := d.arena.Edge(id)
		r, err := d.step(e.Next)
		if err != nil {
			return Failure, err
		}
		results[id] = r
		if r == Failure {
			e.Eliminated = true
			continue
		}
		survivors = append(survivors, e)
	}

	// Precedence filter.
	best := 0
	for _, e := range survivors {
		if e.Precedence > best {
			best = e.Precedence
		}
	}

	var fold Fold
	for _, e := range survivors {
		if e.Precedence < best {
			e.Eliminated = true
			continue
		}
		r := results[e.ID]
		fold = fold.Exclusive(r)
		if r == Failure {
			e.Eliminated = true
		}
	}

	if r, ok := fold.Result(); ok {
		return r, nil
	}
	return Failure, nil
}
