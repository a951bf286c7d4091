package derivation

import (
	"github.com/roach88/megac/internal/graph"
)

// Dispatch is an event an interupt listens to. Node is a Dispatch step on
// the event; following its single edges leads back, step by step, to the
// interupt context, crossing links through Select steps.
type Dispatch struct {
	Node  NodeID
	Event *graph.Vertex
}

// BuildEventDispatches builds the inverse dispatch chain of every event
// reached by a solved interupt derivation. Eliminated edges and dead ends
// outside the final frontier are skipped.
func BuildEventDispatches(arena *Arena, root NodeID, finalFrontier []NodeID) ([]Dispatch, error) {
	final := make(map[NodeID]bool, len(finalFrontier))
	for _, id := range finalFrontier {
		final[id] = true
	}

	var result []Dispatch
	for _, id := range arena.Node(root).Edges {
		if arena.Edge(id).Eliminated {
			continue
		}
		nodes, err := buildDispatches(arena, final, id)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			result = append(result, Dispatch{Node: n, Event: arena.Node(n).Vertex})
		}
	}
	return result, nil
}

func buildDispatches(arena *Arena, final map[NodeID]bool, edgeID EdgeID) ([]NodeID, error) {
	edge := arena.Edge(edgeID)
	current := arena.Node(edge.Next)

	var dispatches []NodeID
	if len(current.Edges) == 0 {
		if !final[current.ID] {
			return nil, nil
		}
		if !current.Vertex.IsEventLike() {
			return nil, NewStructuralError(current.Vertex, "interupt event does not specify an event or state")
		}
		dispatches = append(dispatches, arena.NewStep(NodeDispatch, current.Vertex))
	} else {
		for _, id := range current.Edges {
			if arena.Edge(id).Eliminated {
				continue
			}
			nested, err := buildDispatches(arena, final, id)
			if err != nil {
				return nil, err
			}
			dispatches = append(dispatches, nested...)
		}
	}

	from := arena.Node(edge.From)
	for _, d := range dispatches {
		last, err := chainEnd(arena, d)
		if err != nil {
			return nil, err
		}
		if err := extendDispatch(arena, edge, from, last); err != nil {
			return nil, err
		}
	}
	return dispatches, nil
}

// chainEnd follows the single outgoing edges of a dispatch chain.
func chainEnd(arena *Arena, id NodeID) (*Node, error) {
	n := arena.Node(id)
	for len(n.Edges) > 0 {
		if len(n.Edges) != 1 {
			return nil, NewStructuralError(n.Vertex, "dispatch chain branches at %s step", n.Kind)
		}
		n = arena.Node(arena.Edge(n.Edges[0]).Next)
	}
	return n, nil
}

// extendDispatch appends the inverse of edge to the chain ending at last.
func extendDispatch(arena *Arena, edge *Edge, from, last *Node) error {
	source := last.Vertex

	switch from.Kind {
	case NodeRoot:
		return nil

	case NodeOr:
		if source == from.Vertex {
			return nil
		}
		path, ok, err := CommonRootDerivation(source, from.Vertex, true)
		if err != nil {
			return err
		}
		if !ok {
			return NewStructuralError(source, "no inverse derivation to %s", from.Vertex.FullName())
		}
		next := arena.NewStep(NodeOr, from.Vertex)
		arena.Connect(last.ID, next, path.Edges)
		return nil

	case NodeAnd:
		if last.Kind != NodeOr {
			return NewStructuralError(source, "link dispatch must continue from an Or step")
		}
		if !from.Vertex.IsLinkDimension() {
			return NewStructuralError(from.Vertex, "And step is not on a link")
		}
		if len(edge.GraphEdges) != 2 {
			return NewStructuralError(from.Vertex, "link expansion edge carries %d graph edges, want 2", len(edge.GraphEdges))
		}
		interObject := edge.GraphEdges[0]
		if interObject.Source != from.Vertex {
			return NewStructuralError(from.Vertex, "inter-object edge does not start at the link")
		}
		farLink := interObject.Target
		if !farLink.IsLinkDimension() {
			return NewStructuralError(farLink, "inter-object edge does not end at a link")
		}

		sel := arena.NewSelect(farLink, from.Vertex)
		path, ok, err := CommonRootDerivation(source, farLink, true)
		if err != nil {
			return err
		}
		if !ok {
			return NewStructuralError(source, "no derivation to link %s", farLink.FullName())
		}
		arena.Connect(last.ID, sel, path.Edges)

		var inverse *graph.Edge
		for _, e := range farLink.OutEdges() {
			if e.Target != from.Vertex {
				continue
			}
			if inverse != nil {
				return NewStructuralError(farLink, "duplicate hypergraph edges to %s", from.Vertex.FullName())
			}
			inverse = e
		}
		if inverse == nil {
			return NewStructuralError(farLink, "no inverse link edge to %s", from.Vertex.FullName())
		}

		target := arena.NewStep(NodeOr, from.Vertex)
		arena.Connect(sel, target, []*graph.Edge{inverse})
		return nil

	default:
		return NewStructuralError(from.Vertex, "unexpected %s step in interupt derivation", from.Kind)
	}
}
