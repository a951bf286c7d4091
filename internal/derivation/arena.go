package derivation

import (
	"fmt"

	"github.com/roach88/megac/internal/graph"
)

// NodeID addresses a Node in an Arena.
type NodeID int32

// EdgeID addresses an Edge in an Arena.
type EdgeID int32

// NoNode is the invalid node index.
const NoNode NodeID = -1

// NodeKind is the closed set of derivation node variants.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeOr
	NodeAnd
	// NodeDispatch marks a terminal step reached with no further expansion,
	// the start of an inverse event dispatch chain.
	NodeDispatch
	// NodeSelect is an Or that crosses an inter-object link to reach Target.
	NodeSelect
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "ROOT"
	case NodeOr:
		return "OR"
	case NodeAnd:
		return "AND"
	case NodeDispatch:
		return "DISPATCH"
	case NodeSelect:
		return "SELECT"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is a derivation tree node.
type Node struct {
	ID   NodeID
	Kind NodeKind

	// Vertex is the graph vertex of a step. Nil for the root.
	Vertex *graph.Vertex

	// Context is the starting vertex set of a root.
	Context []*graph.Vertex

	// Target is the vertex a Select step derives.
	Target *graph.Vertex

	Edges []EdgeID
}

// IsStep reports whether the node is a step rather than the root.
func (n *Node) IsStep() bool { return n.Kind != NodeRoot }

// Edge connects a node to the next step.
type Edge struct {
	ID   EdgeID
	From NodeID
	Next NodeID

	Eliminated  bool
	Backtracked bool
	Precedence  int

	// GraphEdges are the hypergraph edges this step traverses.
	GraphEdges []*graph.Edge
}

// Arena owns every node and edge of one compilation pass. The whole arena is
// discarded at pass end; nothing is removed individually.
//
// An Arena is not safe for concurrent use. Each compilation unit owns its
// own.
type Arena struct {
	nodes []*Node
	edges []*Edge
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Node returns the node with the given ID.
func (a *Arena) Node(id NodeID) *Node {
	return a.nodes[id]
}

// Edge returns the edge with the given ID.
func (a *Arena) Edge(id EdgeID) *Edge {
	return a.edges[id]
}

// Edges returns the outgoing edges of a node.
func (a *Arena) Edges(id NodeID) []*Edge {
	n := a.nodes[id]
	out := make([]*Edge, len(n.Edges))
	for i, e := range n.Edges {
		out[i] = a.edges[e]
	}
	return out
}

// Len returns the number of nodes and edges allocated so far.
func (a *Arena) Len() (nodes, edges int) {
	return len(a.nodes), len(a.edges)
}

func (a *Arena) newNode(n *Node) NodeID {
	n.ID = NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return n.ID
}

// NewRoot allocates a root over the given context vertices.
func (a *Arena) NewRoot(context []*graph.Vertex) NodeID {
	return a.newNode(&Node{Kind: NodeRoot, Context: append([]*graph.Vertex(nil), context...)})
}

// NewStep allocates an Or, And or Dispatch step on a vertex.
func (a *Arena) NewStep(kind NodeKind, v *graph.Vertex) NodeID {
	return a.newNode(&Node{Kind: kind, Vertex: v})
}

// NewSelect allocates a Select step on vertex v deriving target.
func (a *Arena) NewSelect(v, target *graph.Vertex) NodeID {
	return a.newNode(&Node{Kind: NodeSelect, Vertex: v, Target: target})
}

// Connect appends an edge from -> next carrying the traversed graph edges.
func (a *Arena) Connect(from, next NodeID, graphEdges []*graph.Edge) EdgeID {
	e := &Edge{
		ID:         EdgeID(len(a.edges)),
		From:       from,
		Next:       next,
		GraphEdges: append([]*graph.Edge(nil), graphEdges...),
	}
	a.edges = append(a.edges, e)
	a.nodes[from].Edges = append(a.nodes[from].Edges, e.ID)
	return e.ID
}
