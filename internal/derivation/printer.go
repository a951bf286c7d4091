package derivation

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/megac/internal/graph"
)

// Print renders the derivation tree below id as indented text:
//
//	ROOT (Robot.Alarm)
//	  OR (Robot.Alarm)
//	    [1] OR (Robot.Arm) {ChildSingular}
//	    [0] <eliminated> OR (Robot.Leg) {ChildNonSingular}
//
// Eliminated edges are skipped unless showEliminated is set.
func Print(w io.Writer, arena *Arena, id NodeID, showEliminated bool) error {
	bw := bufio.NewWriter(w)
	p := printer{w: bw, arena: arena, showEliminated: showEliminated}
	p.node(arena.Node(id), 0, nil)
	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// Sprint returns Print output as a string.
func Sprint(arena *Arena, id NodeID, showEliminated bool) string {
	var sb strings.Builder
	_ = Print(&sb, arena, id, showEliminated)
	return sb.String()
}

// PrintTypePath renders a resolved path for diagnostics, e.g.
// "Arm.Grip" or "(Robot.Arm|Robot.Leg).Grip".
func PrintTypePath(path [][]*graph.Vertex) string {
	parts := make([]string, len(path))
	for i, element := range path {
		names := make([]string, len(element))
		for j, v := range element {
			names[j] = v.FullName()
		}
		if len(names) == 1 {
			parts[i] = names[0]
		} else {
			parts[i] = "(" + strings.Join(names, "|") + ")"
		}
	}
	return strings.Join(parts, ".")
}

type printer struct {
	w              *bufio.Writer
	arena          *Arena
	showEliminated bool
	err            error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) node(n *Node, depth int, via *Edge) {
	p.printf("%s", strings.Repeat("  ", depth))
	if via != nil {
		p.printf("[%d] ", via.Precedence)
		if via.Eliminated {
			p.printf("<eliminated> ")
		}
		if via.Backtracked {
			p.printf("<backtracked> ")
		}
	}

	switch n.Kind {
	case NodeRoot:
		names := make([]string, len(n.Context))
		for i, v := range n.Context {
			names[i] = v.FullName()
		}
		p.printf("ROOT (%s)", strings.Join(names, ", "))
	case NodeSelect:
		p.printf("SELECT (%s -> %s)", n.Vertex.FullName(), n.Target.FullName())
	default:
		p.printf("%s (%s)", n.Kind, n.Vertex.FullName())
	}

	if via != nil && len(via.GraphEdges) > 0 {
		types := make([]string, len(via.GraphEdges))
		for i, ge := range via.GraphEdges {
			types[i] = ge.Type.String()
		}
		p.printf(" {%s}", strings.Join(types, ","))
	}
	p.printf("\n")

	for _, id := range n.Edges {
		e := p.arena.Edge(id)
		if e.Eliminated && !p.showEliminated {
			continue
		}
		p.node(p.arena.Node(e.Next), depth+1, e)
	}
}

// edgeColours follows the hypergraph legend used in derivation reports.
var edgeColours = map[graph.EdgeType]string{
	graph.EdgeParent:           "orange",
	graph.EdgeChildSingular:    "olivedrab",
	graph.EdgeChildNonSingular: "purple",
	graph.EdgeDim:              "red",
	graph.EdgeLink:             "greenyellow",
}

// WriteDOT renders the tree below id in Graphviz DOT. Eliminated edges are
// dotted red; link-target edges are dashed dark green.
func WriteDOT(w io.Writer, arena *Arena, id NodeID) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph derivation {")
	fmt.Fprintln(bw, "  node [shape=box];")

	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := arena.Node(id)
		label := n.Kind.String()
		fill := "lightgreen"
		switch n.Kind {
		case NodeRoot:
			fill = "lightgrey"
		case NodeAnd:
			fill = "lightblue"
		}
		if n.Vertex != nil {
			label += `\n` + n.Vertex.FullName()
		}
		fmt.Fprintf(bw, "  n%d [label=\"%s\", style=filled, fillcolor=%s];\n", id, label, fill)

		for _, eid := range n.Edges {
			e := arena.Edge(eid)
			attrs := dotEdgeAttrs(e)
			fmt.Fprintf(bw, "  n%d -> n%d [%s];\n", id, e.Next, attrs)
			walk(e.Next)
		}
	}
	walk(id)

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotEdgeAttrs(e *Edge) string {
	if e.Eliminated {
		return "style=dotted, color=red"
	}
	colour, style := "black", "solid"
	for _, ge := range e.GraphEdges {
		if c, ok := edgeColours[ge.Type]; ok {
			colour = c
			if ge.Type == graph.EdgeLink {
				style = "bold"
			}
			continue
		}
		if ge.Type.IsLinkTarget() {
			colour, style = "darkgreen", "dashed"
		}
	}
	return fmt.Sprintf("label=\"%d\", style=%s, color=%s", e.Precedence, style, colour)
}
