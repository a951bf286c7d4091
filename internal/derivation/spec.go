package derivation

import (
	"fmt"

	"github.com/roach88/megac/internal/graph"
)

// Spec is the input of a derivation: where to start and what to match.
type Spec struct {
	// Context is the starting vertex set.
	Context []*graph.Vertex

	// Path holds one element per type-path symbol; each element is the set
	// of vertices acceptable at that position.
	Path [][]*graph.Vertex
}

// NewSpec builds a Spec, removing duplicate vertices within each element and
// duplicate elements across the path while keeping first occurrences in
// order.
func NewSpec(context []*graph.Vertex, path [][]*graph.Vertex) (Spec, error) {
	if len(context) == 0 {
		return Spec{}, fmt.Errorf("spec: empty context")
	}
	if len(path) == 0 {
		return Spec{}, fmt.Errorf("spec: empty path")
	}

	elements := make([][]*graph.Vertex, 0, len(path))
	for i, element := range path {
		element = uniqueVertices(element)
		if len(element) == 0 {
			return Spec{}, fmt.Errorf("spec: path element %d is empty", i)
		}
		duplicate := false
		for _, seen := range elements {
			if sameVertices(seen, element) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			elements = append(elements, element)
		}
	}

	return Spec{Context: uniqueVertices(context), Path: elements}, nil
}

// NewSpecFromTypePath resolves a symbolic type path against the model.
func NewSpecFromTypePath(m *graph.Model, context []*graph.Vertex, path graph.TypePath) (Spec, error) {
	elements, err := m.ResolvePath(path)
	if err != nil {
		return Spec{}, err
	}
	return NewSpec(context, elements)
}

func uniqueVertices(vs []*graph.Vertex) []*graph.Vertex {
	seen := make(map[*graph.Vertex]bool, len(vs))
	out := make([]*graph.Vertex, 0, len(vs))
	for _, v := range vs {
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func sameVertices(a, b []*graph.Vertex) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
