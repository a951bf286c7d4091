package graph

import (
	"fmt"
	"sort"
)

// Model is an immutable hypergraph plus the automata of its objects.
type Model struct {
	vertices []*Vertex
	objects  []*Vertex
	automata []*AutomatonVertex

	byFullName map[string]*Vertex
	byName     map[string][]*Vertex
}

// Vertices returns every vertex in ID order.
func (m *Model) Vertices() []*Vertex { return m.vertices }

// Objects returns the object roots in declaration order.
func (m *Model) Objects() []*Vertex { return m.objects }

// AutomatonVertices returns every automaton vertex in ID order.
func (m *Model) AutomatonVertices() []*AutomatonVertex { return m.automata }

// Lookup finds a vertex by its fully qualified name.
func (m *Model) Lookup(fullName string) (*Vertex, bool) {
	v, ok := m.byFullName[fullName]
	return v, ok
}

// ByName returns every vertex whose own name is name, in ID order.
func (m *Model) ByName(name string) []*Vertex {
	return m.byName[name]
}

// Object finds an object root by name.
func (m *Model) Object(name string) (*Vertex, bool) {
	for _, o := range m.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// ResolvePath resolves each symbol of a type path to every vertex carrying
// that name. A symbol with no match is an error.
func (m *Model) ResolvePath(path TypePath) ([][]*Vertex, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("resolve: empty type path")
	}
	elements := make([][]*Vertex, 0, len(path))
	for _, symbol := range path {
		matches := m.byName[symbol]
		if len(matches) == 0 {
			return nil, fmt.Errorf("resolve %s: unknown symbol %q", path, symbol)
		}
		elements = append(elements, append([]*Vertex(nil), matches...))
	}
	return elements, nil
}

// Contexts returns the contexts of an object (including the object itself)
// in depth-first declaration order.
func (m *Model) Contexts(object *Vertex) []*Vertex {
	var out []*Vertex
	var walk func(v *Vertex)
	walk = func(v *Vertex) {
		if v.Kind == KindContext {
			out = append(out, v)
		}
		for _, c := range v.children {
			walk(c)
		}
	}
	walk(object)
	return out
}

// Deciders returns the decider contexts beneath an object.
func (m *Model) Deciders(object *Vertex) []*Vertex {
	var out []*Vertex
	for _, c := range m.Contexts(object) {
		if c.ContextKind == ContextDecider {
			out = append(out, c)
		}
	}
	return out
}

// SortAutomata sorts automaton vertices by ID in place and returns them.
func SortAutomata(vs []*AutomatonVertex) []*AutomatonVertex {
	sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
	return vs
}
