package graph

import (
	"errors"
	"fmt"
)

// Cardinality describes one side of a link relationship.
type Cardinality struct {
	Many     bool // non-singular: the link may reference several instances
	Optional bool // the link may be empty
}

type linkDecl struct {
	from, to *Vertex
	card     Cardinality
}

// Builder assembles a Model. Builder methods record the first error and
// keep going so that fixtures can be written without error plumbing; Build
// reports it.
type Builder struct {
	m     *Model
	links []linkDecl
	errs  []error
	built bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		m: &Model{
			byFullName: make(map[string]*Vertex),
			byName:     make(map[string][]*Vertex),
		},
	}
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

func (b *Builder) add(v *Vertex) *Vertex {
	v.ID = len(b.m.vertices)
	b.m.vertices = append(b.m.vertices, v)
	full := v.FullName()
	if _, dup := b.m.byFullName[full]; dup {
		b.fail("duplicate vertex %q", full)
	}
	b.m.byFullName[full] = v
	b.m.byName[v.Name] = append(b.m.byName[v.Name], v)
	return v
}

func (b *Builder) attach(parent, child *Vertex, down EdgeType) {
	child.parent = parent
	child.object = parent.object
	parent.children = append(parent.children, child)
	parent.out = append(parent.out, &Edge{Type: down, Source: parent, Target: child})
	child.out = append(child.out, &Edge{Type: EdgeParent, Source: child, Target: parent})
}

// Object adds an object root.
func (b *Builder) Object(name string) *Vertex {
	v := &Vertex{Name: name, Kind: KindContext, ContextKind: ContextObject, LocalSize: 1}
	v.object = v
	b.m.objects = append(b.m.objects, v)
	return b.add(v)
}

// Context adds a child context with the given instance multiplicity. A size
// above one makes the parent-to-child edge non-singular.
func (b *Builder) Context(parent *Vertex, kind ContextKind, name string, size int64) *Vertex {
	if parent == nil || !parent.IsContext() {
		b.fail("context %q: parent must be a context", name)
		return &Vertex{Name: name}
	}
	if kind == ContextObject || kind == ContextNone {
		b.fail("context %q: invalid kind %s", name, kind)
	}
	if size < 1 {
		b.fail("context %q: size must be at least 1, got %d", name, size)
		size = 1
	}
	v := &Vertex{Name: name, Kind: KindContext, ContextKind: kind, LocalSize: size}
	down := EdgeChildSingular
	if size > 1 {
		down = EdgeChildNonSingular
	}
	b.attach(parent, v, down)
	return b.add(v)
}

// Dim adds a user dimension to a context.
func (b *Builder) Dim(parent *Vertex, name string) *Vertex {
	return b.dimension(parent, name, KindDimension)
}

// Bitset adds a bitset dimension to a context.
func (b *Builder) Bitset(parent *Vertex, name string) *Vertex {
	return b.dimension(parent, name, KindBitset)
}

func (b *Builder) dimension(parent *Vertex, name string, kind VertexKind) *Vertex {
	if parent == nil || !parent.IsContext() {
		b.fail("dimension %q: parent must be a context", name)
		return &Vertex{Name: name}
	}
	v := &Vertex{Name: name, Kind: kind, LocalSize: 1}
	b.attach(parent, v, EdgeDim)
	return b.add(v)
}

// Link adds a link dimension to a context.
func (b *Builder) Link(parent *Vertex, name string, kind LinkKind) *Vertex {
	if parent == nil || !parent.IsContext() {
		b.fail("link %q: parent must be a context", name)
		return &Vertex{Name: name}
	}
	if kind == LinkNone {
		kind = LinkNormal
	}
	v := &Vertex{Name: name, Kind: KindLink, LinkKind: kind, LocalSize: 1}
	b.attach(parent, v, EdgeLink)
	return b.add(v)
}

// LinkTo declares that link from may reference link to. The edge type is
// resolved by Build once every target of from is known.
func (b *Builder) LinkTo(from, to *Vertex, card Cardinality) {
	if from == nil || to == nil || !from.IsLinkDimension() || !to.IsLinkDimension() {
		b.fail("link target: both ends must be links (%s -> %s)", from, to)
		return
	}
	b.links = append(b.links, linkDecl{from: from, to: to, card: card})
}

// Concurrent marks a state-like context whose automaton vertex is an And.
func (b *Builder) Concurrent(v *Vertex) {
	if !v.IsStateLike() {
		b.fail("concurrent: %s is not a state-like context", v)
		return
	}
	v.concurrent = true
}

// Transition declares a successor type path on a context.
func (b *Builder) Transition(v *Vertex, path ...string) {
	v.Transitions = append(v.Transitions, TypePath(path))
}

// Event declares an event type path on an interupt or decider.
func (b *Builder) Event(v *Vertex, path ...string) {
	if v.ContextKind != ContextInterupt && v.ContextKind != ContextDecider {
		b.fail("event: %s is not an interupt or decider", v)
		return
	}
	v.Events = append(v.Events, TypePath(path))
}

// Err returns the errors recorded so far.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// Build resolves link edge types, builds the object automata and returns the
// finished model. A builder can only be built once.
func (b *Builder) Build() (*Model, error) {
	if b.built {
		return nil, fmt.Errorf("build: builder already used")
	}
	b.built = true

	b.resolveLinks()
	for _, obj := range b.m.objects {
		b.buildAutomaton(obj, nil)
	}

	if err := b.Err(); err != nil {
		return nil, err
	}
	return b.m, nil
}

func (b *Builder) resolveLinks() {
	targets := make(map[*Vertex]int)
	for _, l := range b.links {
		targets[l.from]++
	}
	seen := make(map[[2]*Vertex]bool)
	for _, l := range b.links {
		key := [2]*Vertex{l.from, l.to}
		if seen[key] {
			b.fail("duplicate link target %s -> %s", l.from, l.to)
			continue
		}
		seen[key] = true

		t := LinkEdgeType(targets[l.from] > 1, !l.card.Many, !l.card.Optional)
		if l.to.IsOwnershipLink() {
			t = EdgePolyParent
		}
		l.from.out = append(l.from.out, &Edge{Type: t, Source: l.from, Target: l.to})
	}
}

// buildAutomaton creates the automaton vertex of a state-like context and
// attaches the nearest state-like descendants as its children, looking
// through intermediate non-state contexts such as namespaces.
func (b *Builder) buildAutomaton(v *Vertex, parent *AutomatonVertex) {
	if v.IsStateLike() {
		kind := AutomatonOr
		if v.concurrent {
			kind = AutomatonAnd
		}
		a := &AutomatonVertex{ID: len(b.m.automata), Kind: kind, Context: v, parent: parent}
		b.m.automata = append(b.m.automata, a)
		if parent != nil {
			parent.children = append(parent.children, a)
		}
		v.automaton = a
		parent = a
	}
	for _, c := range v.children {
		if c.IsContext() {
			b.buildAutomaton(c, parent)
		}
	}
}
