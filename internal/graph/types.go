package graph

import (
	"fmt"
	"strings"
)

// VertexKind classifies hypergraph vertices.
type VertexKind int

const (
	KindContext VertexKind = iota
	KindDimension
	KindBitset
	KindLink
)

func (k VertexKind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindDimension:
		return "dimension"
	case KindBitset:
		return "bitset"
	case KindLink:
		return "link"
	default:
		return fmt.Sprintf("VertexKind(%d)", int(k))
	}
}

// ContextKind classifies context vertices. Non-context vertices carry
// ContextNone.
type ContextKind int

const (
	ContextNone ContextKind = iota
	ContextObject
	ContextNamespace
	ContextAction
	ContextState
	ContextEvent
	ContextInterupt
	ContextDecider
	ContextFunction
)

var contextKindNames = map[ContextKind]string{
	ContextNone:      "none",
	ContextObject:    "object",
	ContextNamespace: "namespace",
	ContextAction:    "action",
	ContextState:     "state",
	ContextEvent:     "event",
	ContextInterupt:  "interupt",
	ContextDecider:   "decider",
	ContextFunction:  "function",
}

func (k ContextKind) String() string {
	if s, ok := contextKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ContextKind(%d)", int(k))
}

// ParseContextKind maps a kind name used by model sources to a ContextKind.
func ParseContextKind(s string) (ContextKind, bool) {
	for k, name := range contextKindNames {
		if name == s && k != ContextNone && k != ContextObject {
			return k, true
		}
	}
	return ContextNone, false
}

// LinkKind distinguishes ownership links from ordinary links.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkNormal
	LinkOwnership
)

// EdgeType is the closed set of hypergraph edge types.
type EdgeType int

const (
	EdgeParent EdgeType = iota
	EdgeChildSingular
	EdgeChildNonSingular
	EdgeDim
	EdgeLink
	EdgeMonoSingularMandatory
	EdgeMonoSingularOptional
	EdgeMonoNonSingularMandatory
	EdgeMonoNonSingularOptional
	EdgePolySingularMandatory
	EdgePolySingularOptional
	EdgePolyNonSingularMandatory
	EdgePolyNonSingularOptional
	EdgePolyParent
)

var edgeTypeNames = [...]string{
	EdgeParent:                   "Parent",
	EdgeChildSingular:            "ChildSingular",
	EdgeChildNonSingular:         "ChildNonSingular",
	EdgeDim:                      "Dim",
	EdgeLink:                     "Link",
	EdgeMonoSingularMandatory:    "MonoSingularMandatory",
	EdgeMonoSingularOptional:     "MonoSingularOptional",
	EdgeMonoNonSingularMandatory: "MonoNonSingularMandatory",
	EdgeMonoNonSingularOptional:  "MonoNonSingularOptional",
	EdgePolySingularMandatory:    "PolySingularMandatory",
	EdgePolySingularOptional:     "PolySingularOptional",
	EdgePolyNonSingularMandatory: "PolyNonSingularMandatory",
	EdgePolyNonSingularOptional:  "PolyNonSingularOptional",
	EdgePolyParent:               "PolyParent",
}

func (t EdgeType) String() string {
	if t >= 0 && int(t) < len(edgeTypeNames) {
		return edgeTypeNames[t]
	}
	return fmt.Sprintf("EdgeType(%d)", int(t))
}

// IsLinkTarget reports whether the edge joins a link to the link on the
// other side of an inter-object relationship.
func (t EdgeType) IsLinkTarget() bool {
	return t >= EdgeMonoSingularMandatory && t <= EdgePolyParent
}

// LinkEdgeType returns the mono/poly, singular/non-singular,
// mandatory/optional edge type for a link-target edge.
func LinkEdgeType(poly, singular, mandatory bool) EdgeType {
	t := EdgeMonoSingularMandatory
	if poly {
		t += 4
	}
	if !singular {
		t += 2
	}
	if !mandatory {
		t++
	}
	return t
}

// Edge is a directed, typed hypergraph edge.
type Edge struct {
	Type   EdgeType
	Source *Vertex
	Target *Vertex
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Source.FullName(), e.Type, e.Target.FullName())
}

// TypePath is a symbolic path such as ["Arm", "Grip"], resolved against a
// Model into derivation path elements.
type TypePath []string

func (p TypePath) String() string {
	return strings.Join(p, ".")
}

// ParseTypePath splits a dotted type path. Empty segments are rejected.
func ParseTypePath(s string) (TypePath, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty type path")
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("type path %q: empty segment at %d", s, i)
		}
		parts[i] = p
	}
	return TypePath(parts), nil
}

// Vertex is a node of the structural hypergraph.
type Vertex struct {
	ID          int
	Name        string
	Kind        VertexKind
	ContextKind ContextKind
	LinkKind    LinkKind

	// LocalSize is the instance multiplicity of the vertex within its parent.
	LocalSize int64

	// Transitions holds the successor type paths declared on a state-like or
	// interupt context.
	Transitions []TypePath

	// Events holds the event type paths of an interupt or decider.
	Events []TypePath

	parent    *Vertex
	object    *Vertex
	children  []*Vertex
	out       []*Edge
	automaton *AutomatonVertex

	concurrent bool
}

// OutEdges returns the outgoing edges in construction order.
func (v *Vertex) OutEdges() []*Edge { return v.out }

// Parent returns the structural parent, or nil for an object.
func (v *Vertex) Parent() *Vertex { return v.parent }

// ParentEdge returns the unique Parent edge, or nil for an object.
func (v *Vertex) ParentEdge() *Edge {
	for _, e := range v.out {
		if e.Type == EdgeParent {
			return e
		}
	}
	return nil
}

// Object returns the owning object root. An object returns itself.
func (v *Vertex) Object() *Vertex { return v.object }

// Children returns the structural children in declaration order.
func (v *Vertex) Children() []*Vertex { return v.children }

// Automaton returns the automaton vertex of a state-like context.
func (v *Vertex) Automaton() *AutomatonVertex { return v.automaton }

func (v *Vertex) IsContext() bool       { return v.Kind == KindContext }
func (v *Vertex) IsObject() bool        { return v.Kind == KindContext && v.ContextKind == ContextObject }
func (v *Vertex) IsLinkDimension() bool { return v.Kind == KindLink }
func (v *Vertex) IsOwnershipLink() bool { return v.Kind == KindLink && v.LinkKind == LinkOwnership }

// IsStateLike reports whether the context owns an automaton vertex.
func (v *Vertex) IsStateLike() bool {
	if v.Kind != KindContext {
		return false
	}
	switch v.ContextKind {
	case ContextObject, ContextAction, ContextState:
		return true
	}
	return false
}

// IsEventLike reports whether the vertex may terminate an interupt event path.
func (v *Vertex) IsEventLike() bool {
	return v.Kind == KindContext && (v.ContextKind == ContextEvent || v.IsStateLike())
}

// FullName returns the dot-joined names from the object root down to v.
func (v *Vertex) FullName() string {
	if v == nil {
		return "<nil>"
	}
	var parts []string
	for it := v; it != nil; it = it.parent {
		parts = append(parts, it.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func (v *Vertex) String() string { return v.FullName() }
