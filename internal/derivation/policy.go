package derivation

import (
	"github.com/roach88/megac/internal/graph"
)

// Policy is the graph-traversal strategy injected into Solve. The call sites
// differ only in whether links are expanded and whether descent may enter
// non-singular children.
type Policy interface {
	Arena() *Arena

	MakeRoot(context []*graph.Vertex) NodeID
	MakeOr(v *graph.Vertex) NodeID
	MakeEdge(from, next NodeID, edges []*graph.Edge) EdgeID

	// ExpandLink returns the steps that continue the derivation from a link
	// Or. A policy that does not expand returns the Or itself.
	ExpandLink(or NodeID) ([]NodeID, error)

	CommonRootDerivation(source, target *graph.Vertex) (AncestorPath, bool, error)

	// Backtrack marks an edge explored but retried along another path.
	Backtrack(edge EdgeID)

	IsAndStep(id NodeID) bool
	IsLinkDimension(v *graph.Vertex) bool
}

// PolicyBase implements Policy without link expansion. Concrete policies
// embed it.
type PolicyBase struct {
	arena            *Arena
	allowNonSingular bool
}

func (p *PolicyBase) Arena() *Arena { return p.arena }

func (p *PolicyBase) MakeRoot(context []*graph.Vertex) NodeID {
	return p.arena.NewRoot(context)
}

func (p *PolicyBase) MakeOr(v *graph.Vertex) NodeID {
	return p.arena.NewStep(NodeOr, v)
}

func (p *PolicyBase) MakeEdge(from, next NodeID, edges []*graph.Edge) EdgeID {
	return p.arena.Connect(from, next, edges)
}

func (p *PolicyBase) ExpandLink(or NodeID) ([]NodeID, error) {
	return []NodeID{or}, nil
}

func (p *PolicyBase) CommonRootDerivation(source, target *graph.Vertex) (AncestorPath, bool, error) {
	return CommonRootDerivation(source, target, p.allowNonSingular)
}

func (p *PolicyBase) Backtrack(edge EdgeID) {
	p.arena.Edge(edge).Backtracked = true
}

func (p *PolicyBase) IsAndStep(id NodeID) bool {
	return p.arena.Node(id).Kind == NodeAnd
}

func (p *PolicyBase) IsLinkDimension(v *graph.Vertex) bool {
	return v.IsLinkDimension()
}

// expandLinkTargets turns a link Or into an And whose children are one Or
// per link-target edge, placed on the parent of the link at the far side.
// Each child edge carries the link-target edge and that parent edge.
func (p *PolicyBase) expandLinkTargets(or NodeID) ([]NodeID, error) {
	link := p.arena.Node(or).Vertex

	var targets []*graph.Edge
	for _, e := range link.OutEdges() {
		if e.Type.IsLinkTarget() {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return []NodeID{or}, nil
	}

	and := p.arena.NewStep(NodeAnd, link)
	p.MakeEdge(or, and, nil)

	expanded := make([]NodeID, 0, len(targets))
	for _, e := range targets {
		up := e.Target.ParentEdge()
		if up == nil {
			return nil, NewStructuralError(e.Target, "link target has no parent edge")
		}
		next := p.MakeOr(up.Target)
		p.MakeEdge(and, next, []*graph.Edge{e, up})
		expanded = append(expanded, next)
	}
	return expanded, nil
}

// InvocationPolicy resolves invocation type paths. Links are expanded and
// non-singular children cannot be descended into.
type InvocationPolicy struct{ PolicyBase }

func NewInvocationPolicy(arena *Arena) *InvocationPolicy {
	return &InvocationPolicy{PolicyBase{arena: arena}}
}

func (p *InvocationPolicy) ExpandLink(or NodeID) ([]NodeID, error) {
	return p.expandLinkTargets(or)
}

// InteruptPolicy resolves interupt event paths. Links are expanded so that
// events on the far side of a relationship can be dispatched back.
type InteruptPolicy struct{ PolicyBase }

func NewInteruptPolicy(arena *Arena) *InteruptPolicy {
	return &InteruptPolicy{PolicyBase{arena: arena, allowNonSingular: true}}
}

func (p *InteruptPolicy) ExpandLink(or NodeID) ([]NodeID, error) {
	return p.expandLinkTargets(or)
}

// TransitionPolicy resolves successor states. Links are never expanded.
type TransitionPolicy struct{ PolicyBase }

func NewTransitionPolicy(arena *Arena) *TransitionPolicy {
	return &TransitionPolicy{PolicyBase{arena: arena, allowNonSingular: true}}
}

// DeciderPolicy resolves decider event variables. Links are never expanded.
type DeciderPolicy struct{ PolicyBase }

func NewDeciderPolicy(arena *Arena) *DeciderPolicy {
	return &DeciderPolicy{PolicyBase{arena: arena, allowNonSingular: true}}
}
