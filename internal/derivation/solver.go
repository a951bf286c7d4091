package derivation

import (
	"github.com/roach88/megac/internal/graph"
)

// frontierStep is an open Or step. via is the link Or whose expansion
// produced it, or NoNode.
type frontierStep struct {
	node NodeID
	via  NodeID
}

// Solve performs the context-free derivation of spec under policy.
//
// Every structurally valid interpretation is recorded: each path element is
// matched from every open frontier step by a common-root derivation to each
// candidate, breadth-first over the elements. A link matched before the last
// element is handed to the policy's ExpandLink. If no expanded target of a
// link can match the next element, the expansion edges are marked
// backtracked and the element is matched from the link itself.
//
// The root only keeps edges to context vertices with at least one viable
// path. The returned final frontier holds the Or steps that matched the last
// element; it is empty when nothing matched.
func Solve(spec Spec, policy Policy) (NodeID, []NodeID, error) {
	root := policy.MakeRoot(spec.Context)

	var finalFrontier []NodeID
	for _, context := range spec.Context {
		start := policy.MakeOr(context)
		frontier := []frontierStep{{node: start, via: NoNode}}

		for i, element := range spec.Path {
			last := i == len(spec.Path)-1
			next, err := solveElement(policy, frontier, element, last)
			if err != nil {
				return root, nil, err
			}
			frontier = next
			if len(frontier) == 0 {
				break
			}
		}

		if len(frontier) == 0 {
			continue
		}
		policy.MakeEdge(root, start, nil)
		for _, f := range frontier {
			finalFrontier = append(finalFrontier, f.node)
		}
	}

	return root, finalFrontier, nil
}

// solveElement matches one path element from every frontier step.
func solveElement(policy Policy, frontier []frontierStep, element []*graph.Vertex, last bool) ([]frontierStep, error) {
	var next []frontierStep

	// Steps produced by the same link expansion succeed or fail together.
	matchedVia := make(map[NodeID]bool)
	var viaOrder []NodeID

	for _, f := range frontier {
		matched, err := solveStep(policy, f.node, element, last)
		if err != nil {
			return nil, err
		}
		if f.via != NoNode {
			if _, seen := matchedVia[f.via]; !seen {
				viaOrder = append(viaOrder, f.via)
			}
			matchedVia[f.via] = matchedVia[f.via] || len(matched) > 0
		}
		next = append(next, matched...)
	}

	for _, link := range viaOrder {
		if matchedVia[link] {
			continue
		}
		backtrackExpansion(policy, link)
		retried, err := solveStep(policy, link, element, last)
		if err != nil {
			return nil, err
		}
		next = append(next, retried...)
	}

	return next, nil
}

// solveStep derives every candidate of element from one step.
func solveStep(policy Policy, from NodeID, element []*graph.Vertex, last bool) ([]frontierStep, error) {
	arena := policy.Arena()
	source := arena.Node(from).Vertex

	var out []frontierStep
	for _, candidate := range element {
		path, ok, err := policy.CommonRootDerivation(source, candidate)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		or := policy.MakeOr(candidate)
		policy.MakeEdge(from, or, path.Edges)

		if last || !policy.IsLinkDimension(candidate) {
			out = append(out, frontierStep{node: or, via: NoNode})
			continue
		}

		expanded, err := policy.ExpandLink(or)
		if err != nil {
			return nil, err
		}
		for _, e := range expanded {
			via := or
			if e == or {
				via = NoNode
			}
			out = append(out, frontierStep{node: e, via: via})
		}
	}
	return out, nil
}

// backtrackExpansion marks the edges below the And created for a link Or.
func backtrackExpansion(policy Policy, linkOr NodeID) {
	arena := policy.Arena()
	for _, e := range arena.Node(linkOr).Edges {
		next := arena.Edge(e).Next
		if !policy.IsAndStep(next) {
			continue
		}
		for _, ae := range arena.Node(next).Edges {
			policy.Backtrack(ae)
		}
	}
}
