package derivation

import (
	"github.com/roach88/megac/internal/graph"
)

// AncestorPath is the result of a common-root derivation: the deepest vertex
// shared by source and target, and the edges leading from source up to it
// and back down to target.
type AncestorPath struct {
	Ancestor *graph.Vertex
	Edges    []*graph.Edge
}

// CommonRootDerivation finds a structural path from source to target through
// their deepest common ancestor.
//
// The path ascends from source along Parent edges, then descends to target
// along the inverses of target's Parent edges. Descent may only use
// ChildSingular, Link and Dim edges, plus ChildNonSingular when
// allowNonSingularDescent is set; a non-singular child cannot otherwise be
// entered uniquely.
//
// ok is false when the vertices belong to different objects or descent is
// blocked. That is a normal outcome. err is set only for a malformed graph.
func CommonRootDerivation(source, target *graph.Vertex, allowNonSingularDescent bool) (AncestorPath, bool, error) {
	if source == target {
		return AncestorPath{Ancestor: source}, true, nil
	}

	sourceRoot, sourcePath, err := pathToObjectRoot(source)
	if err != nil {
		return AncestorPath{}, false, err
	}
	targetRoot, targetPath, err := pathToObjectRoot(target)
	if err != nil {
		return AncestorPath{}, false, err
	}
	if sourceRoot != targetRoot {
		return AncestorPath{}, false, nil
	}

	// Strip the shared root-most edges; the deepest shared vertex is the
	// source of the last edge removed.
	ancestor := sourceRoot
	for len(sourcePath) > 0 && len(targetPath) > 0 &&
		sourcePath[len(sourcePath)-1] == targetPath[len(targetPath)-1] {
		ancestor = sourcePath[len(sourcePath)-1].Source
		sourcePath = sourcePath[:len(sourcePath)-1]
		targetPath = targetPath[:len(targetPath)-1]
	}

	descending := make([]*graph.Edge, 0, len(targetPath))
	for _, up := range targetPath {
		down := inverseEdge(up, allowNonSingularDescent)
		if down == nil {
			return AncestorPath{}, false, nil
		}
		descending = append(descending, down)
	}
	for i, j := 0, len(descending)-1; i < j; i, j = i+1, j-1 {
		descending[i], descending[j] = descending[j], descending[i]
	}

	edges := make([]*graph.Edge, 0, len(sourcePath)+len(descending))
	edges = append(edges, sourcePath...)
	edges = append(edges, descending...)
	return AncestorPath{Ancestor: ancestor, Edges: edges}, true, nil
}

// pathToObjectRoot follows Parent edges from v to its object, returning the
// object and the traversed edges in root-ward order.
func pathToObjectRoot(v *graph.Vertex) (*graph.Vertex, []*graph.Edge, error) {
	var path []*graph.Edge
	for !v.IsObject() {
		up := v.ParentEdge()
		if up == nil {
			return nil, nil, NewStructuralError(v, "vertex has no parent edge")
		}
		path = append(path, up)
		v = up.Target
	}
	return v, path, nil
}

// inverseEdge finds the edge at up.Target leading back to up.Source.
func inverseEdge(up *graph.Edge, allowNonSingular bool) *graph.Edge {
	for _, e := range up.Target.OutEdges() {
		if e.Target != up.Source {
			continue
		}
		switch e.Type {
		case graph.EdgeChildSingular, graph.EdgeLink, graph.EdgeDim:
			return e
		case graph.EdgeChildNonSingular:
			if allowNonSingular {
				return e
			}
		}
	}
	return nil
}
