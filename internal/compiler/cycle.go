package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/megac/internal/graph"
)

// CycleWarning reports objects that own each other through ownership links.
// A cycle is a warning: the model still compiles, but no object in the cycle
// has a well-defined root owner.
type CycleWarning struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Level   string   `json:"level"`
	Code    string   `json:"code"`
}

// ownershipGraph maps an owner object to the objects it owns.
type ownershipGraph map[string][]string

// AnalyzeOwnership finds cycles in the object ownership graph. A link that
// targets an ownership link makes its object the owner of the target's
// object. An acyclic model returns no warnings.
func AnalyzeOwnership(m *graph.Model) []CycleWarning {
	g := buildOwnershipGraph(m)
	var warnings []CycleWarning
	for _, scc := range tarjanSCC(g) {
		if len(scc) > 1 || hasSelfLoop(scc[0], g) {
			warnings = append(warnings, sccToWarning(scc, g))
		}
	}
	return warnings
}

func buildOwnershipGraph(m *graph.Model) ownershipGraph {
	g := make(ownershipGraph)
	for _, obj := range m.Objects() {
		g[obj.Name] = nil
	}
	for _, v := range m.Vertices() {
		if !v.IsLinkDimension() {
			continue
		}
		for _, e := range v.OutEdges() {
			if !e.Type.IsLinkTarget() || !e.Target.IsOwnershipLink() {
				continue
			}
			owner, owned := v.Object().Name, e.Target.Object().Name
			if !containsString(g[owner], owned) {
				g[owner] = append(g[owner], owned)
			}
		}
	}
	return g
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func hasSelfLoop(node string, g ownershipGraph) bool {
	return containsString(g[node], node)
}

// tarjanSCC returns the strongly connected components of g. Nodes are
// visited in sorted order so the result is deterministic.
func tarjanSCC(g ownershipGraph) [][]string {
	var (
		index   int
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(g))
	for n := range g {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}
	return sccs
}

func sccToWarning(scc []string, g ownershipGraph) CycleWarning {
	path := cyclePath(scc, g)
	msg := fmt.Sprintf("ownership cycle: %s", strings.Join(path, " -> "))
	if len(scc) == 1 {
		msg = fmt.Sprintf("object owns itself: %s", scc[0])
	}
	return CycleWarning{Path: path, Message: msg, Level: "warning", Code: ErrOwnershipCycle}
}

// cyclePath walks from the first member of scc through unvisited members
// until it returns to the start.
func cyclePath(scc []string, g ownershipGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}
	start := scc[0]
	path := []string{start}
	visited := map[string]bool{start: true}
	for current := start; ; {
		next := ""
		for _, w := range g[current] {
			if members[w] && (!visited[w] || w == start) {
				next = w
				break
			}
		}
		if next == "" {
			return path
		}
		path = append(path, next)
		if next == start {
			return path
		}
		visited[next] = true
		current = next
	}
}
