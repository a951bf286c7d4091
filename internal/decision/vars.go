package decision

import (
	"sort"

	"github.com/roach88/megac/internal/graph"
)

func sortVars(vs []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
	return vs
}

// sortedCopy returns vs sorted, without duplicates, leaving vs untouched.
func sortedCopy(vs []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	out := sortVars(append([]*graph.AutomatonVertex(nil), vs...))
	return dedupSorted(out)
}

func dedupSorted(vs []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	if len(vs) < 2 {
		return vs
	}
	out := vs[:1]
	for _, v := range vs[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func withVar(vs []*graph.AutomatonVertex, v *graph.AutomatonVertex) []*graph.AutomatonVertex {
	return sortedCopy(append(append([]*graph.AutomatonVertex(nil), vs...), v))
}

// includes reports whether sorted set a contains every element of sorted b.
func includes(a, b []*graph.AutomatonVertex) bool {
	i := 0
	for _, v := range b {
		for i < len(a) && a[i].ID < v.ID {
			i++
		}
		if i == len(a) || a[i] != v {
			return false
		}
		i++
	}
	return true
}

func intersect(a, b []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	var out []*graph.AutomatonVertex
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].ID < b[j].ID:
			i++
		case a[i].ID > b[j].ID:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func union(a, b []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	out := make([]*graph.AutomatonVertex, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].ID < b[j].ID:
			out = append(out, a[i])
			i++
		case a[i].ID > b[j].ID:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// difference returns the elements of sorted a missing from sorted b.
func difference(a, b []*graph.AutomatonVertex) []*graph.AutomatonVertex {
	var out []*graph.AutomatonVertex
	j := 0
	for _, v := range a {
		for j < len(b) && b[j].ID < v.ID {
			j++
		}
		if j < len(b) && b[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

func containsVar(vs []*graph.AutomatonVertex, v *graph.AutomatonVertex) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
