package decision

import "github.com/roach88/megac/internal/graph"

// Row is one legal assignment of an automaton: the variables that are true
// together. Every variable below the automaton root that is not in the row
// is false.
type Row []*graph.AutomatonVertex

// SolveTruthTable enumerates every row of the automaton below v.
//
// A leaf contributes one empty row. An Or contributes, for each child, the
// child's rows with the child prepended. An And contributes the Cartesian
// product of its children's rows.
func SolveTruthTable(v *graph.AutomatonVertex) []Row {
	children := v.Children()
	if len(children) == 0 {
		return []Row{{}}
	}

	if v.Kind == graph.AutomatonOr {
		var rows []Row
		for _, c := range children {
			for _, r := range SolveTruthTable(c) {
				row := make(Row, 0, len(r)+1)
				row = append(row, c)
				rows = append(rows, append(row, r...))
			}
		}
		return rows
	}

	rows := SolveTruthTable(children[0])
	for _, c := range children[1:] {
		rows = product(rows, SolveTruthTable(c))
	}
	return rows
}

func product(left, right []Row) []Row {
	out := make([]Row, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			row := make(Row, 0, len(l)+len(r))
			row = append(row, l...)
			out = append(out, append(row, r...))
		}
	}
	return out
}
