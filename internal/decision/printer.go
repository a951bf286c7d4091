package decision

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/megac/internal/graph"
)

// Print renders a procedure as indented text:
//
//	PROCEDURE (Door) divider=1
//	  SELECTION decider=Door.Which vars=[Door.Open Door.Closed] order=[0 1]
//	    BOOLEAN decider=Door.HowOpen var=Door.Open.Ajar
//	      ASSIGNMENTS [Door.Open.Ajar]
//	        ASSIGN true Door.Open *1
func Print(w io.Writer, p *Procedure) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "PROCEDURE (%s) divider=%d\n", p.CommonAncestor.FullName(), p.InstanceDivider)
	printStep(bw, p.Root, 1)
	return bw.Flush()
}

// Sprint returns Print output as a string.
func Sprint(p *Procedure) string {
	var sb strings.Builder
	_ = Print(&sb, p)
	return sb.String()
}

func printStep(w *bufio.Writer, step Step, depth int) {
	indent := strings.Repeat("  ", depth)

	switch s := step.(type) {
	case *Selection:
		fmt.Fprintf(w, "%sSELECTION decider=%s vars=%s order=%v\n",
			indent, deciderName(s.Decider), varNames(s.Variables), s.VariableOrdering)
	case *Boolean:
		fmt.Fprintf(w, "%sBOOLEAN decider=%s var=%s\n", indent, deciderName(s.Decider), s.Variable)
	case *Assignments:
		fmt.Fprintf(w, "%sASSIGNMENTS %s\n", indent, varNames(s.Assignment))
		for _, a := range s.Assignments {
			fmt.Fprintf(w, "%s  ASSIGN %t %s *%d\n", indent, a.Value, a.Variable, a.InstanceMultiplier)
		}
	}

	for _, c := range step.Base().Children {
		printStep(w, c, depth+1)
	}
}

func deciderName(d *graph.Vertex) string {
	if d == nil {
		return "none"
	}
	return d.FullName()
}

func varNames(vs []*graph.AutomatonVertex) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// PrintTruthTable renders one line per row, marking each variable of
// variablesSorted as +true or -false.
func PrintTruthTable(w io.Writer, rows []Row, variablesSorted []*graph.AutomatonVertex) error {
	bw := bufio.NewWriter(w)
	for _, s := range FromTruthTable(rows, variablesSorted) {
		cells := make([]string, len(variablesSorted))
		for i, v := range variablesSorted {
			if containsVar(s.TrueVars, v) {
				cells[i] = "+" + v.String()
			} else {
				cells[i] = "-" + v.String()
			}
		}
		fmt.Fprintln(bw, strings.Join(cells, " "))
	}
	return bw.Flush()
}
