package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/megac/internal/decision"
)

// PrintSummary renders one line per artifact of a pass:
//
//	PASS 0190... seq=1
//	OBJECT Door
//	  DERIVATION seq=2 transition Door.Push Open success
//	  DISPATCH seq=7 Robot.Alarm tool.Fire -> Tool.Fire
//	  DECISION seq=8 Door.Push ancestor=Door divider=1
//	  FAILED DERIVATION_FAILED Door.Push
func PrintSummary(w io.Writer, r *Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "PASS %s seq=%d\n", r.PassID, r.Seq)
	for _, o := range r.Objects {
		fmt.Fprintf(bw, "OBJECT %s\n", o.Object.FullName())
		for _, d := range o.Derivations {
			fmt.Fprintf(bw, "  DERIVATION seq=%d %s %s %s %s\n", d.Seq, d.Kind, d.Context.FullName(), d.Path, d.Outcome)
		}
		for _, d := range o.Dispatches {
			fmt.Fprintf(bw, "  DISPATCH seq=%d %s %s -> %s\n", d.Seq, d.Interupt.FullName(), d.Path, d.Event.FullName())
		}
		for _, d := range o.Decisions {
			fmt.Fprintf(bw, "  DECISION seq=%d %s ancestor=%s divider=%d\n",
				d.Seq, d.Context.FullName(), d.Procedure.CommonAncestor.FullName(), d.Procedure.InstanceDivider)
		}
		if o.Err != nil {
			fmt.Fprintf(bw, "  FAILED %s %s\n", ErrorCode(o.Err), failedContext(o))
		}
	}
	return bw.Flush()
}

// SprintSummary returns PrintSummary output as a string.
func SprintSummary(r *Result) string {
	var sb strings.Builder
	_ = PrintSummary(&sb, r)
	return sb.String()
}

// PrintTruthTable renders the truth table of one object.
func PrintTruthTable(w io.Writer, o *ObjectResult) error {
	return decision.PrintTruthTable(w, o.TruthTable, o.Variables)
}

func failedContext(o *ObjectResult) string {
	if pes := PassErrors(o.Err); len(pes) > 0 {
		return pes[0].Context
	}
	return o.Object.FullName()
}
