package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/ir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Store  string
	PassID string
	Object string
	Trees  bool
}

// TraceResult is the JSON payload of a trace run.
type TraceResult struct {
	Pass        ir.PassRecord         `json:"pass"`
	Derivations []ir.DerivationRecord `json:"derivations"`
	Decisions   []ir.DecisionRecord   `json:"decisions"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the artifacts of a stored pass",
		Long: `Print the derivations and decision procedures stored for a pass, in
the order they were compiled. Without --pass the newest pass is shown.

Examples:
  megac trace --store megac.db
  megac trace --store megac.db --object Door --trees
  megac trace --store megac.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite artifact store (default: store.path from config)")
	cmd.Flags().StringVar(&opts.PassID, "pass", "", "pass to show (default: newest)")
	cmd.Flags().StringVar(&opts.Object, "object", "", "show only artifacts of this object")
	cmd.Flags().BoolVar(&opts.Trees, "trees", false, "print derivation trees")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openStore(opts.RootOptions, f, opts.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	passes, err := selectPasses(ctx, f, st, opts.PassID)
	if err != nil {
		return err
	}
	if len(passes) == 0 {
		return commandError(f, ErrCodeStore, "no passes stored", nil)
	}
	// ListPasses orders by seq, so the newest pass is last.
	pass := passes[len(passes)-1]

	rs, err := st.ReadRecords(ctx, pass.ID)
	if err != nil {
		return commandError(f, ErrCodeStore, fmt.Sprintf("reading pass %s: %v", pass.ID, err), nil)
	}
	result := TraceResult{Pass: rs.Pass, Derivations: []ir.DerivationRecord{}, Decisions: []ir.DecisionRecord{}}
	for _, d := range rs.Derivations {
		if opts.Object == "" || d.Object == opts.Object {
			result.Derivations = append(result.Derivations, d)
		}
	}
	for _, d := range rs.Decisions {
		if opts.Object == "" || d.Object == opts.Object {
			result.Decisions = append(result.Decisions, d)
		}
	}

	if f.Format == "json" {
		return f.Response(CLIResponse{Status: "ok", Data: result, PassID: pass.ID})
	}
	writeTrace(f.Writer, result, opts.Trees)
	return nil
}

func writeTrace(w io.Writer, r TraceResult, trees bool) {
	fmt.Fprintf(w, "Pass %s seq=%d %s\n", r.Pass.ID, r.Pass.Seq, r.Pass.Status)
	fmt.Fprintf(w, "Model %s\n", r.Pass.ModelHash)

	fmt.Fprintf(w, "\nDerivations (%d):\n", len(r.Derivations))
	for _, d := range r.Derivations {
		fmt.Fprintf(w, "  [%d] %s %s %s -> %s\n", d.Seq, d.Kind, d.Context, d.Path, d.Outcome)
		if trees && d.Tree != "" {
			for _, line := range strings.Split(strings.TrimRight(d.Tree, "\n"), "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(w, "\nDecisions (%d):\n", len(r.Decisions))
	for _, d := range r.Decisions {
		fmt.Fprintf(w, "  [%d] %s ancestor=%s divider=%d\n", d.Seq, d.Context, d.CommonAncestor, d.InstanceDivider)
	}
}
