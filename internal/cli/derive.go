package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/pipeline"
)

// DeriveOptions holds flags for the derive command.
type DeriveOptions struct {
	*RootOptions
	DOT    bool
	Pruned bool
}

// DeriveResult is the JSON payload of the derive command.
type DeriveResult struct {
	Context string   `json:"context"`
	Path    string   `json:"path"`
	Outcome string   `json:"outcome"`
	Targets []string `json:"targets"`
	Tree    string   `json:"tree"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeriveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "derive <model-dir> <context> <type.path>",
		Short: "Resolve an invocation type path and print its derivation",
		Long: `Resolve a dot-separated type path from a context the way an invocation
would, then print the derivation tree and the disambiguation outcome.

Exit codes:
  0 - The path resolves to exactly one interpretation
  1 - The path is ambiguous or does not resolve
  2 - Command error (model not found, unknown context)

Examples:
  megac derive ./model Door.Push Open
  megac derive ./model Robot tool.Fire --dot | dot -Tsvg > fire.svg`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "print the tree in Graphviz DOT")
	cmd.Flags().BoolVar(&opts.Pruned, "pruned", false, "hide eliminated edges (default: printer.show_eliminated from config)")

	return cmd
}

func runDerive(opts *DeriveOptions, dir, contextName, pathText string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	loaded, err := loadForCommand(opts.RootOptions, f, dir)
	if err != nil {
		return err
	}
	m := loaded.Model

	c, ok := m.Lookup(contextName)
	if !ok {
		return commandError(f, ErrCodeUsage, fmt.Sprintf("unknown context %q", contextName), nil)
	}
	path, err := graph.ParseTypePath(pathText)
	if err != nil {
		return commandError(f, ErrCodeUsage, err.Error(), nil)
	}

	r, err := pipeline.Resolve(m, c, path)
	if err != nil {
		return commandError(f, errorCode(err), err.Error(), nil)
	}
	opts.logger().Debug("derivation resolved",
		"context", c.FullName(),
		"path", path.String(),
		"outcome", r.Outcome.String(),
	)

	showEliminated := opts.Config.Printer.ShowEliminated && !opts.Pruned
	result := DeriveResult{
		Context: c.FullName(),
		Path:    path.String(),
		Outcome: r.Outcome.String(),
		Targets: []string{},
		Tree:    r.Tree(showEliminated),
	}
	for _, t := range r.Targets() {
		result.Targets = append(result.Targets, t.FullName())
	}

	switch {
	case f.Format == "json":
		resp := CLIResponse{Status: "ok", Data: result}
		if rerr := r.Err(); rerr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: errorCode(rerr), Message: fmt.Sprintf("derivation %s for %s", result.Outcome, result.Path)}
		}
		if err := f.Response(resp); err != nil {
			return err
		}
	case opts.DOT:
		if err := r.WriteDOT(f.Writer); err != nil {
			return err
		}
	default:
		fmt.Fprint(f.Writer, result.Tree)
		fmt.Fprintf(f.Writer, "\nOutcome: %s\n", result.Outcome)
		for _, t := range result.Targets {
			fmt.Fprintf(f.Writer, "  -> %s\n", t)
		}
	}

	if rerr := r.Err(); rerr != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("derivation %s", r.Outcome), rerr)
	}
	return nil
}

// errorCode returns the domain code of err, or the generic CLI code.
func errorCode(err error) string {
	if code := pipeline.ErrorCode(err); code != pipeline.ErrCodeInternal {
		return code
	}
	return ErrCodeGeneric
}
