package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Files    int                        `json:"files"`
	Objects  int                        `json:"objects"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.CycleWarning    `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <model-dir>",
		Short: "Validate a model without compiling it",
		Long: `Load a CUE model and check its rules without running any derivation.

Reports unresolved type paths, misplaced transitions, deciders and
interupts without events, links without targets, and ownership cycles.
Faster than compile for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	loaded, err := LoadModel(dir)
	if err != nil {
		code, msg := loadErrorParts(err)
		return commandError(f, code, msg, nil)
	}
	f.VerboseLog("Loaded %d CUE file(s) from %s", len(loaded.Files), dir)

	result := ValidationResult{
		Valid:    len(loaded.Violations) == 0,
		Files:    len(loaded.Files),
		Objects:  len(loaded.Model.Objects()),
		Errors:   loaded.Violations,
		Warnings: loaded.Warnings,
	}
	if !result.Valid {
		return outputViolations(f, loaded.Violations)
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "✓ Model valid: %d object(s) in %d file(s)\n", result.Objects, result.Files)
	for _, w := range result.Warnings {
		fmt.Fprintf(f.Writer, "  warning [%s]: %s\n", w.Code, w.Message)
	}
	return nil
}

// outputViolations reports rule violations and returns a command error.
func outputViolations(f *OutputFormatter, violations []compiler.ValidationError) error {
	if f.Format == "json" {
		_ = f.Response(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    violations[0].Code,
				Message: fmt.Sprintf("model has %d rule violation(s)", len(violations)),
				Details: violations,
			},
		})
	} else {
		fmt.Fprintln(f.Writer, "✗ Validation failed")
		fmt.Fprintln(f.Writer)
		for _, v := range violations {
			fmt.Fprintf(f.Writer, "  %s\n", v.Error())
		}
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("validation failed with %d error(s)", len(violations)))
}
