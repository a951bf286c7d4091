package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/pipeline"
)

// TruthResult is the JSON payload of the truth command. Each row lists the
// variables in Variables order.
type TruthResult struct {
	Object    string   `json:"object"`
	Variables []string `json:"variables"`
	Rows      [][]bool `json:"rows"`
}

// NewTruthCommand creates the truth command.
func NewTruthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truth <model-dir> <object>",
		Short: "Print the truth table of an object's automaton",
		Long: `Print every consistent assignment of an object's state variables, one
row per assignment. A + marks a variable that holds and a - one that does
not.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTruth(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runTruth(opts *RootOptions, dir, objectName string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	loaded, err := loadForCommand(opts, f, dir)
	if err != nil {
		return err
	}
	obj, ok := loaded.Model.Object(objectName)
	if !ok {
		return commandError(f, ErrCodeUsage, fmt.Sprintf("unknown object %q", objectName), nil)
	}

	vars, rows := pipeline.TruthTable(obj)
	if f.Format == "json" {
		return f.Success(truthResult(obj, vars, rows))
	}
	return decision.PrintTruthTable(f.Writer, rows, vars)
}

func truthResult(obj *graph.Vertex, vars []*graph.AutomatonVertex, rows []decision.Row) TruthResult {
	result := TruthResult{Object: obj.FullName(), Variables: []string{}, Rows: [][]bool{}}
	for _, v := range vars {
		result.Variables = append(result.Variables, v.String())
	}
	for _, row := range rows {
		values := make([]bool, len(vars))
		for i, v := range vars {
			values[i] = slices.Contains(row, v)
		}
		result.Rows = append(result.Rows, values)
	}
	return result
}
