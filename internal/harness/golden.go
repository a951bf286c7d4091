package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/megac/internal/pipeline"
)

// Snapshot renders a result as the text compared against golden files: the
// pass summary, then each derive query and its tree, then any load error.
func Snapshot(r *Result) string {
	var sb strings.Builder
	if r.Pipeline != nil {
		sb.WriteString(pipeline.SprintSummary(r.Pipeline))
	} else {
		for _, a := range r.Actual {
			fmt.Fprintf(&sb, "ERROR %s\n", a)
		}
	}
	for _, q := range r.Queries {
		fmt.Fprintf(&sb, "DERIVE %s %s %s\n", q.Context, q.Path, q.Outcome)
		sb.WriteString(q.Tree)
	}
	return sb.String()
}

// RunWithGolden runs a scenario, fails t on unmet expectations, and
// compares its snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}
	AssertGolden(t, scenario.Name, result)
	return nil
}

// AssertGolden compares a result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Snapshot(result)))
}
