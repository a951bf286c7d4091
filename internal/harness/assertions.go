package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/megac/internal/decision"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every expectation of s against r and records
// the failures on r.
func EvaluateAssertions(s *Scenario, r *Result) {
	for i, q := range s.Derive {
		if err := assertDerive(q, r.Queries); err != nil {
			r.AddError(fmt.Sprintf("derive[%d]: %v", i, err))
		}
	}
	for i, d := range s.ExpectDecisions {
		if err := assertDecision(d, r); err != nil {
			r.AddError(fmt.Sprintf("expect_decisions[%d]: %v", i, err))
		}
	}
	for _, err := range assertErrors(s.ExpectErrors, r.Actual) {
		r.AddError(err.Error())
	}
}

func assertDerive(q DeriveQuery, results []QueryResult) error {
	for _, qr := range results {
		if qr.Context != q.Context || qr.Path != q.Path {
			continue
		}
		if qr.Outcome == q.Outcome {
			return nil
		}
		return &AssertionError{
			Type:     "derive",
			Expected: fmt.Sprintf("%s %s %s", q.Context, q.Path, q.Outcome),
			Actual:   fmt.Sprintf("%s\n%s", qr.Outcome, qr.Tree),
		}
	}
	// Unresolvable queries are reported by Run.
	return nil
}

func assertDecision(d ExpectDecision, r *Result) error {
	if r.Pipeline == nil {
		return &AssertionError{Type: "decision", Expected: d.Context, Actual: "model did not load"}
	}
	p, ok := r.Pipeline.Decision(d.Context)
	if !ok {
		return &AssertionError{Type: "decision", Expected: d.Context, Actual: "no decision procedure compiled"}
	}
	kind, leaves := StepKind(p.Root), CountLeaves(p)
	if kind != d.Kind || leaves != d.Leaves {
		return &AssertionError{
			Type:     "decision",
			Expected: fmt.Sprintf("%s %s with %d leaves", d.Context, d.Kind, d.Leaves),
			Actual:   fmt.Sprintf("%s with %d leaves", kind, leaves),
		}
	}
	return nil
}

// assertErrors matches expected substrings against the actual errors. Each
// expectation must match some error and each error some expectation.
func assertErrors(expected, actual []string) []error {
	var errs []error
	matched := make([]bool, len(actual))
	for _, want := range expected {
		found := false
		for i, got := range actual {
			if strings.Contains(got, want) {
				matched[i] = true
				found = true
			}
		}
		if !found {
			errs = append(errs, &AssertionError{
				Type:     "expect_errors",
				Expected: fmt.Sprintf("an error containing %q", want),
				Actual:   describeErrors(actual),
			})
		}
	}
	for i, got := range actual {
		if !matched[i] {
			errs = append(errs, &AssertionError{
				Type:     "unexpected_error",
				Expected: "no error",
				Actual:   got,
			})
		}
	}
	return errs
}

func describeErrors(actual []string) string {
	if len(actual) == 0 {
		return "no errors"
	}
	return strings.Join(actual, "; ")
}

// StepKind names the kind of a decision step.
func StepKind(s decision.Step) string {
	switch s.(type) {
	case *decision.Selection:
		return KindSelection
	case *decision.Boolean:
		return KindBoolean
	case *decision.Assignments:
		return KindAssignments
	default:
		return fmt.Sprintf("%T", s)
	}
}

// CountLeaves returns the number of assignment leaves of p.
func CountLeaves(p *decision.Procedure) int {
	n := 0
	decision.Walk(p.Root, func(s decision.Step) {
		if _, ok := s.(*decision.Assignments); ok {
			n++
		}
	})
	return n
}
