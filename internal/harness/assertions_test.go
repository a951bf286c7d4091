package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/decision"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "derive", Expected: "X Y success", Actual: "failure"}
	assert.Equal(t, "Assertion failed: derive\n  Expected: X Y success\n  Actual: failure", err.Error())
}

func TestAssertErrors(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		actual   []string
		wantLen  int
	}{
		{name: "none", wantLen: 0},
		{name: "all matched", expected: []string{"AMBIGUOUS"}, actual: []string{"AMBIGUOUS: object X"}, wantLen: 0},
		{name: "one pattern matches several", expected: []string{"FAILED"}, actual: []string{"DERIVATION_FAILED a", "FAILED b"}, wantLen: 0},
		{name: "missing", expected: []string{"AMBIGUOUS"}, wantLen: 1},
		{name: "unexpected", actual: []string{"FAILED: object X"}, wantLen: 1},
		{name: "both", expected: []string{"E100"}, actual: []string{"E101"}, wantLen: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, assertErrors(tt.expected, tt.actual), tt.wantLen)
		})
	}
}

func TestAssertDerive(t *testing.T) {
	results := []QueryResult{{Context: "X", Path: "Y", Outcome: "success", Tree: "ROOT (X)\n"}}

	assert.NoError(t, assertDerive(DeriveQuery{Context: "X", Path: "Y", Outcome: "success"}, results))

	err := assertDerive(DeriveQuery{Context: "X", Path: "Y", Outcome: "failure"}, results)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "derive", ae.Type)
	assert.Contains(t, ae.Actual, "ROOT (X)")

	assert.NoError(t, assertDerive(DeriveQuery{Context: "Z", Path: "Y", Outcome: "success"}, results))
}

func TestAssertDecision_NoPipeline(t *testing.T) {
	err := assertDecision(ExpectDecision{Context: "Door.Push", Kind: KindSelection, Leaves: 1}, NewResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model did not load")
}

func TestStepKindAndLeaves(t *testing.T) {
	leaf := func() decision.Step { return &decision.Assignments{} }
	root := &decision.Selection{StepBase: decision.StepBase{Children: []decision.Step{
		&decision.Boolean{StepBase: decision.StepBase{Children: []decision.Step{leaf(), leaf()}}},
		leaf(),
	}}}
	p := &decision.Procedure{Root: root}

	assert.Equal(t, KindSelection, StepKind(root))
	assert.Equal(t, KindBoolean, StepKind(root.Children[0]))
	assert.Equal(t, KindAssignments, StepKind(root.Children[1]))
	assert.Equal(t, 3, CountLeaves(p))
}
