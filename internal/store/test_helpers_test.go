package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/megac/internal/ir"
)

// createTestStore opens a store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPass returns a succeeded pass record.
func createTestPass(id, modelHash string, seq int64) ir.PassRecord {
	return ir.PassRecord{
		ID:        id,
		ModelHash: modelHash,
		IRVersion: ir.IRVersion,
		Seq:       seq,
		Status:    ir.PassSucceeded,
	}
}

// createTestDerivation returns a sealed transition derivation record.
func createTestDerivation(t *testing.T, passID, context, path string, seq int64) ir.DerivationRecord {
	t.Helper()
	d := ir.DerivationRecord{
		PassID:  passID,
		Object:  "Door",
		Context: context,
		Kind:    ir.KindTransition,
		Path:    path,
		Outcome: "success",
		Tree:    "ROOT (" + context + ")\n",
		Seq:     seq,
	}
	id, err := ir.DerivationID(d)
	if err != nil {
		t.Fatalf("DerivationID() failed: %v", err)
	}
	d.ID = id
	return d
}

// createTestDecision returns a sealed decision record with a small
// procedure tree.
func createTestDecision(t *testing.T, passID, context string, seq int64) ir.DecisionRecord {
	t.Helper()
	d := ir.DecisionRecord{
		PassID:          passID,
		Object:          "Door",
		Context:         context,
		CommonAncestor:  "Door",
		InstanceDivider: 1,
		Procedure: ir.Object{
			"common_ancestor":  ir.String("Door"),
			"instance_divider": ir.Int(1),
			"root": ir.Object{
				"type":              ir.String("selection"),
				"variables":         ir.Strings([]string{"Door.Open", "Door.Closed"}),
				"variable_ordering": ir.Ints([]int{0, 1}),
			},
		},
		Seq: seq,
	}
	id, err := ir.DecisionID(d)
	if err != nil {
		t.Fatalf("DecisionID() failed: %v", err)
	}
	d.ID = id
	return d
}
