package store

import (
	"context"
	"testing"

	"github.com/roach88/megac/internal/ir"
)

func TestWritePass_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	p := createTestPass("pass-1", "hash-a", 1)

	for i := 0; i < 2; i++ {
		if err := s.WritePass(ctx, p); err != nil {
			t.Fatalf("WritePass() attempt %d failed: %v", i, err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM passes").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("passes count = %d, want 1", count)
	}
}

func TestWritePass_EmptyID(t *testing.T) {
	s := createTestStore(t)
	if err := s.WritePass(context.Background(), ir.PassRecord{}); err == nil {
		t.Error("expected error for empty pass id")
	}
}

func TestWriteDerivation_RequiresPass(t *testing.T) {
	s := createTestStore(t)
	d := createTestDerivation(t, "missing-pass", "Door.Push", "Open", 2)

	if err := s.WriteDerivation(context.Background(), d); err == nil {
		t.Error("expected foreign key error for unknown pass")
	}
}

func TestWriteDerivation_RequiresSealedID(t *testing.T) {
	s := createTestStore(t)
	d := createTestDerivation(t, "pass-1", "Door.Push", "Open", 2)
	d.ID = ""

	if err := s.WriteDerivation(context.Background(), d); err == nil {
		t.Error("expected error for unsealed derivation")
	}
}

func TestWriteDerivation_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	if err := s.WritePass(ctx, createTestPass("pass-1", "hash-a", 1)); err != nil {
		t.Fatal(err)
	}
	d := createTestDerivation(t, "pass-1", "Door.Push", "Open", 2)

	for i := 0; i < 3; i++ {
		if err := s.WriteDerivation(ctx, d); err != nil {
			t.Fatalf("WriteDerivation() attempt %d failed: %v", i, err)
		}
	}

	got, err := s.ReadDerivations(ctx, "pass-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("derivations = %d, want 1", len(got))
	}
}

func TestWriteDecision_StoresCanonicalProcedure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	if err := s.WritePass(ctx, createTestPass("pass-1", "hash-a", 1)); err != nil {
		t.Fatal(err)
	}
	d := createTestDecision(t, "pass-1", "Door.Push", 3)
	if err := s.WriteDecision(ctx, d); err != nil {
		t.Fatalf("WriteDecision() failed: %v", err)
	}

	var stored string
	if err := s.db.QueryRow("SELECT procedure FROM decisions WHERE id = ?", d.ID).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	want, err := ir.MarshalCanonical(d.Procedure)
	if err != nil {
		t.Fatal(err)
	}
	if stored != string(want) {
		t.Errorf("stored procedure = %s, want %s", stored, want)
	}
}

func TestWriteDecision_NilProcedure(t *testing.T) {
	s := createTestStore(t)
	d := createTestDecision(t, "pass-1", "Door.Push", 3)
	d.Procedure = nil

	if err := s.WriteDecision(context.Background(), d); err == nil {
		t.Error("expected error for nil procedure")
	}
}

func TestWriteRecords_RollsBackOnFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	bad := createTestDerivation(t, "pass-1", "Door.Push", "Open", 2)
	bad.ID = ""
	rs := ir.Records{
		Pass:        createTestPass("pass-1", "hash-a", 1),
		Derivations: []ir.DerivationRecord{bad},
	}
	if err := s.WriteRecords(ctx, rs); err == nil {
		t.Fatal("expected WriteRecords() to fail")
	}

	passes, err := s.ListPasses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(passes) != 0 {
		t.Errorf("pass survived rollback: %+v", passes)
	}
}
