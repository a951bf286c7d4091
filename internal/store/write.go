package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/megac/internal/ir"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WritePass inserts a pass record. Duplicate IDs are silently ignored.
func (s *Store) WritePass(ctx context.Context, p ir.PassRecord) error {
	return writePass(ctx, s.db, p)
}

// WriteDerivation inserts a derivation record. The pass must already exist
// (foreign key). Duplicate IDs are silently ignored.
func (s *Store) WriteDerivation(ctx context.Context, d ir.DerivationRecord) error {
	return writeDerivation(ctx, s.db, d)
}

// WriteDecision inserts a decision record. The procedure is stored as
// canonical JSON. Duplicate IDs are silently ignored.
func (s *Store) WriteDecision(ctx context.Context, d ir.DecisionRecord) error {
	return writeDecision(ctx, s.db, d)
}

// WriteRecords writes a sealed pass and all its artifacts in one
// transaction.
func (s *Store) WriteRecords(ctx context.Context, rs ir.Records) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write records: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := writePass(ctx, tx, rs.Pass); err != nil {
		return err
	}
	for _, d := range rs.Derivations {
		if err := writeDerivation(ctx, tx, d); err != nil {
			return err
		}
	}
	for _, d := range rs.Decisions {
		if err := writeDecision(ctx, tx, d); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write records: commit: %w", err)
	}
	return nil
}

func writePass(ctx context.Context, db execer, p ir.PassRecord) error {
	if p.ID == "" {
		return fmt.Errorf("write pass: empty id")
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO passes (id, model_hash, ir_version, seq, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.ID, p.ModelHash, p.IRVersion, p.Seq, string(p.Status))
	if err != nil {
		return fmt.Errorf("write pass %s: %w", p.ID, err)
	}
	return nil
}

func writeDerivation(ctx context.Context, db execer, d ir.DerivationRecord) error {
	if d.ID == "" {
		return fmt.Errorf("write derivation: %s has no id (records not sealed)", d.Context)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO derivations (id, pass_id, object, context, kind, path, outcome, tree, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, d.ID, d.PassID, d.Object, d.Context, string(d.Kind), d.Path, d.Outcome, d.Tree, d.Seq)
	if err != nil {
		return fmt.Errorf("write derivation %s: %w", d.ID, err)
	}
	return nil
}

func writeDecision(ctx context.Context, db execer, d ir.DecisionRecord) error {
	if d.ID == "" {
		return fmt.Errorf("write decision: %s has no id (records not sealed)", d.Context)
	}
	procJSON, err := marshalProcedure(d.Procedure)
	if err != nil {
		return fmt.Errorf("write decision %s: %w", d.ID, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO decisions (id, pass_id, object, context, common_ancestor, instance_divider, procedure, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, d.ID, d.PassID, d.Object, d.Context, d.CommonAncestor, d.InstanceDivider, procJSON, d.Seq)
	if err != nil {
		return fmt.Errorf("write decision %s: %w", d.ID, err)
	}
	return nil
}
