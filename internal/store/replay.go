package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/megac/internal/ir"
)

// ReadRecords loads a pass and all its artifacts.
func (s *Store) ReadRecords(ctx context.Context, passID string) (ir.Records, error) {
	pass, err := s.ReadPass(ctx, passID)
	if err != nil {
		return ir.Records{}, err
	}
	derivations, err := s.ReadDerivations(ctx, passID)
	if err != nil {
		return ir.Records{}, err
	}
	decisions, err := s.ReadDecisions(ctx, passID)
	if err != nil {
		return ir.Records{}, err
	}
	return ir.Records{Pass: pass, Derivations: derivations, Decisions: decisions}, nil
}

// VerifyPass recomputes the content hash of every artifact of a pass and
// reports the first one that does not match its stored ID.
func (s *Store) VerifyPass(ctx context.Context, passID string) error {
	rs, err := s.ReadRecords(ctx, passID)
	if err != nil {
		return err
	}
	for _, d := range rs.Derivations {
		id, err := ir.DerivationID(d)
		if err != nil {
			return err
		}
		if id != d.ID {
			return fmt.Errorf("derivation %s: content hash is %s", d.ID, id)
		}
	}
	for _, d := range rs.Decisions {
		id, err := ir.DecisionID(d)
		if err != nil {
			return err
		}
		if id != d.ID {
			return fmt.Errorf("decision %s: content hash is %s", d.ID, id)
		}
	}
	return nil
}

// GetLastSeq returns the highest seq stored in any table, or 0 for an empty
// store. A pipeline clock created with NewClockAt(GetLastSeq()) keeps
// numbering monotonic across passes.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM (
			SELECT MAX(seq) AS seq FROM passes
			UNION ALL
			SELECT MAX(seq) FROM derivations
			UNION ALL
			SELECT MAX(seq) FROM decisions
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}
