package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/megac/internal/ir"
)

// ErrPassNotFound is returned when a pass ID is unknown.
var ErrPassNotFound = errors.New("pass not found")

// ReadPass returns the pass with the given ID.
func (s *Store) ReadPass(ctx context.Context, passID string) (ir.PassRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, model_hash, ir_version, seq, status
		FROM passes
		WHERE id = ?
	`, passID)
	p, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.PassRecord{}, fmt.Errorf("read pass %s: %w", passID, ErrPassNotFound)
	}
	if err != nil {
		return ir.PassRecord{}, fmt.Errorf("read pass %s: %w", passID, err)
	}
	return p, nil
}

// LatestPassForModel returns the newest succeeded pass for modelHash and
// whether one exists. Newest means the highest seq, ties broken by id.
func (s *Store) LatestPassForModel(ctx context.Context, modelHash string) (ir.PassRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, model_hash, ir_version, seq, status
		FROM passes
		WHERE model_hash = ? AND status = ? AND ir_version = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, modelHash, string(ir.PassSucceeded), ir.IRVersion)
	p, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.PassRecord{}, false, nil
	}
	if err != nil {
		return ir.PassRecord{}, false, fmt.Errorf("latest pass for model: %w", err)
	}
	return p, true, nil
}

// ListPasses returns every pass ordered by seq ASC, id ASC COLLATE BINARY.
func (s *Store) ListPasses(ctx context.Context) ([]ir.PassRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model_hash, ir_version, seq, status
		FROM passes
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	passes := []ir.PassRecord{}
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passes: %w", err)
	}
	return passes, nil
}

// ReadDerivations returns the derivations of a pass ordered by seq ASC,
// id ASC COLLATE BINARY. It returns an empty slice, not nil, when there are
// none.
func (s *Store) ReadDerivations(ctx context.Context, passID string) ([]ir.DerivationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pass_id, object, context, kind, path, outcome, tree, seq
		FROM derivations
		WHERE pass_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, passID)
	if err != nil {
		return nil, fmt.Errorf("query derivations: %w", err)
	}
	defer rows.Close()

	derivations := []ir.DerivationRecord{}
	for rows.Next() {
		var d ir.DerivationRecord
		var kind string
		if err := rows.Scan(&d.ID, &d.PassID, &d.Object, &d.Context, &kind, &d.Path, &d.Outcome, &d.Tree, &d.Seq); err != nil {
			return nil, fmt.Errorf("scan derivation: %w", err)
		}
		d.Kind = ir.DerivationKind(kind)
		derivations = append(derivations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate derivations: %w", err)
	}
	return derivations, nil
}

// ReadDecisions returns the decisions of a pass ordered by seq ASC,
// id ASC COLLATE BINARY.
func (s *Store) ReadDecisions(ctx context.Context, passID string) ([]ir.DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pass_id, object, context, common_ancestor, instance_divider, procedure, seq
		FROM decisions
		WHERE pass_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, passID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	decisions := []ir.DecisionRecord{}
	for rows.Next() {
		var d ir.DecisionRecord
		var procJSON string
		if err := rows.Scan(&d.ID, &d.PassID, &d.Object, &d.Context, &d.CommonAncestor, &d.InstanceDivider, &procJSON, &d.Seq); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if d.Procedure, err = unmarshalProcedure(procJSON); err != nil {
			return nil, fmt.Errorf("decision %s: %w", d.ID, err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return decisions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPass(row scanner) (ir.PassRecord, error) {
	var p ir.PassRecord
	var status string
	if err := row.Scan(&p.ID, &p.ModelHash, &p.IRVersion, &p.Seq, &status); err != nil {
		return ir.PassRecord{}, err
	}
	p.Status = ir.PassStatus(status)
	return p, nil
}
