package ir

import "fmt"

// PassStatus is the final state of a compilation pass.
type PassStatus string

const (
	PassSucceeded PassStatus = "succeeded"
	PassFailed    PassStatus = "failed"
)

// DerivationKind names the policy a derivation was solved with.
type DerivationKind string

const (
	KindTransition DerivationKind = "transition"
	KindDecider    DerivationKind = "decider"
	KindInterupt   DerivationKind = "interupt"
	KindInvocation DerivationKind = "invocation"

	// KindDispatch records an event dispatch chain built from an interupt
	// derivation. Its Tree is the chain from the event back to the interupt.
	KindDispatch DerivationKind = "dispatch"
)

// PassRecord describes one compilation pass over a model.
type PassRecord struct {
	ID        string     `json:"id"`
	ModelHash string     `json:"model_hash"`
	IRVersion string     `json:"ir_version"`
	Seq       int64      `json:"seq"`
	Status    PassStatus `json:"status"`
}

// DerivationRecord is one solved type path. Tree is the printed derivation
// with eliminated edges shown.
type DerivationRecord struct {
	ID      string         `json:"id"`
	PassID  string         `json:"pass_id"`
	Object  string         `json:"object"`
	Context string         `json:"context"`
	Kind    DerivationKind `json:"kind"`
	Path    string         `json:"path"`
	Outcome string         `json:"outcome"`
	Tree    string         `json:"tree"`
	Seq     int64          `json:"seq"`
}

// DecisionRecord is one compiled decision procedure. Procedure is the
// structured step tree.
type DecisionRecord struct {
	ID              string `json:"id"`
	PassID          string `json:"pass_id"`
	Object          string `json:"object"`
	Context         string `json:"context"`
	CommonAncestor  string `json:"common_ancestor"`
	InstanceDivider int64  `json:"instance_divider"`
	Procedure       Object `json:"procedure"`
	Seq             int64  `json:"seq"`
}

// Records is everything a pass produced, ready to persist.
type Records struct {
	Pass        PassRecord         `json:"pass"`
	Derivations []DerivationRecord `json:"derivations"`
	Decisions   []DecisionRecord   `json:"decisions"`
}

func (r DerivationRecord) content() Object {
	return Object{
		"pass_id": String(r.PassID),
		"object":  String(r.Object),
		"context": String(r.Context),
		"kind":    String(r.Kind),
		"path":    String(r.Path),
		"outcome": String(r.Outcome),
		"tree":    String(r.Tree),
		"seq":     Int(r.Seq),
	}
}

func (r DecisionRecord) content() Object {
	return Object{
		"pass_id":          String(r.PassID),
		"object":           String(r.Object),
		"context":          String(r.Context),
		"common_ancestor":  String(r.CommonAncestor),
		"instance_divider": Int(r.InstanceDivider),
		"procedure":        r.Procedure,
		"seq":              Int(r.Seq),
	}
}

// DerivationID computes the content-addressed ID of r. The ID field itself
// is not part of the content.
func DerivationID(r DerivationRecord) (string, error) {
	id, err := ArtifactHash(DomainDerivation, r.content())
	if err != nil {
		return "", fmt.Errorf("DerivationID: %w", err)
	}
	return id, nil
}

// DecisionID computes the content-addressed ID of r.
func DecisionID(r DecisionRecord) (string, error) {
	if r.Procedure == nil {
		return "", fmt.Errorf("DecisionID: %s has no procedure", r.Context)
	}
	id, err := ArtifactHash(DomainDecision, r.content())
	if err != nil {
		return "", fmt.Errorf("DecisionID: %w", err)
	}
	return id, nil
}

// Seal fills in every record ID.
func (rs *Records) Seal() error {
	for i := range rs.Derivations {
		id, err := DerivationID(rs.Derivations[i])
		if err != nil {
			return err
		}
		rs.Derivations[i].ID = id
	}
	for i := range rs.Decisions {
		id, err := DecisionID(rs.Decisions[i])
		if err != nil {
			return err
		}
		rs.Decisions[i].ID = id
	}
	return nil
}
