package pipeline

import (
	"fmt"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/ir"
)

// Records converts the result into sealed ir records. A pass with any
// failed object is recorded as failed; its successful artifacts are kept.
func (r *Result) Records() (ir.Records, error) {
	status := ir.PassSucceeded
	if r.Err() != nil {
		status = ir.PassFailed
	}
	rs := ir.Records{
		Pass: ir.PassRecord{
			ID:        r.PassID,
			ModelHash: r.ModelHash,
			IRVersion: ir.IRVersion,
			Seq:       r.Seq,
			Status:    status,
		},
	}

	for _, o := range r.Objects {
		for _, d := range o.Derivations {
			rs.Derivations = append(rs.Derivations, ir.DerivationRecord{
				PassID:  r.PassID,
				Object:  o.Object.Name,
				Context: d.Context.FullName(),
				Kind:    d.Kind,
				Path:    d.Path.String(),
				Outcome: d.Outcome.String(),
				Tree:    d.Tree,
				Seq:     d.Seq,
			})
		}
		for _, d := range o.Dispatches {
			rs.Derivations = append(rs.Derivations, ir.DerivationRecord{
				PassID:  r.PassID,
				Object:  o.Object.Name,
				Context: d.Interupt.FullName(),
				Kind:    ir.KindDispatch,
				Path:    d.Path.String(),
				Outcome: d.Event.FullName(),
				Tree:    d.Dispatch,
				Seq:     d.Seq,
			})
		}
		for _, d := range o.Decisions {
			rs.Decisions = append(rs.Decisions, ir.DecisionRecord{
				PassID:          r.PassID,
				Object:          o.Object.Name,
				Context:         d.Context.FullName(),
				CommonAncestor:  d.Procedure.CommonAncestor.FullName(),
				InstanceDivider: d.Procedure.InstanceDivider,
				Procedure:       EncodeProcedure(d.Procedure),
				Seq:             d.Seq,
			})
		}
	}

	if err := rs.Seal(); err != nil {
		return ir.Records{}, fmt.Errorf("sealing pass %s: %w", r.PassID, err)
	}
	return rs, nil
}

// EncodeProcedure converts a decision procedure into an ir object tree.
func EncodeProcedure(p *decision.Procedure) ir.Object {
	return ir.Object{
		"common_ancestor":  ir.String(p.CommonAncestor.FullName()),
		"instance_divider": ir.Int(p.InstanceDivider),
		"root":             encodeStep(p.Root),
	}
}

func encodeStep(step decision.Step) ir.Object {
	base := step.Base()
	obj := ir.Object{
		"assignment": automatonNames(base.Assignment),
		"true_vars":  automatonNames(base.TrueVars),
		"false_vars": automatonNames(base.FalseVars),
	}
	if base.Decider != nil {
		obj["decider"] = ir.String(base.Decider.FullName())
	}

	switch s := step.(type) {
	case *decision.Selection:
		obj["type"] = ir.String("selection")
		obj["variables"] = automatonNames(s.Variables)
		obj["variable_ordering"] = ir.Ints(s.VariableOrdering)
	case *decision.Boolean:
		obj["type"] = ir.String("boolean")
		obj["variable"] = ir.String(s.Variable.String())
	case *decision.Assignments:
		obj["type"] = ir.String("assignments")
		writes := make(ir.Array, len(s.Assignments))
		for i, a := range s.Assignments {
			writes[i] = ir.Object{
				"value":               ir.Bool(a.Value),
				"variable":            ir.String(a.Variable.String()),
				"instance_multiplier": ir.Int(a.InstanceMultiplier),
			}
		}
		obj["assignments"] = writes
	}

	if len(base.Children) > 0 {
		children := make(ir.Array, len(base.Children))
		for i, c := range base.Children {
			children[i] = encodeStep(c)
		}
		obj["children"] = children
	}
	return obj
}

func automatonNames(vs []*graph.AutomatonVertex) ir.Array {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return ir.Strings(names)
}

// DescribeModel returns the canonical description of a model that its hash
// is computed from. Vertices appear in ID order with their out edges in
// construction order.
func DescribeModel(m *graph.Model) ir.Object {
	vertices := make(ir.Array, 0, len(m.Vertices()))
	for _, v := range m.Vertices() {
		edges := make(ir.Array, 0, len(v.OutEdges()))
		for _, e := range v.OutEdges() {
			edges = append(edges, ir.Object{
				"type":   ir.String(e.Type.String()),
				"target": ir.Int(e.Target.ID),
			})
		}
		desc := ir.Object{
			"id":          ir.Int(v.ID),
			"name":        ir.String(v.FullName()),
			"kind":        ir.String(v.Kind.String()),
			"size":        ir.Int(v.LocalSize),
			"transitions": typePaths(v.Transitions),
			"events":      typePaths(v.Events),
			"edges":       edges,
		}
		if v.IsContext() {
			desc["context_kind"] = ir.String(v.ContextKind.String())
		}
		if v.IsOwnershipLink() {
			desc["ownership"] = ir.Bool(true)
		}
		if a := v.Automaton(); a != nil {
			desc["automaton"] = ir.String(a.Kind.String())
		}
		vertices = append(vertices, desc)
	}
	return ir.Object{"vertices": vertices}
}

func typePaths(ps []graph.TypePath) ir.Array {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return ir.Strings(out)
}
