package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/megac/internal/decision"
	"github.com/roach88/megac/internal/derivation"
	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/ir"
)

// Pipeline compiles a model. Create one with New; a Pipeline may be Run
// more than once.
type Pipeline struct {
	model          *graph.Model
	logger         *slog.Logger
	workers        int
	clock          Clock
	ids            PassIDGenerator
	metrics        *Metrics
	failFast       bool
	showEliminated bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithWorkers bounds the number of objects compiled at once. Values below 1
// mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithClock sets the clock that stamps artifact sequence numbers.
func WithClock(c Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithPassIDGenerator sets the pass ID source. Default: UUIDv7Generator.
func WithPassIDGenerator(g PassIDGenerator) Option {
	return func(p *Pipeline) { p.ids = g }
}

// WithMetrics records pass metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithFailFast cancels the remaining objects after the first failure.
// Without it every object is compiled and the failures are joined.
func WithFailFast(on bool) Option {
	return func(p *Pipeline) { p.failFast = on }
}

// WithShowEliminated keeps eliminated edges in rendered derivation trees.
func WithShowEliminated(on bool) Option {
	return func(p *Pipeline) { p.showEliminated = on }
}

// New creates a pipeline for m.
func New(m *graph.Model, opts ...Option) *Pipeline {
	p := &Pipeline{
		model:  m,
		logger: slog.Default(),
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Run compiles every object of the model.
//
// The returned Result is non-nil whenever the model could be hashed, even
// if objects failed; the error then joins the PassErrors of the failed
// objects. With fail-fast the error is the first failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	hash, err := ModelHash(p.model)
	if err != nil {
		return nil, err
	}

	objects := p.model.Objects()
	result := &Result{
		PassID:    p.ids.Generate(),
		ModelHash: hash,
		Objects:   make([]*ObjectResult, len(objects)),
	}
	p.logger.Info("pass starting",
		"pass_id", result.PassID,
		"model_hash", hash,
		"objects", len(objects),
		"workers", p.workers,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, obj := range objects {
		g.Go(func() error {
			res := p.compileObject(gctx, obj)
			result.Objects[i] = res
			if res.Err != nil && p.failFast {
				return res.Err
			}
			return nil
		})
	}
	firstErr := g.Wait()

	result.stamp(p.clock)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if firstErr != nil {
		return result, firstErr
	}

	err = result.Err()
	p.logger.Info("pass finished",
		"pass_id", result.PassID,
		"derivations", countDerivations(result),
		"decisions", countDecisions(result),
		"failed", len(PassErrors(err)),
	)
	return result, err
}

// TruthTable solves the truth table of obj's automaton. The variables are
// sorted and give the column order of the rows. Objects without an
// automaton have neither.
func TruthTable(obj *graph.Vertex) ([]*graph.AutomatonVertex, []decision.Row) {
	root := obj.Automaton()
	if root == nil {
		return nil, nil
	}
	return graph.SortAutomata(decision.CollectVariables(root)), decision.SolveTruthTable(root)
}

// ModelHash returns the content hash of m's structure, the key passes are
// cached under.
func ModelHash(m *graph.Model) (string, error) {
	hash, err := ir.ModelHash(DescribeModel(m))
	if err != nil {
		return "", fmt.Errorf("hashing model: %w", err)
	}
	return hash, nil
}

func countDerivations(r *Result) int {
	n := 0
	for _, o := range r.Objects {
		n += len(o.Derivations)
	}
	return n
}

func countDecisions(r *Result) int {
	n := 0
	for _, o := range r.Objects {
		n += len(o.Decisions)
	}
	return n
}

func (p *Pipeline) compileObject(ctx context.Context, obj *graph.Vertex) *ObjectResult {
	start := time.Now()
	res := &ObjectResult{Object: obj}
	status := "succeeded"
	if err := p.compileUnit(ctx, obj, res); err != nil {
		res.Err = err
		status = "failed"
	}
	p.metrics.observeObject(status, time.Since(start).Seconds())
	return res
}

// compileUnit runs the stages for one object: transitions, deciders,
// interupt dispatches, the truth table, then decisions.
func (p *Pipeline) compileUnit(ctx context.Context, obj *graph.Vertex, res *ObjectResult) error {
	contexts := p.model.Contexts(obj)

	var transitionContexts []*graph.Vertex
	transitions := make(map[*graph.Vertex][]decision.Derivation)
	for _, c := range contexts {
		if len(c.Transitions) == 0 || (!c.IsStateLike() && c.ContextKind != graph.ContextInterupt) {
			continue
		}
		for _, path := range c.Transitions {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := p.solve(res, c, path, ir.KindTransition)
			if err != nil {
				return p.fail(obj, c, err)
			}
			transitions[c] = append(transitions[c], d)
		}
		transitionContexts = append(transitionContexts, c)
	}

	var deciders []decision.Decider
	for _, c := range p.model.Deciders(obj) {
		dec := decision.Decider{Context: c}
		for _, path := range c.Events {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := p.solve(res, c, path, ir.KindDecider)
			if err != nil {
				return p.fail(obj, c, err)
			}
			dec.Events = append(dec.Events, d)
		}
		deciders = append(deciders, dec)
	}

	for _, c := range contexts {
		if c.ContextKind != graph.ContextInterupt {
			continue
		}
		for _, path := range c.Events {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.dispatch(res, c, path); err != nil {
				return p.fail(obj, c, err)
			}
		}
	}

	res.Variables, res.TruthTable = TruthTable(obj)

	for _, c := range transitionContexts {
		if err := ctx.Err(); err != nil {
			return err
		}
		states, err := decision.CollectDerivationStates(c, transitions[c])
		if err != nil {
			p.metrics.observeDecision("failed")
			return p.fail(obj, c, err)
		}
		proc, err := decision.CompileDecision(c, states, deciders)
		if err != nil {
			p.metrics.observeDecision("failed")
			return p.fail(obj, c, err)
		}
		p.metrics.observeDecision("compiled")
		p.logger.Debug("decision compiled",
			"context", c.FullName(),
			"common_ancestor", proc.CommonAncestor.FullName(),
			"instance_divider", proc.InstanceDivider,
		)
		res.Decisions = append(res.Decisions, Decision{Context: c, Procedure: proc})
	}
	return nil
}

func newPolicy(kind ir.DerivationKind, arena *derivation.Arena) derivation.Policy {
	switch kind {
	case ir.KindTransition:
		return derivation.NewTransitionPolicy(arena)
	case ir.KindDecider:
		return derivation.NewDeciderPolicy(arena)
	case ir.KindInterupt:
		return derivation.NewInteruptPolicy(arena)
	default:
		return derivation.NewInvocationPolicy(arena)
	}
}

// solve derives path from c and requires a successful disambiguation. The
// rendered tree is recorded whether or not it succeeds.
func (p *Pipeline) solve(res *ObjectResult, c *graph.Vertex, path graph.TypePath, kind ir.DerivationKind) (decision.Derivation, error) {
	spec, err := derivation.NewSpecFromTypePath(p.model, []*graph.Vertex{c}, path)
	if err != nil {
		return decision.Derivation{}, fmt.Errorf("%s %s: %w", kind, path, err)
	}

	arena := derivation.NewArena()
	root, final, err := derivation.Solve(spec, newPolicy(kind, arena))
	if err != nil {
		return decision.Derivation{}, err
	}
	if len(final) == 0 {
		p.metrics.observeDerivation(string(kind), derivation.Failure.String())
		return decision.Derivation{}, failedDerivation(c, arena, root)
	}

	derivation.Precedence(arena, root)
	outcome, err := derivation.Disambiguate(arena, root, final)
	if err != nil {
		return decision.Derivation{}, err
	}
	tree := derivation.Sprint(arena, root, p.showEliminated)
	p.metrics.observeDerivation(string(kind), outcome.String())
	res.Derivations = append(res.Derivations, Derivation{
		Context: c,
		Kind:    kind,
		Path:    path,
		Outcome: outcome,
		Tree:    tree,
	})
	p.logger.Debug("derivation solved",
		"context", c.FullName(),
		"kind", kind,
		"path", path.String(),
		"outcome", outcome.String(),
	)

	if err := derivation.OutcomeError(outcome, c, derivation.Sprint(arena, root, true)); err != nil {
		return decision.Derivation{}, err
	}
	return decision.Derivation{Arena: arena, Root: root}, nil
}

// dispatch derives an interupt event path and builds its dispatch chains.
// Interupt derivations are not disambiguated.
func (p *Pipeline) dispatch(res *ObjectResult, c *graph.Vertex, path graph.TypePath) error {
	spec, err := derivation.NewSpecFromTypePath(p.model, []*graph.Vertex{c}, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ir.KindInterupt, path, err)
	}

	arena := derivation.NewArena()
	root, final, err := derivation.Solve(spec, derivation.NewInteruptPolicy(arena))
	if err != nil {
		return err
	}
	if len(final) == 0 {
		p.metrics.observeDerivation(string(ir.KindInterupt), derivation.Failure.String())
		return failedDerivation(c, arena, root)
	}
	derivation.Precedence(arena, root)
	p.metrics.observeDerivation(string(ir.KindInterupt), derivation.Success.String())
	res.Derivations = append(res.Derivations, Derivation{
		Context: c,
		Kind:    ir.KindInterupt,
		Path:    path,
		Outcome: derivation.Success,
		Tree:    derivation.Sprint(arena, root, p.showEliminated),
	})

	dispatches, err := derivation.BuildEventDispatches(arena, root, final)
	if err != nil {
		return err
	}
	for _, d := range dispatches {
		res.Dispatches = append(res.Dispatches, EventDispatch{
			Interupt: c,
			Event:    d.Event,
			Path:     path,
			Dispatch: derivation.Sprint(arena, d.Node, false),
		})
	}
	p.metrics.observeDispatches(len(dispatches))
	return nil
}

func failedDerivation(c *graph.Vertex, arena *derivation.Arena, root derivation.NodeID) error {
	return &derivation.Error{
		Code:    derivation.ErrCodeDerivationFailed,
		Message: "derivation failed for: " + c.FullName(),
		Tree:    derivation.Sprint(arena, root, true),
	}
}

func (p *Pipeline) fail(obj, c *graph.Vertex, err error) error {
	pe := &PassError{
		Code:    ErrorCode(err),
		Object:  obj.FullName(),
		Context: c.FullName(),
		Err:     err,
	}
	p.logger.Warn("object compilation failed",
		"object", pe.Object,
		"context", pe.Context,
		"code", pe.Code,
	)
	return pe
}
