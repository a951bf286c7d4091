package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/megac/internal/compiler"
	"github.com/roach88/megac/internal/graph"
	"github.com/roach88/megac/internal/pipeline"
	"github.com/roach88/megac/internal/testutil"
)

// Harness runs scenarios. The zero value is not usable; call New.
type Harness struct {
	logger  *slog.Logger
	workers int
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed to the pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithWorkers sets the pipeline parallelism.
func WithWorkers(n int) Option {
	return func(h *Harness) { h.workers = n }
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers: 1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run loads the scenario's model, compiles it, resolves the derive queries
// and evaluates every expectation. Load failures and pass errors are
// results to check against expect_errors, not errors; the error return is
// for a cancelled context.
//
// Every run uses a fresh step clock and the default fixed pass ID, and does
// not stop at the first failed object.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	m, err := loadModel(scenario.Model)
	if err != nil {
		result.Actual = append(result.Actual, err.Error())
		EvaluateAssertions(scenario, result)
		return result, nil
	}

	p := pipeline.New(m,
		pipeline.WithLogger(h.logger),
		pipeline.WithWorkers(h.workers),
		pipeline.WithClock(testutil.NewStepClock()),
		pipeline.WithPassIDGenerator(testutil.DefaultPassID),
		pipeline.WithFailFast(false),
	)
	res, err := p.Run(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	result.Pipeline = res
	result.Actual = append(result.Actual, errorStrings(err)...)

	for _, q := range scenario.Derive {
		qr, err := resolve(m, q)
		if err != nil {
			result.AddError(fmt.Sprintf("derive %s %s: %v", q.Context, q.Path, err))
			continue
		}
		result.Queries = append(result.Queries, qr)
	}

	EvaluateAssertions(scenario, result)
	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func loadModel(src ModelSource) (*graph.Model, error) {
	var (
		res *compiler.LoadResult
		err error
	)
	if src.Source != "" {
		res, err = compiler.LoadSource("model.cue", src.Source)
	} else {
		res, err = compiler.LoadFiles(src.Files)
	}
	if err != nil {
		return nil, err
	}
	return res.Model, nil
}

func resolve(m *graph.Model, q DeriveQuery) (QueryResult, error) {
	c, ok := m.Lookup(q.Context)
	if !ok {
		return QueryResult{}, fmt.Errorf("unknown context %q", q.Context)
	}
	path, err := graph.ParseTypePath(q.Path)
	if err != nil {
		return QueryResult{}, err
	}
	r, err := pipeline.Resolve(m, c, path)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{
		Context: q.Context,
		Path:    path.String(),
		Outcome: r.Outcome.String(),
		Tree:    r.Tree(true),
	}, nil
}

// errorStrings flattens a pass error into one string per failed object.
func errorStrings(err error) []string {
	if err == nil {
		return nil
	}
	pes := pipeline.PassErrors(err)
	if len(pes) == 0 {
		return []string{err.Error()}
	}
	out := make([]string, len(pes))
	for i, pe := range pes {
		out[i] = pe.Error()
	}
	return out
}
