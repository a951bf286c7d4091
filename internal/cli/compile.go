package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/ir"
	"github.com/roach88/megac/internal/pipeline"
	"github.com/roach88/megac/internal/store"
)

// CompileOptions holds flags for the compile command. Empty Store and
// MetricsOut fall back to the configuration.
type CompileOptions struct {
	*RootOptions
	Store      string
	MetricsOut string
	Workers    int
	Watch      bool
	Force      bool
}

// CompileReport is the JSON payload of a compile run.
type CompileReport struct {
	PassID    string         `json:"pass_id"`
	ModelHash string         `json:"model_hash"`
	Cached    bool           `json:"cached"`
	Objects   []ObjectReport `json:"objects"`
}

// ObjectReport counts the artifacts compiled for one object.
type ObjectReport struct {
	Object      string    `json:"object"`
	Derivations int       `json:"derivations"`
	Dispatches  int       `json:"dispatches"`
	Decisions   int       `json:"decisions"`
	Error       *CLIError `json:"error,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <model-dir>",
		Short: "Compile a model's derivations and decision procedures",
		Long: `Compile every object of a CUE model: solve and disambiguate transition,
decider and interupt derivations, build event dispatches, and compile a
decision procedure for every context with transitions.

With --store, artifacts are written to SQLite and a pass for an unchanged
model is reused instead of recompiled. With --watch, the model is
recompiled whenever a .cue file changes.

Exit codes:
  0 - All objects compiled
  1 - One or more objects failed
  2 - Command error (model not found, invalid model, store error)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return watchCompile(cmd.Context(), opts, args[0], cmd)
			}
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite artifact store (default: store.path from config)")
	cmd.Flags().StringVar(&opts.MetricsOut, "metrics-out", "", "write Prometheus metrics to this textfile (default: metrics.path from config)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "objects compiled in parallel (default: compile.workers from config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "recompile when .cue files change")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "recompile even if the store holds a pass for this model")

	return cmd
}

func (o *CompileOptions) storePath() string {
	if o.Store != "" {
		return o.Store
	}
	return o.Config.Store.Path
}

func (o *CompileOptions) metricsPath() string {
	if o.MetricsOut != "" {
		return o.MetricsOut
	}
	return o.Config.Metrics.Path
}

func (o *CompileOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return o.Config.Compile.Workers
}

func runCompile(ctx context.Context, opts *CompileOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	loaded, err := loadForCommand(opts.RootOptions, f, dir)
	if err != nil {
		return err
	}
	m := loaded.Model

	var st *store.Store
	if path := opts.storePath(); path != "" {
		st, err = store.Open(path)
		if err != nil {
			return commandError(f, ErrCodeStore, fmt.Sprintf("opening store %s: %v", path, err), nil)
		}
		defer st.Close()
	}

	hash, err := pipeline.ModelHash(m)
	if err != nil {
		return commandError(f, ErrCodeGeneric, err.Error(), nil)
	}

	clock := pipeline.NewClock()
	if st != nil {
		if !opts.Force {
			rec, ok, err := st.LatestPassForModel(ctx, hash)
			if err != nil {
				return commandError(f, ErrCodeStore, fmt.Sprintf("reading store: %v", err), nil)
			}
			if ok {
				return outputCachedPass(ctx, f, st, rec)
			}
		}
		last, err := st.GetLastSeq(ctx)
		if err != nil {
			return commandError(f, ErrCodeStore, fmt.Sprintf("reading store: %v", err), nil)
		}
		clock = pipeline.NewClockAt(last)
	}

	metrics := pipeline.NewMetrics()
	p := pipeline.New(m,
		pipeline.WithLogger(opts.logger()),
		pipeline.WithWorkers(opts.workers()),
		pipeline.WithClock(clock),
		pipeline.WithMetrics(metrics),
		pipeline.WithFailFast(opts.Config.Compile.FailFast),
		pipeline.WithShowEliminated(opts.Config.Printer.ShowEliminated),
	)
	result, runErr := p.Run(ctx)
	if result == nil {
		return commandError(f, ErrCodeGeneric, runErr.Error(), nil)
	}

	if st != nil {
		rs, err := result.Records()
		if err != nil {
			return commandError(f, ErrCodeGeneric, fmt.Sprintf("building records: %v", err), nil)
		}
		if err := st.WriteRecords(ctx, rs); err != nil {
			return commandError(f, ErrCodeStore, fmt.Sprintf("writing pass: %v", err), nil)
		}
		f.VerboseLog("Stored pass %s (%d derivation(s), %d decision(s))", rs.Pass.ID, len(rs.Derivations), len(rs.Decisions))
	}

	if path := opts.metricsPath(); path != "" {
		if err := metrics.WriteToTextfile(path); err != nil {
			return commandError(f, ErrCodeWriteFailed, fmt.Sprintf("writing metrics: %v", err), nil)
		}
	}

	return outputCompileResult(f, result, runErr)
}

func reportFromResult(r *pipeline.Result) CompileReport {
	report := CompileReport{PassID: r.PassID, ModelHash: r.ModelHash, Objects: []ObjectReport{}}
	for _, o := range r.Objects {
		or := ObjectReport{
			Object:      o.Object.FullName(),
			Derivations: len(o.Derivations),
			Dispatches:  len(o.Dispatches),
			Decisions:   len(o.Decisions),
		}
		if o.Err != nil {
			or.Error = &CLIError{Code: pipeline.ErrorCode(o.Err), Message: o.Err.Error()}
		}
		report.Objects = append(report.Objects, or)
	}
	return report
}

// reportFromRecords rebuilds a report from stored records. Objects without
// any stored artifact are not listed.
func reportFromRecords(rs ir.Records) CompileReport {
	report := CompileReport{PassID: rs.Pass.ID, ModelHash: rs.Pass.ModelHash, Cached: true, Objects: []ObjectReport{}}
	index := make(map[string]int)
	get := func(name string) *ObjectReport {
		i, ok := index[name]
		if !ok {
			i = len(report.Objects)
			index[name] = i
			report.Objects = append(report.Objects, ObjectReport{Object: name})
		}
		return &report.Objects[i]
	}
	for _, d := range rs.Derivations {
		or := get(d.Object)
		if d.Kind == ir.KindDispatch {
			or.Dispatches++
		} else {
			or.Derivations++
		}
	}
	for _, d := range rs.Decisions {
		get(d.Object).Decisions++
	}
	return report
}

func outputCachedPass(ctx context.Context, f *OutputFormatter, st *store.Store, rec ir.PassRecord) error {
	rs, err := st.ReadRecords(ctx, rec.ID)
	if err != nil {
		return commandError(f, ErrCodeStore, fmt.Sprintf("reading pass %s: %v", rec.ID, err), nil)
	}
	report := reportFromRecords(rs)
	if f.Format == "json" {
		return f.Response(CLIResponse{Status: "ok", Data: report, PassID: rec.ID})
	}
	fmt.Fprintf(f.Writer, "✓ Model unchanged, reusing pass %s\n\n", rec.ID)
	writeObjectReports(f.Writer, report.Objects)
	return nil
}

func outputCompileResult(f *OutputFormatter, r *pipeline.Result, runErr error) error {
	report := reportFromResult(r)
	failed := len(pipeline.PassErrors(runErr))
	if runErr != nil && failed == 0 {
		failed = 1
	}

	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: report, PassID: r.PassID}
		if runErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    pipeline.ErrorCode(runErr),
				Message: fmt.Sprintf("%d object(s) failed", failed),
			}
		}
		if err := f.Response(resp); err != nil {
			return err
		}
	} else {
		if runErr == nil {
			fmt.Fprintf(f.Writer, "✓ Compiled %d object(s)\n\n", len(r.Objects))
		} else {
			fmt.Fprintf(f.Writer, "✗ Compilation failed for %d object(s)\n\n", failed)
		}
		if err := pipeline.PrintSummary(f.Writer, r); err != nil {
			return err
		}
		if f.Verbose {
			for _, e := range pipeline.PassErrors(runErr) {
				fmt.Fprintf(f.GetErrWriter(), "\n%v\n", e)
			}
		}
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "compilation failed", runErr)
	}
	return nil
}

func writeObjectReports(w io.Writer, objects []ObjectReport) {
	for _, o := range objects {
		fmt.Fprintf(w, "  %s: %d derivation(s), %d dispatch(es), %d decision(s)\n",
			o.Object, o.Derivations, o.Dispatches, o.Decisions)
	}
}
