package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/ir"
	"github.com/roach88/megac/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Store  string
	PassID string
}

// PassCheck is the verification result of one stored pass.
type PassCheck struct {
	PassID      string `json:"pass_id"`
	ModelHash   string `json:"model_hash"`
	Status      string `json:"status"`
	Seq         int64  `json:"seq"`
	Derivations int    `json:"derivations"`
	Decisions   int    `json:"decisions"`
	Verified    bool   `json:"verified"`
	Error       string `json:"error,omitempty"`
}

// ReplayResult is the JSON payload of a replay run.
type ReplayResult struct {
	Passes   []PassCheck `json:"passes"`
	Verified int         `json:"verified"`
	Failed   int         `json:"failed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify stored passes against their content hashes",
		Long: `Re-read every artifact of the stored passes and recompute its
content-addressed ID. A pass verifies when every derivation and decision
still hashes to the ID it was stored under.

Exit codes:
  0 - All passes verified
  1 - One or more passes failed verification
  2 - Command error (store not found, unknown pass)

Examples:
  megac replay --store megac.db
  megac replay --store megac.db --pass 0190a7c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite artifact store (default: store.path from config)")
	cmd.Flags().StringVar(&opts.PassID, "pass", "", "verify only this pass")

	return cmd
}

// openStore opens the store named by flag, falling back to the
// configuration. The store must already exist.
func openStore(opts *RootOptions, f *OutputFormatter, flag string) (*store.Store, error) {
	path := flag
	if path == "" {
		path = opts.Config.Store.Path
	}
	if path == "" {
		return nil, commandError(f, ErrCodeUsage, "no store given (use --store or store.path)", nil)
	}
	if !fileExists(path) {
		return nil, commandError(f, ErrCodeStore, fmt.Sprintf("store not found: %s", path), nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, commandError(f, ErrCodeStore, fmt.Sprintf("opening store %s: %v", path, err), nil)
	}
	return st, nil
}

// selectPasses returns the pass named by id, or every pass when id is empty.
func selectPasses(ctx context.Context, f *OutputFormatter, st *store.Store, id string) ([]ir.PassRecord, error) {
	if id == "" {
		passes, err := st.ListPasses(ctx)
		if err != nil {
			return nil, commandError(f, ErrCodeStore, fmt.Sprintf("listing passes: %v", err), nil)
		}
		return passes, nil
	}
	p, err := st.ReadPass(ctx, id)
	if errors.Is(err, store.ErrPassNotFound) {
		return nil, commandError(f, ErrCodeStore, fmt.Sprintf("pass not found: %s", id), nil)
	}
	if err != nil {
		return nil, commandError(f, ErrCodeStore, err.Error(), nil)
	}
	return []ir.PassRecord{p}, nil
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openStore(opts.RootOptions, f, opts.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	passes, err := selectPasses(ctx, f, st, opts.PassID)
	if err != nil {
		return err
	}

	result := ReplayResult{Passes: make([]PassCheck, 0, len(passes))}
	for _, p := range passes {
		check := PassCheck{PassID: p.ID, ModelHash: p.ModelHash, Status: string(p.Status), Seq: p.Seq}
		rs, err := st.ReadRecords(ctx, p.ID)
		if err == nil {
			check.Derivations = len(rs.Derivations)
			check.Decisions = len(rs.Decisions)
			err = st.VerifyPass(ctx, p.ID)
		}
		if err != nil {
			check.Error = err.Error()
			result.Failed++
		} else {
			check.Verified = true
			result.Verified++
		}
		opts.logger().Debug("pass verified", "pass", p.ID, "ok", check.Verified)
		result.Passes = append(result.Passes, check)
	}

	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeStore, Message: fmt.Sprintf("%d pass(es) failed verification", result.Failed)}
		}
		if err := f.Response(resp); err != nil {
			return err
		}
	} else {
		w := f.Writer
		if len(result.Passes) == 0 {
			fmt.Fprintln(w, "No passes stored.")
		}
		for _, c := range result.Passes {
			if c.Verified {
				fmt.Fprintf(w, "✓ %s seq=%d %s (%d derivation(s), %d decision(s))\n",
					c.PassID, c.Seq, c.Status, c.Derivations, c.Decisions)
			} else {
				fmt.Fprintf(w, "✗ %s seq=%d %s\n  %s\n", c.PassID, c.Seq, c.Status, c.Error)
			}
		}
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d pass(es) failed verification", result.Failed))
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
