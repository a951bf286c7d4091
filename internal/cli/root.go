package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/megac/internal/config"
)

// RootOptions holds global flags and the settings every command shares.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config and Logger are set before any subcommand runs.
	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the megac CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Defaults()}

	cmd := &cobra.Command{
		Use:   "megac",
		Short: "megac - derivation and decision compiler",
		Long: `Compile state models: solve type-path derivations, disambiguate them,
and build the decision procedures that pick a successor state at runtime.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./megac.toml, then $HOME/megac.toml)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewTruthCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// init loads the configuration and installs the logger. An explicit
// --format overrides the configured one.
func (o *RootOptions) init(cmd *cobra.Command) error {
	v := viper.New()
	config.Setup(v, o.ConfigFile)
	if f := cmd.Root().PersistentFlags().Lookup("format"); f != nil {
		if err := v.BindPFlag("format", f); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		if !isValidFormat(o.Format) {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
		}
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	o.Config = cfg
	o.Format = cfg.Format

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = NewLogger(cmd.ErrOrStderr(), cfg.Format, level)
	slog.SetDefault(o.Logger)
	return nil
}

// logger returns the configured logger, or a discarding one for commands
// run without the root command.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewLogger creates a text or JSON slog logger writing to w.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
