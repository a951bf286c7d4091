package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage megac configuration",
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	return cmd
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Write the default configuration as TOML. The file is not overwritten
if it already exists.

Examples:
  megac config init
  megac config init ./conf/megac.toml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			f := opts.formatter(cmd)
			if err := config.WriteDefault(path); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return commandError(f, ErrCodeUsage, fmt.Sprintf("config file already exists: %s", path), nil)
				}
				return commandError(f, ErrCodeWriteFailed, err.Error(), nil)
			}
			if f.Format == "json" {
				return f.Response(CLIResponse{Status: "ok", Data: map[string]string{"path": path}})
			}
			fmt.Fprintf(f.Writer, "✓ Wrote %s\n", path)
			return nil
		},
	}
}
