package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/megac/internal/config"
)

var (
	doorDir      = filepath.Join("testdata", "models", "door")
	ambiguousDir = filepath.Join("testdata", "models", "ambiguous")
	invalidDir   = filepath.Join("testdata", "models", "invalid")
	brokenDir    = filepath.Join("testdata", "models", "broken")
	scenarioDir  = filepath.Join("testdata", "scenarios")
)

// testOpts returns root options as the root command would set them with
// the default configuration.
func testOpts(format string) *RootOptions {
	return &RootOptions{Format: format, Config: config.Defaults()}
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
