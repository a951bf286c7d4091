package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "megac", cmd.Use)
	assert.Contains(t, cmd.Long, "decision procedures")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "derive", "truth", "validate", "test", "replay", "trace", "config"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	for _, name := range []string{"store", "metrics-out", "workers", "watch", "force"} {
		assert.NotNil(t, compileCmd.Flags().Lookup(name), name)
	}
}

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestRoot_FormatFromConfigFile(t *testing.T) {
	absDoor, err := filepath.Abs(doorDir)
	require.NoError(t, err)
	isolateHome(t)

	cfg := filepath.Join(t.TempDir(), "megac.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("format = \"json\"\n"), 0o644))

	out, err := execute(t, NewRootCommand(), "--config", cfg, "validate", absDoor)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRoot_FormatFlagOverridesConfig(t *testing.T) {
	absDoor, err := filepath.Abs(doorDir)
	require.NoError(t, err)
	isolateHome(t)

	cfg := filepath.Join(t.TempDir(), "megac.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("format = \"json\"\n"), 0o644))

	out, err := execute(t, NewRootCommand(), "--config", cfg, "--format", "text", "validate", absDoor)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Model valid: 1 object(s) in 1 file(s)")
}

func TestRoot_InvalidFormat(t *testing.T) {
	absDoor, err := filepath.Abs(doorDir)
	require.NoError(t, err)
	isolateHome(t)

	_, err = execute(t, NewRootCommand(), "--format", "xml", "validate", absDoor)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_InvalidConfig(t *testing.T) {
	absDoor, err := filepath.Abs(doorDir)
	require.NoError(t, err)
	isolateHome(t)

	cfg := filepath.Join(t.TempDir(), "megac.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[compile]\nworkers = 0\n"), 0o644))

	_, err = execute(t, NewRootCommand(), "--config", cfg, "validate", absDoor)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "loading config")
}

func TestRoot_EnvOverride(t *testing.T) {
	absDoor, err := filepath.Abs(doorDir)
	require.NoError(t, err)
	isolateHome(t)
	t.Setenv("MEGAC_FORMAT", "json")

	out, err := execute(t, NewRootCommand(), "validate", absDoor)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}
