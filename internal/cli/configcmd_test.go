package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "megac.toml")

	out, err := execute(t, NewConfigCommand(testOpts("text")), "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level")
	assert.Contains(t, string(data), "workers = 4")

	_, err = execute(t, NewConfigCommand(testOpts("text")), "init", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_DefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, NewConfigCommand(testOpts("text")), "init")
	require.NoError(t, err)
	assert.FileExists(t, "megac.toml")
}
