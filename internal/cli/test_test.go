package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inlineScenario = `name: inline
description: "Y is a child state of X"
model:
  source: |
    objects: X: contexts: Y: kind: "state"
derive:
  - context: X
    path: Y
    outcome: success
`

func TestTest_AllPass(t *testing.T) {
	out, err := execute(t, NewTestCommand(testOpts("text")), scenarioDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ door")
	assert.Contains(t, out, "✓ ambiguous")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	out, err := execute(t, NewTestCommand(testOpts("text")), scenarioDir, "--filter", "door*")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "ambiguous")

	out, err = execute(t, NewTestCommand(testOpts("text")), scenarioDir, "--filter", "nothing*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_JSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(testOpts("json")), scenarioDir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	bad := inlineScenario[:len(inlineScenario)-len("success\n")] + "failure\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inline.yaml"), []byte(bad), 0o644))

	out, err := execute(t, NewTestCommand(testOpts("text")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ inline")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")

	out, err = execute(t, NewTestCommand(testOpts("json")), dir)
	require.Error(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTest_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0o644))

	out, err := execute(t, NewTestCommand(testOpts("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inline.yaml"), []byte(inlineScenario), 0o644))
	golden := filepath.Join(dir, "golden", "inline.golden")

	out, err := execute(t, NewTestCommand(testOpts("text")), dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ inline (golden updated)")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DERIVE X Y success")

	out, err = execute(t, NewTestCommand(testOpts("text")), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ inline")

	require.NoError(t, os.WriteFile(golden, []byte("stale\n"), 0o644))
	out, err = execute(t, NewTestCommand(testOpts("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "golden file mismatch")
}

func TestTest_MissingDirectory(t *testing.T) {
	_, err := execute(t, NewTestCommand(testOpts("text")), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("s", "golden", "door.golden"), goldenFilePath(filepath.Join("s", "door.yaml")))
}
