package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/compiler"
	"github.com/roach88/megac/internal/ir"
	"github.com/roach88/megac/internal/store"
)

func TestCompile_Door(t *testing.T) {
	out, err := execute(t, NewCompileCommand(testOpts("text")), doorDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 1 object(s)")
	assert.Contains(t, out, "OBJECT Door")
	assert.Contains(t, out, "DECISION")
}

func TestCompile_DoorJSON(t *testing.T) {
	out, err := execute(t, NewCompileCommand(testOpts("json")), doorDir)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		PassID string        `json:"pass_id"`
		Data   CompileReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.PassID)
	assert.Equal(t, resp.PassID, resp.Data.PassID)
	assert.False(t, resp.Data.Cached)
	require.Len(t, resp.Data.Objects, 1)
	assert.Equal(t, ObjectReport{Object: "Door", Derivations: 5, Decisions: 1}, resp.Data.Objects[0])
}

func TestCompile_FailedObject(t *testing.T) {
	out, err := execute(t, NewCompileCommand(testOpts("text")), ambiguousDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Compilation failed for 1 object(s)")
}

func TestCompile_FailedObjectJSON(t *testing.T) {
	out, err := execute(t, NewCompileCommand(testOpts("json")), ambiguousDir)
	require.Error(t, err)

	var resp struct {
		Status string        `json:"status"`
		Error  *CLIError     `json:"error"`
		Data   CompileReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AMBIGUOUS", resp.Error.Code)
	require.Len(t, resp.Data.Objects, 1)
	require.NotNil(t, resp.Data.Objects[0].Error)
	assert.Equal(t, "AMBIGUOUS", resp.Data.Objects[0].Error.Code)
}

func TestCompile_LoadErrors(t *testing.T) {
	_, err := execute(t, NewCompileCommand(testOpts("text")), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), compiler.ErrCodeNotFound)

	out, err := execute(t, NewCompileCommand(testOpts("text")), invalidDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
}

func TestCompile_StoreReusesPass(t *testing.T) {
	db := filepath.Join(t.TempDir(), "megac.db")

	out, err := execute(t, NewCompileCommand(testOpts("text")), doorDir, "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 1 object(s)")

	out, err = execute(t, NewCompileCommand(testOpts("json")), doorDir, "--store", db)
	require.NoError(t, err)
	var resp struct {
		PassID string        `json:"pass_id"`
		Data   CompileReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Cached)
	require.Len(t, resp.Data.Objects, 1)
	assert.Equal(t, 5, resp.Data.Objects[0].Derivations)
	assert.Equal(t, 1, resp.Data.Objects[0].Decisions)

	out, err = execute(t, NewCompileCommand(testOpts("text")), doorDir, "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Model unchanged, reusing pass "+resp.PassID)
	assert.Contains(t, out, "Door: 5 derivation(s), 0 dispatch(es), 1 decision(s)")

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	passes, err := st.ListPasses(t.Context())
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, ir.PassSucceeded, passes[0].Status)
}

func TestCompile_ForceRecompiles(t *testing.T) {
	db := filepath.Join(t.TempDir(), "megac.db")

	_, err := execute(t, NewCompileCommand(testOpts("text")), doorDir, "--store", db)
	require.NoError(t, err)
	out, err := execute(t, NewCompileCommand(testOpts("text")), doorDir, "--store", db, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 1 object(s)")

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	passes, err := st.ListPasses(t.Context())
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Less(t, passes[0].Seq, passes[1].Seq)
}

func TestCompile_FailedPassIsNotReused(t *testing.T) {
	db := filepath.Join(t.TempDir(), "megac.db")

	for range 2 {
		out, err := execute(t, NewCompileCommand(testOpts("text")), ambiguousDir, "--store", db)
		require.Error(t, err)
		assert.NotContains(t, out, "reusing pass")
	}

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	passes, err := st.ListPasses(t.Context())
	require.NoError(t, err)
	require.Len(t, passes, 2)
	for _, p := range passes {
		assert.Equal(t, ir.PassFailed, p.Status)
	}
}

func TestCompile_MetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "megac.prom")

	_, err := execute(t, NewCompileCommand(testOpts("text")), doorDir, "--metrics-out", path, "--workers", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "megac_derivations_total")
	assert.Contains(t, string(data), "megac_decisions_total")
}

func TestCompile_StorePathFromConfig(t *testing.T) {
	opts := testOpts("text")
	opts.Config.Store.Path = filepath.Join(t.TempDir(), "from-config.db")

	_, err := execute(t, NewCompileCommand(opts), doorDir)
	require.NoError(t, err)
	assert.FileExists(t, opts.Config.Store.Path)
}
