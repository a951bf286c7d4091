package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/compiler"
)

func TestValidate_Valid(t *testing.T) {
	out, err := execute(t, NewValidateCommand(testOpts("text")), doorDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Model valid: 1 object(s) in 1 file(s)")
}

func TestValidate_ValidJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(testOpts("json")), doorDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Objects)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidate_RuleViolations(t *testing.T) {
	out, err := execute(t, NewValidateCommand(testOpts("text")), invalidDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "[E102] Lamp.Pick: decider has no events")
}

func TestValidate_RuleViolationsJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(testOpts("json")), invalidDir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrDeciderNoEvents, resp.Error.Code)
}

func TestValidate_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		wantCode string
		wantText string
	}{
		{"missing directory", "/nonexistent/model/dir", compiler.ErrCodeNotFound, "model directory not found"},
		{"empty directory", t.TempDir(), compiler.ErrCodeNoFiles, "no CUE files found"},
		{"unknown kind", brokenDir, compiler.ErrCodeCompile, "unknown context kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewValidateCommand(testOpts("text")), tt.dir)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantCode)
			assert.Contains(t, out, tt.wantText)
		})
	}
}
