package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruth_Text(t *testing.T) {
	out, err := execute(t, NewTruthCommand(testOpts("text")), doorDir, "Door")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		for _, cell := range strings.Fields(line) {
			assert.True(t, cell[0] == '+' || cell[0] == '-', "cell %q", cell)
		}
	}
}

func TestTruth_JSON(t *testing.T) {
	out, err := execute(t, NewTruthCommand(testOpts("json")), doorDir, "Door")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TruthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Door", resp.Data.Object)
	require.NotEmpty(t, resp.Data.Variables)
	require.Len(t, resp.Data.Rows, 3)
	for _, row := range resp.Data.Rows {
		assert.Len(t, row, len(resp.Data.Variables))
	}
}

func TestTruth_UnknownObject(t *testing.T) {
	_, err := execute(t, NewTruthCommand(testOpts("text")), doorDir, "Window")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `unknown object "Window"`)
}
