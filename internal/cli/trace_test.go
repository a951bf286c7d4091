package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/ir"
)

func TestTrace_LatestPass(t *testing.T) {
	db, passID := compiledStore(t)

	out, err := execute(t, NewTraceCommand(testOpts("text")), "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Pass "+passID)
	assert.Contains(t, out, "Derivations (5):")
	assert.Contains(t, out, "transition Door.Push Open -> success")
	assert.Contains(t, out, "Decisions (1):")
	assert.Contains(t, out, "Door.Push ancestor=Door divider=1")
	assert.NotContains(t, out, "ROOT (")
}

func TestTrace_Trees(t *testing.T) {
	db, _ := compiledStore(t)

	out, err := execute(t, NewTraceCommand(testOpts("text")), "--store", db, "--trees")
	require.NoError(t, err)
	assert.Contains(t, out, "      ROOT (")
}

func TestTrace_ObjectFilter(t *testing.T) {
	db, _ := compiledStore(t)

	out, err := execute(t, NewTraceCommand(testOpts("text")), "--store", db, "--object", "Window")
	require.NoError(t, err)
	assert.Contains(t, out, "Derivations (0):")
	assert.Contains(t, out, "Decisions (0):")
}

func TestTrace_JSON(t *testing.T) {
	db, passID := compiledStore(t)

	out, err := execute(t, NewTraceCommand(testOpts("json")), "--store", db, "--pass", passID)
	require.NoError(t, err)

	var resp struct {
		PassID string      `json:"pass_id"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, passID, resp.PassID)
	assert.Equal(t, ir.PassSucceeded, resp.Data.Pass.Status)
	assert.Len(t, resp.Data.Derivations, 5)
	require.Len(t, resp.Data.Decisions, 1)
	assert.Equal(t, "Door.Push", resp.Data.Decisions[0].Context)
	assert.NotEmpty(t, resp.Data.Decisions[0].Procedure)
}
