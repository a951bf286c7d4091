package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadScenario(t, "child_derivation")))
}

func TestSnapshot_LoadError(t *testing.T) {
	r := NewResult()
	r.Actual = []string{"E003: no CUE files given"}
	assert.Equal(t, "ERROR E003: no CUE files given\n", Snapshot(r))
}

func TestSnapshot_IsStable(t *testing.T) {
	s := loadScenario(t, "door_push")
	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, Snapshot(first), Snapshot(second))
}
