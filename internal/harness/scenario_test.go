package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ResolvesModelFiles(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/door_push.yaml")
	require.NoError(t, err)

	assert.Equal(t, "door_push", s.Name)
	require.Len(t, s.Model.Files, 1)
	assert.Equal(t, filepath.Join("testdata", "models", "door.cue"), s.Model.Files[0])
	require.Len(t, s.ExpectDecisions, 1)
	assert.Equal(t, ExpectDecision{Context: "Door.Push", Kind: KindSelection, Leaves: 3}, s.ExpectDecisions[0])
}

func TestLoadScenario_InlineSource(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/child_derivation.yaml")
	require.NoError(t, err)
	assert.Contains(t, s.Model.Source, `objects: X:`)
	assert.Equal(t, []DeriveQuery{{Context: "X", Path: "Y", Outcome: "success"}}, s.Derive)
}

func TestLoadScenario_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScenario(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read scenario file")
	})

	t.Run("unknown field", func(t *testing.T) {
		path := writeScenario(t, dir, "typo.yaml", `name: x
description: y
model: {source: "objects: X: {}"}
expect_error: [FOO]
`)
		_, err := LoadScenario(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("missing model file", func(t *testing.T) {
		path := writeScenario(t, dir, "files.yaml", `name: x
description: y
model: {files: [absent.cue]}
expect_errors: [E005]
`)
		_, err := LoadScenario(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model file not found")
	})
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no name",
			yaml:    "description: d\nmodel: {source: s}\nexpect_errors: [E]\n",
			wantErr: "name is required",
		},
		{
			name:    "no description",
			yaml:    "name: n\nmodel: {source: s}\nexpect_errors: [E]\n",
			wantErr: "description is required",
		},
		{
			name:    "no model",
			yaml:    "name: n\ndescription: d\nexpect_errors: [E]\n",
			wantErr: "model requires source or files",
		},
		{
			name:    "both model forms",
			yaml:    "name: n\ndescription: d\nmodel: {source: s, files: [a.cue]}\nexpect_errors: [E]\n",
			wantErr: "not both",
		},
		{
			name:    "no expectations",
			yaml:    "name: n\ndescription: d\nmodel: {source: s}\n",
			wantErr: "at least one of",
		},
		{
			name:    "bad outcome",
			yaml:    "name: n\ndescription: d\nmodel: {source: s}\nderive: [{context: X, path: Y, outcome: maybe}]\n",
			wantErr: `derive[0]: unknown outcome "maybe"`,
		},
		{
			name:    "empty path",
			yaml:    "name: n\ndescription: d\nmodel: {source: s}\nderive: [{context: X, path: '', outcome: success}]\n",
			wantErr: "derive[0]: empty type path",
		},
		{
			name:    "bad decision kind",
			yaml:    "name: n\ndescription: d\nmodel: {source: s}\nexpect_decisions: [{context: X, kind: switch, leaves: 1}]\n",
			wantErr: `expect_decisions[0]: unknown kind "switch"`,
		},
		{
			name:    "no leaves",
			yaml:    "name: n\ndescription: d\nmodel: {source: s}\nexpect_decisions: [{context: X, kind: boolean}]\n",
			wantErr: "leaves must be at least 1",
		},
		{
			name:    "empty error substring",
			yaml:    "name: n\ndescription: d\nmodel: {source: s}\nexpect_errors: ['']\n",
			wantErr: "expect_errors[0]: must not be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
