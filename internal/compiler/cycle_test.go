package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeOwnership_Acyclic(t *testing.T) {
	m, err := compileString(t, `
objects: {
	House: links: rooms: targets: [{to: "Room.house", many: true}]
	Room: links: house: {kind: "ownership", targets: [{to: "House.rooms"}]}
}
`)
	require.NoError(t, err)
	assert.Empty(t, AnalyzeOwnership(m))
}

func TestAnalyzeOwnership_TwoObjectCycle(t *testing.T) {
	m, err := compileString(t, `
objects: {
	A: links: {
		owns: targets: [{to: "B.owner"}]
		owner: {kind: "ownership", targets: [{to: "B.owns"}]}
	}
	B: links: {
		owns: targets: [{to: "A.owner"}]
		owner: {kind: "ownership", targets: [{to: "A.owns"}]}
	}
}
`)
	require.NoError(t, err)

	warnings := AnalyzeOwnership(m)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
	assert.Equal(t, "warning", warnings[0].Level)
	assert.Equal(t, ErrOwnershipCycle, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "A -> B -> A")
}

func TestAnalyzeOwnership_SelfOwnership(t *testing.T) {
	m, err := compileString(t, `
objects: Node: links: {
	children: targets: [{to: "Node.parent", many: true}]
	parent: {kind: "ownership", targets: [{to: "Node.children"}]}
}
`)
	require.NoError(t, err)

	warnings := AnalyzeOwnership(m)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"Node", "Node"}, warnings[0].Path)
	assert.Contains(t, warnings[0].Message, "object owns itself")
}
