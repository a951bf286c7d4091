package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsModelChange(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write cue", fsnotify.Event{Name: "m/door.cue", Op: fsnotify.Write}, true},
		{"remove cue", fsnotify.Event{Name: "m/door.cue", Op: fsnotify.Remove}, true},
		{"chmod cue", fsnotify.Event{Name: "m/door.cue", Op: fsnotify.Chmod}, false},
		{"write other", fsnotify.Event{Name: "m/notes.txt", Op: fsnotify.Write}, false},
		{"create dir", fsnotify.Event{Name: "m/sub", Op: fsnotify.Create}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isModelChange(tt.ev))
		})
	}
}

func TestAddWatchDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "m.cue"), []byte("package m\n"), 0o644))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, addWatchDirs(w, root))
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "a"), filepath.Join(root, "a", "b")}, w.WatchList())

	require.NoError(t, addWatchDirs(w, filepath.Join(root, "missing")))
}
