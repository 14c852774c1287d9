package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatchCreated(t *testing.T) {
	root := t.TempDir()
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(root))

	nested := filepath.Join(root, "media", "2024")
	hidden := filepath.Join(root, ".cache")
	out := filepath.Join(root, "out")
	file := filepath.Join(root, "notes.txt")
	for _, d := range []string{nested, hidden, out} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	exclude := []string{out}
	for _, p := range []string{filepath.Join(root, "media"), hidden, out, file} {
		require.NoError(t, watchCreated(w, p, exclude))
	}

	require.ElementsMatch(t, []string{root, filepath.Join(root, "media"), nested}, w.WatchList())
}

func TestWatchCreated_Vanished(t *testing.T) {
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, watchCreated(w, filepath.Join(t.TempDir(), "gone"), nil))
	require.Empty(t, w.WatchList())
}
