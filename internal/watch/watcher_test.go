package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsCSVChanges(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	path := filepath.Join(dir, "Beijing_2014.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	select {
	case event := <-fw.Events():
		assert.Equal(t, path, event.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the new CSV file")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case event := <-fw.Events():
		t.Fatalf("unexpected event for %s", event.Path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherMissingPath(t *testing.T) {
	// Walk swallows the stat error, so a missing path simply watches nothing.
	fw, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "gone")})
	require.NoError(t, err)
	assert.NoError(t, fw.Close())
}
