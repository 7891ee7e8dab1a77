package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestScanFindsCSVFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Beijing_2013.csv"))
	touch(t, filepath.Join(dir, "Beijing_2014.CSV"))
	touch(t, filepath.Join(dir, "nested", "Beijing_2015.csv"))
	touch(t, filepath.Join(dir, "notes.txt"))

	files, err := NewFileScanner(dir).Scan()
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestScanFailsWhenNoCSVFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"))

	_, err := NewFileScanner(dir).Scan()
	assert.ErrorContains(t, err, "no .csv files")
}
