package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectAssetsPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.glb"), []byte("x"), 0o644))

	files, err := collectAssets([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.glb")}, files)

	// A file dropped into the directory later must show up on the next
	// collection, so watch-mode re-runs see it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.glb"), []byte("x"), 0o644))
	files, err = collectAssets([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.glb"),
		filepath.Join(dir, "b.glb"),
	}, files)
}

func TestCollectAssetsFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.glb"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.GLB"), []byte("x"), 0o644))

	files, err := collectAssets([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "B.GLB"),
		filepath.Join(dir, "a.glb"),
	}, files)
}
