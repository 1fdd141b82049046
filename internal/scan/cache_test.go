package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_FilesReflectsInitialWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "x")

	c := NewCache(root, Options{Extensions: []string{"go"}})
	defer c.Close()

	assert.Equal(t, []string{filepath.Join(root, "a.go")}, c.Files())
}

func TestCache_InvalidatesOnNewFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "x")

	c := NewCache(root, Options{Extensions: []string{"go"}})
	defer c.Close()
	require.Len(t, c.Files(), 1)

	writeFile(t, filepath.Join(root, "b.go"), "x")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.Files()) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("cache did not pick up new file within deadline")
}

func TestCache_Close_StopsWatcher(t *testing.T) {
	root := t.TempDir()
	c := NewCache(root, Options{})
	require.NoError(t, c.Close())
}

func TestCachedAll_MemoizesPerRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "x")

	first := CachedAll(root, Options{Extensions: []string{"go"}})
	require.Len(t, first, 1)

	// Removing the file without a watched event firing yet should still
	// return the cached result until invalidation happens.
	require.NoError(t, os.Remove(filepath.Join(root, "a.go")))
	second := CachedAll(root, Options{Extensions: []string{"go"}})
	assert.Equal(t, first, second)
}
