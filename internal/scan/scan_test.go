package scan

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAll_FiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "readme.md"), "hi")

	got := All(root, Options{Extensions: []string{"go"}})
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "main.go"), got[0])
}

func TestAll_HonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "ignored.go\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "ignored.go"), "package main")

	got := All(root, Options{Extensions: []string{"go"}})
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "main.go"), got[0])
}

func TestAll_SkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD.go"), "x")
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	got := All(root, Options{Extensions: []string{"go"}})
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "main.go"), got[0])
}

func TestAll_BoundsRecursionDepth(t *testing.T) {
	root := t.TempDir()
	deep := root
	for i := 0; i < MaxDepth+2; i++ {
		deep = filepath.Join(deep, "d")
	}
	writeFile(t, filepath.Join(deep, "deep.go"), "package main")
	writeFile(t, filepath.Join(root, "shallow.go"), "package main")

	got := All(root, Options{Extensions: []string{"go"}})
	sort.Strings(got)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "shallow.go"), got[0])
}

func TestAll_IncludeAndExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.go"), "x")
	writeFile(t, filepath.Join(root, "skip.go"), "x")

	got := All(root, Options{
		Extensions:   []string{"go"},
		IncludeGlobs: []string{"*.go"},
		ExcludeGlobs: []string{"skip.go"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "keep.go"), got[0])
}

func TestFirstMatch_ReturnsEmptyWhenNoneFound(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "", FirstMatch(root, Options{Extensions: []string{"go"}}))
}

func TestFirstMatch_StopsWalkEarly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "x")
	writeFile(t, filepath.Join(root, "b.go"), "x")

	got := FirstMatch(root, Options{Extensions: []string{"go"}})
	assert.True(t, got == filepath.Join(root, "a.go") || got == filepath.Join(root, "b.go"))
}
