package uriconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathToURI_RoundTrip(t *testing.T) {
	paths := []string{
		"/home/user/project/main.go",
		"/a/b/c.ts",
		"/with spaces/file.py",
	}
	for _, p := range paths {
		uri := PathToURI(p)
		assert.Equal(t, p, URIToPath(uri), "round trip for %q", p)
	}
}

func TestPathToURI_AddsLeadingSlash(t *testing.T) {
	uri := PathToURI("relative/path.go")
	assert.Equal(t, "file:///relative/path.go", string(uri))
}

func TestURIToPath_NonFileSchemeUnmodified(t *testing.T) {
	assert.Equal(t, "untitled:Untitled-1", URIToPath("untitled:Untitled-1"))
}

func TestURIToPath_DecodesPercentEncoding(t *testing.T) {
	assert.Equal(t, "/a b/c.go", URIToPath("file:///a%20b/c.go"))
}
