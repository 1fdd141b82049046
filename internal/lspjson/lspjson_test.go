package lspjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressKind(t *testing.T) {
	assert.Equal(t, "end", ProgressKind([]byte(`{"value":{"kind":"end"}}`)))
	assert.Equal(t, "", ProgressKind([]byte(`{"value":{}}`)))
}

func TestHasDiagnostics(t *testing.T) {
	assert.True(t, HasDiagnostics([]byte(`{"uri":"file:///a.go","diagnostics":[{"message":"x"}]}`)))
	assert.False(t, HasDiagnostics([]byte(`{"uri":"file:///a.go","diagnostics":[]}`)))
}

func TestDiagnosticsURI(t *testing.T) {
	assert.Equal(t, "file:///a.go", DiagnosticsURI([]byte(`{"uri":"file:///a.go","diagnostics":[]}`)))
}

func TestPatchText_LeavesOtherFieldsIntact(t *testing.T) {
	base := []byte(`{"textDocument":{"uri":"file:///a.go","version":1},"contentChanges":[{"text":"old"}]}`)
	patched, err := PatchText(base, "new")
	require.NoError(t, err)
	assert.Contains(t, string(patched), `"text":"new"`)
	assert.Contains(t, string(patched), `"uri":"file:///a.go"`)
}

func TestPatchVersion(t *testing.T) {
	base := []byte(`{"textDocument":{"uri":"file:///a.go","version":1},"contentChanges":[{"text":"x"}]}`)
	patched, err := PatchVersion(base, 2)
	require.NoError(t, err)
	assert.Contains(t, string(patched), `"version":2`)
}
