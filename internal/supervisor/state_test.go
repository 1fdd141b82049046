package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codereef/lspbridge/internal/config"
	"github.com/codereef/lspbridge/internal/protocol"
)

func newTestState() *ServerState {
	return newServerState("key", config.ServerConfig{Command: []string{"gopls"}}, "/root", zerolog.Nop())
}

func TestServerState_OpenFileLifecycle(t *testing.T) {
	s := newTestState()
	assert.False(t, s.IsFileOpen("/a.go"))

	s.MarkOpen("/a.go")
	assert.True(t, s.IsFileOpen("/a.go"))
	assert.Equal(t, []string{"/a.go"}, s.OpenFiles())

	v, ok := s.BumpVersion("/a.go")
	require.True(t, ok)
	assert.Equal(t, int32(2), v)

	s.MarkClosed("/a.go")
	assert.False(t, s.IsFileOpen("/a.go"))
}

func TestServerState_BumpVersion_UnopenedFile(t *testing.T) {
	s := newTestState()
	_, ok := s.BumpVersion("/never-opened.go")
	assert.False(t, ok)
}

func TestServerState_WaitReady_ResolvesAfterMarkReady(t *testing.T) {
	s := newTestState()
	assert.False(t, s.Initialized())

	done := make(chan error, 1)
	go func() {
		done <- s.WaitReady(context.Background())
	}()

	s.markReady()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitReady did not resolve after markReady")
	}
	assert.True(t, s.Initialized())
}

func TestServerState_MarkReady_Idempotent(t *testing.T) {
	s := newTestState()
	s.markReady()
	assert.NotPanics(t, func() { s.markReady() })
}

func TestServerState_Diagnostics_PublishAndRead(t *testing.T) {
	s := newTestState()
	uri := protocol.DocumentUri("file:///a.go")

	_, ok := s.Diagnostics(uri)
	assert.False(t, ok)

	v := int32(3)
	s.PublishDiagnostics(uri, &v, []protocol.Diagnostic{{Message: "boom"}})

	diags, ok := s.Diagnostics(uri)
	require.True(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, "boom", diags[0].Message)
	assert.Equal(t, int64(3), s.DiagnosticVersion(uri))

	_, seen := s.LastDiagnosticUpdate(uri)
	assert.True(t, seen)
}

func TestServerState_Diagnostics_VersionNeverDecreases(t *testing.T) {
	s := newTestState()
	uri := protocol.DocumentUri("file:///a.go")

	high := int32(5)
	s.PublishDiagnostics(uri, &high, nil)
	low := int32(2)
	s.PublishDiagnostics(uri, &low, nil)

	assert.Equal(t, int64(5), s.DiagnosticVersion(uri))
}

func TestServerState_AllDiagnostics_InsertionOrder(t *testing.T) {
	s := newTestState()
	s.PublishDiagnostics("file:///b.go", nil, nil)
	s.PublishDiagnostics("file:///a.go", nil, nil)

	all := s.AllDiagnostics()
	require.Len(t, all, 2)
	assert.Equal(t, protocol.DocumentUri("file:///b.go"), all[0].URI)
	assert.Equal(t, protocol.DocumentUri("file:///a.go"), all[1].URI)
}

func TestServerState_WorkspaceIndexedAndFilesDiscovered(t *testing.T) {
	s := newTestState()
	assert.False(t, s.WorkspaceIndexed())
	s.SetWorkspaceIndexed(true)
	assert.True(t, s.WorkspaceIndexed())

	assert.Equal(t, int64(0), s.FilesDiscovered())
	s.MarkFileDiscovered()
	s.MarkFileDiscovered()
	assert.Equal(t, int64(2), s.FilesDiscovered())
}

func TestServerState_Capabilities_RoundTrip(t *testing.T) {
	s := newTestState()
	caps := protocol.ServerCapabilities{}
	s.SetCapabilities(caps)
	assert.Equal(t, caps, s.Capabilities())
}
