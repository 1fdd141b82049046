package diagnostics

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codereef/lspbridge/internal/config"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
)

func TestWaitIdle_ReturnsOnceSettled(t *testing.T) {
	s := supervisor.NewTestServerState("key", config.ServerConfig{}, "/root", zerolog.Nop())
	uri := protocol.DocumentUri("file:///a.go")
	s.PublishDiagnostics(uri, nil, []protocol.Diagnostic{{Message: "boom"}})

	diags, ok := waitIdle(context.Background(), s, uri, 2*time.Second)
	require.True(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, "boom", diags[0].Message)
}

func TestWaitIdle_TimesOutWithoutPublish(t *testing.T) {
	s := supervisor.NewTestServerState("key", config.ServerConfig{}, "/root", zerolog.Nop())
	uri := protocol.DocumentUri("file:///never-published.go")

	_, ok := waitIdle(context.Background(), s, uri, 150*time.Millisecond)
	assert.False(t, ok)
}

func TestWaitIdle_RespectsContextCancellation(t *testing.T) {
	s := supervisor.NewTestServerState("key", config.ServerConfig{}, "/root", zerolog.Nop())
	uri := protocol.DocumentUri("file:///never-published.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := waitIdle(ctx, s, uri, time.Second)
	assert.False(t, ok)
}

func TestAll_DelegatesToServerState(t *testing.T) {
	s := supervisor.NewTestServerState("key", config.ServerConfig{}, "/root", zerolog.Nop())
	s.PublishDiagnostics("file:///a.go", nil, []protocol.Diagnostic{{Message: "x"}})

	all := All(s)
	require.Len(t, all, 1)
	assert.Equal(t, protocol.DocumentUri("file:///a.go"), all[0].URI)
}
