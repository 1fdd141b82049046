package supervisor

import (
	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/config"
)

// NewTestServerState constructs a ServerState with no backing child
// process, for exercising state bookkeeping (open files, diagnostics
// cache, readiness) from other packages' tests without spawning a real
// language server.
func NewTestServerState(key string, cfg config.ServerConfig, rootDir string, log zerolog.Logger) *ServerState {
	return newServerState(key, cfg, rootDir, log)
}
