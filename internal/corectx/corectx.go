// Package corectx holds the one value created at startup and threaded
// explicitly through every layer: the structured logger and the request
// router built from it. There is no ambient global state; callers pass
// *Core (or the narrower pieces they need) down the call chain.
package corectx

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/operations"
	"github.com/codereef/lspbridge/internal/router"
	"github.com/codereef/lspbridge/internal/supervisor"
)

// NewLogger builds the process-wide zerolog.Logger. Transport frame
// tracing is only emitted when MCP_LSP_DEBUG=true, matching the debug
// gate the prototype this repo replaces used.
func NewLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if os.Getenv("MCP_LSP_DEBUG") == "true" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// Core bundles the long-lived collaborators cmd/lspbridge wires up once
// and hands to the agent-channel tool registrations.
type Core struct {
	Log        zerolog.Logger
	Supervisor *supervisor.Supervisor
	Router     *router.Router
	Ops        *operations.Core
}
