// Package operations implements the fifteen agent-facing tools, each
// assembled on top of internal/supervisor, docsync, diagnostics,
// symbols, router, and edits. Every operation returns a structured
// result rather than a raw error: corerr failures are converted to
// Result.Error at the boundary.
package operations

import (
	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/router"
)

// Core is the single value every operation closes over: the router (and
// through it, the supervisor registry) plus a logger. It is a "core
// context" value — created once at startup, passed explicitly, never
// ambient.
type Core struct {
	Router *router.Router
	Log    zerolog.Logger
}

func New(r *router.Router, log zerolog.Logger) *Core {
	return &Core{Router: r, Log: log}
}

// errorInfo is the shape every operation result embeds on failure,
// naming the error kind so the agent-channel wrapper can decide how to
// present it without re-deriving the taxonomy.
type errorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func describeError(err error) *errorInfo {
	if err == nil {
		return nil
	}
	kind := "UnknownError"
	for _, k := range []corerr.Kind{
		corerr.Configuration, corerr.Transport, corerr.Protocol, corerr.Timeout,
		corerr.ServerReported, corerr.NotSupported, corerr.IO, corerr.Resolution,
	} {
		if corerr.Is(err, k) {
			kind = k.String()
			break
		}
	}
	return &errorInfo{Kind: kind, Message: err.Error()}
}

// oneIndexedToZero converts an agent-supplied 1-indexed coordinate to
// 0-indexed, clamping at 0 rather than going negative. Subtracts 1
// unconditionally and then clamps, documented here rather than left
// implicit.
func oneIndexedToZero(v int) uint32 {
	v--
	if v < 0 {
		return 0
	}
	return uint32(v)
}
