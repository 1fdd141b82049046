// Package router maps a file to the server responsible for it, and
// brings every configured server to a workspace-ready state for fan-out
// operations.
package router

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/config"
	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/scan"
	"github.com/codereef/lspbridge/internal/supervisor"
)

// indexingPollInterval and indexingFallback implement the three-way race
// for workspace-indexing readiness: a progress-end notification, two
// stable workspace/symbol probes 500ms apart, or a 15s timeout.
const (
	indexingPollInterval = 500 * time.Millisecond
	indexingFallback     = 15 * time.Second
)

// Router owns the configured server list and the Supervisor that spawns
// them on demand.
type Router struct {
	log     zerolog.Logger
	sup     *supervisor.Supervisor
	servers []config.ServerConfig
}

func New(log zerolog.Logger, sup *supervisor.Supervisor, servers []config.ServerConfig) *Router {
	return &Router{log: log, sup: sup, servers: servers}
}

// GetServer resolves path's extension to a configured server, spawning
// or reusing its running child.
func (r *Router) GetServer(ctx context.Context, path string) (*supervisor.ServerState, error) {
	ext := extensionOf(path)
	for _, cfg := range r.servers {
		if cfg.HandlesExtension(ext) {
			return r.sup.EnsureStarted(ctx, cfg)
		}
	}
	return nil, corerr.Newf(corerr.Configuration, "no LSP server configured for extension %q", ext)
}

func extensionOf(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}
	return base[idx+1:]
}

// Ready pairs a running server with its configured key, returned by
// EnsureAllServersReady.
type Ready struct {
	Key        string
	State      *supervisor.ServerState
	Extensions []string
}

// EnsureAllServersReady starts every configured server, waits for each
// to initialize, opens a workspace anchor file if one has no open file
// yet, and waits for workspace indexing to settle.
func (r *Router) EnsureAllServersReady(ctx context.Context) ([]Ready, error) {
	out := make([]Ready, 0, len(r.servers))
	for _, cfg := range r.servers {
		state, err := r.sup.EnsureStarted(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := state.WaitReady(ctx); err != nil {
			return nil, err
		}

		if len(state.OpenFiles()) == 0 {
			anchor := scan.FirstMatch(state.RootDir, scan.Options{Extensions: cfg.Extensions})
			if anchor != "" {
				if err := docsync.EnsureOpen(ctx, state, anchor); err != nil {
					r.log.Warn().Err(err).Str("server", cfg.Key()).Str("anchor", anchor).Msg("failed to open workspace anchor file")
				}
			}
		}

		waitForIndexing(ctx, state)
		out = append(out, Ready{Key: cfg.Key(), State: state, Extensions: cfg.Extensions})
	}
	return out, nil
}

// waitForIndexing blocks until one of the three readiness conditions is
// satisfied. It never returns an error: a server that never signals
// readiness is simply used as-is after the fallback timeout.
func waitForIndexing(ctx context.Context, state *supervisor.ServerState) {
	if state.WorkspaceIndexed() {
		return
	}

	deadline := time.Now().Add(indexingFallback)
	ticker := time.NewTicker(indexingPollInterval)
	defer ticker.Stop()

	var lastCount int
	var stableRounds int

	for {
		if state.WorkspaceIndexed() {
			return
		}

		callCtx, cancel := context.WithTimeout(ctx, indexingPollInterval)
		var result []protocol.SymbolInformation
		err := state.Call(callCtx, "workspace/symbol", protocol.WorkspaceSymbolParams{Query: ""}, &result)
		cancel()

		if err == nil {
			count := len(result)
			if count > 0 && count == lastCount {
				stableRounds++
				if stableRounds >= 2 {
					state.SetWorkspaceIndexed(true)
					return
				}
			} else {
				stableRounds = 1
			}
			lastCount = count
		}

		if time.Now().After(deadline) {
			state.SetWorkspaceIndexed(true) // fallback: proceed regardless
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
