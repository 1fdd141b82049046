// Package diagnostics retrieves a file's current diagnostics through a
// layered fallback (cache, pull request, idle-wait poll, forced
// re-diagnosis), because push-only servers, pull-only servers, and slow
// servers all need a different path to a trustworthy answer.
package diagnostics

import (
	"context"
	"time"

	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// idlePollInterval, idleTime, and the two wait budgets: poll every
// 50ms; 300ms of quiet since the last publish is "settled"; the first
// wait is capped at 5s, the second (after a forced no-op change) at 3s.
const (
	idlePollInterval = 50 * time.Millisecond
	idleTime         = 300 * time.Millisecond
	firstWaitBudget  = 5 * time.Second
	secondWaitBudget = 3 * time.Second
)

// Get returns the diagnostics currently known for path, following the
// fallback chain, after making sure the file is open:
//  1. if the server has ever published for this URI, return the cache
//  2. otherwise try textDocument/diagnostic (pull) if the server supports it
//  3. otherwise idle-wait for a push to settle
//  4. if still nothing, force a no-op re-diagnosis and idle-wait once more,
//     returning whatever is (or isn't) cached afterward
func Get(ctx context.Context, s *supervisor.ServerState, path string) ([]protocol.Diagnostic, error) {
	uri := uriconv.PathToURI(path)

	if err := docsync.EnsureOpen(ctx, s, path); err != nil {
		return nil, err
	}

	if diags, ok := s.Diagnostics(uri); ok {
		return diags, nil
	}

	if s.Capabilities().DiagnosticProvider != nil {
		if diags, err := pull(ctx, s, path, uri); err == nil {
			return diags, nil
		}
		// Fall through to the push-based path; a pull failure (e.g. the
		// server advertises support but errors on this file) isn't fatal.
	}

	if diags, ok := waitIdle(ctx, s, uri, firstWaitBudget); ok {
		return diags, nil
	}

	if err := docsync.NoOpChange(ctx, s, path); err != nil {
		return nil, err
	}
	if diags, ok := waitIdle(ctx, s, uri, secondWaitBudget); ok {
		return diags, nil
	}

	diags, _ := s.Diagnostics(uri)
	return diags, nil
}

func pull(ctx context.Context, s *supervisor.ServerState, path string, uri protocol.DocumentUri) ([]protocol.Diagnostic, error) {
	if err := docsync.EnsureOpen(ctx, s, path); err != nil {
		return nil, err
	}
	var report protocol.DocumentDiagnosticReport
	err := s.Call(ctx, "textDocument/diagnostic", protocol.DocumentDiagnosticParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}, &report)
	if err != nil {
		return nil, err
	}
	if report.Kind == "unchanged" {
		if diags, ok := s.Diagnostics(uri); ok {
			return diags, nil
		}
		return nil, nil
	}
	return report.Items, nil
}

// waitIdle polls the diagnostics cache until idleTime has passed since
// the last publish for uri and a version was recorded, or budget elapses.
func waitIdle(ctx context.Context, s *supervisor.ServerState, uri protocol.DocumentUri, budget time.Duration) ([]protocol.Diagnostic, bool) {
	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for {
		if last, ok := s.LastDiagnosticUpdate(uri); ok && time.Since(last) >= idleTime {
			diags, _ := s.Diagnostics(uri)
			return diags, true
		}
		if time.Now().After(deadline) {
			return nil, false
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// All returns every cached diagnostic across all open files, in the order
// each URI was first published, for get_all_diagnostics to fall back on
// for files its filesystem scan didn't revisit.
func All(s *supervisor.ServerState) []supervisor.DiagnosticEntry {
	return s.AllDiagnostics()
}
