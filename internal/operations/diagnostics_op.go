package operations

import (
	"context"

	"github.com/codereef/lspbridge/internal/diagnostics"
	"github.com/codereef/lspbridge/internal/protocol"
)

// GetDiagnosticsResult is get_diagnostics' structured output.
type GetDiagnosticsResult struct {
	Diagnostics []protocol.Diagnostic `json:"diagnostics"`
	Error       *errorInfo            `json:"error,omitempty"`
}

// GetDiagnostics fetches a file's current diagnostics, forcing a fresh
// publish via the idle-waiter when the cache might be stale.
func (c *Core) GetDiagnostics(ctx context.Context, path string) GetDiagnosticsResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return GetDiagnosticsResult{Error: describeError(err)}
	}
	diags, err := diagnostics.Get(ctx, state, path)
	if err != nil {
		return GetDiagnosticsResult{Error: describeError(err)}
	}
	return GetDiagnosticsResult{Diagnostics: diags}
}
