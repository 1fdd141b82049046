package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/textutil"
)

// WorkspaceSymbolResult is search_type/get_workspace_symbols' structured
// output.
type WorkspaceSymbolResult struct {
	Symbols []LocationResult `json:"symbols,omitempty"`
	Debug   DebugInfo        `json:"debug"`
	Error   *errorInfo       `json:"error,omitempty"`
}

// DebugInfo reports the fan-out telemetry get_workspace_symbols returns
// alongside its merged result.
type DebugInfo struct {
	ServersQueried int `json:"serversQueried"`
	RawResults     int `json:"rawResults"`
	AfterFilter    int `json:"afterFilter"`
}

type symbolEntry struct {
	name string
	kind protocol.SymbolKind
	loc  protocol.Location
}

func (e symbolEntry) key() string {
	return e.name + "\x00" + string(e.loc.URI) + "\x00" + posKey(e.loc.Range)
}

func posKey(r protocol.Range) string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Character, r.End.Line, r.End.Character)
}

// callableKinds are matched as a substring against the symbol name
// rather than an exact prefix, since servers often embed the full
// signature in the name (e.g. "void Foo(int)").
var callableKinds = map[protocol.SymbolKind]bool{
	protocol.Method:      true,
	protocol.Function:    true,
	protocol.Constructor: true,
}

// derivedQuery strips leading/trailing wildcard characters from pattern
// if it looks like a glob, otherwise passes it through unchanged.
func derivedQuery(pattern string) string {
	if strings.ContainsAny(pattern, "*?") {
		return strings.Trim(pattern, "*?")
	}
	return pattern
}

// GetWorkspaceSymbols fans workspace/symbol out to every ready server,
// merges results, and applies client-side name/kind filtering.
func (c *Core) GetWorkspaceSymbols(ctx context.Context, pattern, optionalKind string, caseSensitive bool, maxResults int) WorkspaceSymbolResult {
	if maxResults <= 0 {
		maxResults = 100
	}
	query := derivedQuery(pattern)

	ready, err := c.Router.EnsureAllServersReady(ctx)
	if err != nil {
		return WorkspaceSymbolResult{Error: describeError(err)}
	}

	var all []symbolEntry
	for _, r := range ready {
		var result []protocol.SymbolInformation
		if err := r.State.Call(ctx, "workspace/symbol", protocol.WorkspaceSymbolParams{Query: query}, &result); err != nil {
			continue
		}
		for _, s := range result {
			all = append(all, symbolEntry{name: s.Name, kind: s.Kind, loc: s.Location})
		}
	}

	raw := len(all)

	wantKind, kindGiven := protocol.SymbolKind(0), false
	if optionalKind != "" {
		if k, ok := protocol.ParseKindName(strings.ToLower(optionalKind)); ok {
			wantKind, kindGiven = k, true
		}
	}

	seen := map[string]bool{}
	var out []LocationResult
	for _, e := range all {
		if kindGiven && e.kind != wantKind {
			continue
		}
		if !matchesPattern(e, pattern, caseSensitive) {
			continue
		}
		k := e.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, toLocationResult(e.loc))
		if len(out) >= maxResults {
			break
		}
	}

	return WorkspaceSymbolResult{
		Symbols: out,
		Debug:   DebugInfo{ServersQueried: len(ready), RawResults: raw, AfterFilter: len(out)},
	}
}

func matchesPattern(e symbolEntry, pattern string, caseSensitive bool) bool {
	name, pat := e.name, pattern
	if !caseSensitive {
		name, pat = textutil.FoldCase(name), textutil.FoldCase(pat)
	}
	pat = strings.Trim(pat, "*?")

	if callableKinds[e.kind] {
		return strings.Contains(name, pat)
	}
	prefix := name
	if idx := strings.Index(name, "("); idx >= 0 {
		prefix = name[:idx]
	}
	return prefix == pat
}
