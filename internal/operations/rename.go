package operations

import (
	"context"

	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
	"github.com/codereef/lspbridge/internal/symbols"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// CandidateResult is one ambiguous resolver match, rendered with
// 1-indexed coordinates for the agent channel.
type CandidateResult struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// RenameResult is rename_symbol / rename_symbol_strict's structured
// output.
type RenameResult struct {
	Changes    map[protocol.DocumentUri][]protocol.TextEdit `json:"changes,omitempty"`
	Candidates []CandidateResult                            `json:"candidates,omitempty"`
	Message    string                                       `json:"message,omitempty"`
	Warning    string                                       `json:"warning,omitempty"`
	Error      *errorInfo                                   `json:"error,omitempty"`
}

// RenameSymbol resolves name in path; with exactly one match it issues
// textDocument/rename, and with more than one it returns the candidate
// list and directs the caller to RenameSymbolStrict.
func (c *Core) RenameSymbol(ctx context.Context, path, name, kind, newName string) RenameResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return RenameResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return RenameResult{Error: describeError(err)}
	}

	result, err := symbols.Find(ctx, state, path, name, kind)
	if err != nil {
		return RenameResult{Error: describeError(err)}
	}

	if len(result.Matches) > 1 {
		candidates := make([]CandidateResult, 0, len(result.Matches))
		for _, m := range result.Matches {
			candidates = append(candidates, CandidateResult{
				Name:      m.Name,
				Kind:      protocol.KindName(m.Kind),
				Line:      int(m.Position.Line) + 1,
				Character: int(m.Position.Character) + 1,
			})
		}
		return RenameResult{
			Candidates: candidates,
			Message:    "multiple symbols match; use rename_symbol_strict with an exact position",
			Warning:    result.Warning,
		}
	}

	if len(result.Matches) == 0 {
		return RenameResult{Message: "no symbol matches", Warning: result.Warning}
	}

	m := result.Matches[0]
	return c.renameAt(ctx, state, m.URI, m.Position, newName, result.Warning)
}

// RenameSymbolStrict bypasses the resolver, renaming the symbol at an
// explicit 1-indexed position.
func (c *Core) RenameSymbolStrict(ctx context.Context, path string, line, character int, newName string) RenameResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return RenameResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return RenameResult{Error: describeError(err)}
	}

	pos := protocol.Position{Line: oneIndexedToZero(line), Character: oneIndexedToZero(character)}
	uri := uriconv.PathToURI(path)
	return c.renameAt(ctx, state, uri, pos, newName, "")
}

func (c *Core) renameAt(ctx context.Context, state *supervisor.ServerState, uri protocol.DocumentUri, pos protocol.Position, newName, warning string) RenameResult {
	var edit protocol.WorkspaceEdit
	err := state.Call(ctx, "textDocument/rename", protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		NewName: newName,
	}, &edit)
	if err != nil {
		return RenameResult{Error: describeError(err), Warning: warning}
	}
	return RenameResult{Changes: edit.Changes, Warning: warning}
}
