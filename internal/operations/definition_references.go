package operations

import (
	"context"

	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/symbols"
)

// LocationResult is a single resolved location in the shape the agent
// channel renders.
type LocationResult struct {
	URI   string `json:"uri"`
	Line  uint32 `json:"line"`
	Character uint32 `json:"character"`
}

func toLocationResult(loc protocol.Location) LocationResult {
	return LocationResult{URI: string(loc.URI), Line: loc.Range.Start.Line, Character: loc.Range.Start.Character}
}

// FindDefinitionResult is find_definition's structured output.
type FindDefinitionResult struct {
	Locations []LocationResult `json:"locations,omitempty"`
	Warning   string           `json:"warning,omitempty"`
	Message   string           `json:"message,omitempty"`
	Error     *errorInfo       `json:"error,omitempty"`
}

// FindDefinition resolves name in path and issues textDocument/definition
// at each match's position.
func (c *Core) FindDefinition(ctx context.Context, path, name, kind string) FindDefinitionResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return FindDefinitionResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return FindDefinitionResult{Error: describeError(err)}
	}

	result, err := symbols.Find(ctx, state, path, name, kind)
	if err != nil {
		return FindDefinitionResult{Error: describeError(err)}
	}

	var locs []LocationResult
	for _, m := range result.Matches {
		var defs []protocol.Location
		if err := state.Call(ctx, "textDocument/definition", protocol.DefinitionParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: m.URI},
				Position:     m.Position,
			},
		}, &defs); err != nil {
			continue
		}
		for _, d := range defs {
			locs = append(locs, toLocationResult(d))
		}
	}

	if len(locs) == 0 {
		return FindDefinitionResult{Warning: result.Warning, Message: "no definitions retrievable"}
	}
	return FindDefinitionResult{Locations: locs, Warning: result.Warning}
}

// FindReferencesResult is find_references' structured output.
type FindReferencesResult struct {
	Locations []LocationResult `json:"locations,omitempty"`
	Warning   string           `json:"warning,omitempty"`
	Message   string           `json:"message,omitempty"`
	Error     *errorInfo       `json:"error,omitempty"`
}

// FindReferences resolves name in path and issues textDocument/references
// at each match's position.
func (c *Core) FindReferences(ctx context.Context, path, name, kind string, includeDeclaration bool) FindReferencesResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return FindReferencesResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return FindReferencesResult{Error: describeError(err)}
	}

	result, err := symbols.Find(ctx, state, path, name, kind)
	if err != nil {
		return FindReferencesResult{Error: describeError(err)}
	}

	var locs []LocationResult
	for _, m := range result.Matches {
		var refs []protocol.Location
		if err := state.Call(ctx, "textDocument/references", protocol.ReferenceParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: m.URI},
				Position:     m.Position,
			},
			Context: protocol.ReferenceContext{IncludeDeclaration: includeDeclaration},
		}, &refs); err != nil {
			continue
		}
		for _, r := range refs {
			locs = append(locs, toLocationResult(r))
		}
	}

	if len(locs) == 0 {
		return FindReferencesResult{Warning: result.Warning, Message: "no references retrievable"}
	}
	return FindReferencesResult{Locations: locs, Warning: result.Warning}
}
