package operations

import (
	"context"
	"os"
	"strings"

	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/edits"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/symbols"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// DeleteSymbolResult is delete_symbol's structured output.
type DeleteSymbolResult struct {
	CanSafelyDelete bool       `json:"canSafelyDelete"`
	Preview         string     `json:"preview,omitempty"`
	Message         string     `json:"message,omitempty"`
	Warning         string     `json:"warning,omitempty"`
	Applied         bool       `json:"applied"`
	Error           *errorInfo `json:"error,omitempty"`
}

// DeleteSymbol resolves name to a single symbol (warning and using the
// first on ambiguity), computes whether it's safe to delete (no reference
// other than the declaration itself), builds the replacement edit, and either previews
// or applies it.
func (c *Core) DeleteSymbol(ctx context.Context, path, name, kind string, deleteReferences, dryRun, forceDelete bool) DeleteSymbolResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return DeleteSymbolResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return DeleteSymbolResult{Error: describeError(err)}
	}

	result, err := symbols.Find(ctx, state, path, name, kind)
	if err != nil {
		return DeleteSymbolResult{Error: describeError(err)}
	}
	if len(result.Matches) == 0 {
		return DeleteSymbolResult{Message: "no symbol matches", Warning: result.Warning}
	}
	warning := result.Warning
	if len(result.Matches) > 1 {
		if warning != "" {
			warning += "; "
		}
		warning += "multiple symbols matched; using the first"
	}
	m := result.Matches[0]
	uri := uriconv.PathToURI(path)

	var defs []protocol.Location
	_ = state.Call(ctx, "textDocument/definition", protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{TextDocument: protocol.TextDocumentIdentifier{URI: uri}, Position: m.Position},
	}, &defs)

	var refs []protocol.Location
	_ = state.Call(ctx, "textDocument/references", protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{TextDocument: protocol.TextDocumentIdentifier{URI: uri}, Position: m.Position},
		Context:                    protocol.ReferenceContext{IncludeDeclaration: true},
	}, &refs)

	if len(defs) == 0 {
		return DeleteSymbolResult{Message: "could not locate declaration", Warning: warning}
	}
	declLoc := defs[0]

	external := externalReferences(refs, declLoc)
	safe := len(external) == 0

	content, err := os.ReadFile(path)
	if err != nil {
		return DeleteSymbolResult{Error: describeError(err), Warning: warning}
	}
	lines := strings.Split(string(content), "\n")

	declEdit := buildDeclarationEdit(lines, declLoc.Range)
	textEdits := []protocol.TextEdit{declEdit}
	if deleteReferences {
		for _, r := range external {
			textEdits = append(textEdits, protocol.TextEdit{Range: r.Range, NewText: ""})
		}
	}

	if dryRun {
		res := edits.Apply(string(content), textEdits)
		return DeleteSymbolResult{CanSafelyDelete: safe, Preview: res.Text, Warning: warning}
	}

	if !safe && !deleteReferences && !forceDelete {
		return DeleteSymbolResult{
			CanSafelyDelete: false,
			Warning:         warning,
			Message: "refusing to delete: symbol has external references; retry with deleteReferences=true to remove call sites, " +
				"or forceDelete=true to delete the declaration only",
		}
	}

	res, err := edits.ApplyToFile(path, textEdits, false)
	if err != nil {
		return DeleteSymbolResult{Error: describeError(err), Warning: warning}
	}
	_ = res
	return DeleteSymbolResult{CanSafelyDelete: safe, Applied: true, Warning: warning}
}

// externalReferences drops the reference that coincides with the
// declaration location itself.
func externalReferences(refs []protocol.Location, decl protocol.Location) []protocol.Location {
	var out []protocol.Location
	for _, r := range refs {
		if r.URI == decl.URI && r.Range == decl.Range {
			continue
		}
		out = append(out, r)
	}
	return out
}

// buildDeclarationEdit extends the declaration's range to consume its
// trailing newline when the declaration occupies whole lines (no
// non-whitespace before its start on the first line, none after its end
// on the last line), so the gap closes cleanly; otherwise it edits only
// the declared range.
func buildDeclarationEdit(lines []string, r protocol.Range) protocol.TextEdit {
	if int(r.Start.Line) >= len(lines) || int(r.End.Line) >= len(lines) {
		return protocol.TextEdit{Range: r, NewText: ""}
	}

	firstLine := lines[r.Start.Line]
	lastLine := lines[r.End.Line]

	before := ""
	if int(r.Start.Character) <= len(firstLine) {
		before = firstLine[:r.Start.Character]
	}
	after := ""
	if int(r.End.Character) <= len(lastLine) {
		after = lastLine[r.End.Character:]
	}

	if strings.TrimSpace(before) == "" && strings.TrimSpace(after) == "" {
		endLine := r.End.Line + 1
		if int(endLine) < len(lines) {
			return protocol.TextEdit{
				Range:   protocol.Range{Start: protocol.Position{Line: r.Start.Line, Character: 0}, End: protocol.Position{Line: endLine, Character: 0}},
				NewText: "",
			}
		}
	}
	return protocol.TextEdit{Range: r, NewText: ""}
}
