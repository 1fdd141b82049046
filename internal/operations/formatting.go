package operations

import (
	"context"

	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/edits"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// FormatResult is format_document's structured output.
type FormatResult struct {
	Text    string     `json:"text,omitempty"`
	Summary []string   `json:"summary,omitempty"`
	Error   *errorInfo `json:"error,omitempty"`
}

// FormatDocument issues textDocument/formatting or rangeFormatting
// depending on whether a range was supplied, then runs the Edit Applier
// over the returned TextEdits with the given preview flag.
func (c *Core) FormatDocument(ctx context.Context, path string, r *protocol.Range, opts protocol.FormattingOptions, preview bool) FormatResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return FormatResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return FormatResult{Error: describeError(err)}
	}
	uri := uriconv.PathToURI(path)

	var textEdits []protocol.TextEdit
	if r != nil {
		err = state.Call(ctx, "textDocument/rangeFormatting", protocol.DocumentRangeFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Range:        *r,
			Options:      opts,
		}, &textEdits)
	} else {
		err = state.Call(ctx, "textDocument/formatting", protocol.DocumentFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Options:      opts,
		}, &textEdits)
	}
	if err != nil {
		return FormatResult{Error: describeError(err)}
	}

	res, err := edits.ApplyToFile(path, textEdits, preview)
	if err != nil {
		return FormatResult{Error: describeError(err)}
	}
	return FormatResult{Text: res.Text, Summary: res.Summary}
}
