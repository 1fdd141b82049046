package operations

import (
	"context"
	"encoding/json"

	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
	"github.com/codereef/lspbridge/internal/symbols"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// HoverResult is get_hover's structured output.
type HoverResult struct {
	Contents string     `json:"contents,omitempty"`
	Message  string     `json:"message,omitempty"`
	Error    *errorInfo `json:"error,omitempty"`
}

// GetHover probes up to four positions around (line, character) and
// returns the first non-empty hover.
func (c *Core) GetHover(ctx context.Context, path string, line, character uint32) HoverResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return HoverResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return HoverResult{Error: describeError(err)}
	}
	uri := uriconv.PathToURI(path)

	for _, pos := range symbols.ProbePositions(line, character) {
		var hover protocol.Hover
		err := state.Call(ctx, "textDocument/hover", protocol.HoverParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Position:     pos,
			},
		}, &hover)
		if err == nil && hover.Contents.Value != "" {
			return HoverResult{Contents: hover.Contents.Value}
		}
	}
	return HoverResult{Message: "no hover information available"}
}

// SignatureHelpResult is get_signature_help's structured output.
type SignatureHelpResult struct {
	Signatures []protocol.SignatureInformation `json:"signatures,omitempty"`
	Message    string                          `json:"message,omitempty"`
	Error      *errorInfo                      `json:"error,omitempty"`
}

// GetSignatureHelp probes the same four positions for
// textDocument/signatureHelp.
func (c *Core) GetSignatureHelp(ctx context.Context, path string, line, character uint32) SignatureHelpResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return SignatureHelpResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return SignatureHelpResult{Error: describeError(err)}
	}
	uri := uriconv.PathToURI(path)

	for _, pos := range symbols.ProbePositions(line, character) {
		help, err := signatureHelpAt(ctx, state, uri, pos)
		if err == nil && len(help.Signatures) > 0 {
			return SignatureHelpResult{Signatures: help.Signatures}
		}
	}
	return SignatureHelpResult{Message: "no signature help available"}
}

func signatureHelpAt(ctx context.Context, state *supervisor.ServerState, uri protocol.DocumentUri, pos protocol.Position) (protocol.SignatureHelp, error) {
	var help protocol.SignatureHelp
	err := state.Call(ctx, "textDocument/signatureHelp", protocol.SignatureHelpParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
	}, &help)
	return help, err
}

// CompletionResult is get_completion's structured output.
type CompletionResult struct {
	Items   []protocol.CompletionItem `json:"items,omitempty"`
	Message string                    `json:"message,omitempty"`
	Error   *errorInfo                `json:"error,omitempty"`
}

// GetCompletion probes the same four positions for textDocument/completion,
// then caps the first non-empty result to maxResults (default 50) by
// truncation after any server-side cap.
func (c *Core) GetCompletion(ctx context.Context, path string, line, character uint32, maxResults int) CompletionResult {
	if maxResults <= 0 {
		maxResults = 50
	}
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return CompletionResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return CompletionResult{Error: describeError(err)}
	}
	uri := uriconv.PathToURI(path)

	for _, pos := range symbols.ProbePositions(line, character) {
		var raw rawCompletion
		err := state.Call(ctx, "textDocument/completion", protocol.CompletionParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Position:     pos,
			},
		}, &raw)
		items := raw.items()
		if err == nil && len(items) > 0 {
			if len(items) > maxResults {
				items = items[:maxResults]
			}
			return CompletionResult{Items: items}
		}
	}
	return CompletionResult{Message: "no completions available"}
}

// rawCompletion decodes either completion response shape: a bare
// CompletionItem[] or a CompletionList{items: [...]}.
type rawCompletion struct {
	list  protocol.CompletionList
	plain []protocol.CompletionItem
}

func (r *rawCompletion) items() []protocol.CompletionItem {
	if len(r.list.Items) > 0 {
		return r.list.Items
	}
	return r.plain
}

func (r *rawCompletion) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.plain)
	}
	return json.Unmarshal(data, &r.list)
}
