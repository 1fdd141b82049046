package operations

import (
	"context"

	"github.com/codereef/lspbridge/internal/diagnostics"
	"github.com/codereef/lspbridge/internal/docsync"
	"github.com/codereef/lspbridge/internal/edits"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// CodeActionResult is get_code_actions' structured output.
type CodeActionResult struct {
	Actions []protocol.CodeAction `json:"actions,omitempty"`
	Applied *edits.WorkspaceResult `json:"applied,omitempty"`
	Message string                `json:"message,omitempty"`
	Error   *errorInfo            `json:"error,omitempty"`
}

// GetCodeActions requests code actions for range, scoped by the file's
// diagnostics overlapping that range and any only-kinds filter. If
// applyTitle exactly matches one returned action's title, its embedded
// edit or command is executed.
func (c *Core) GetCodeActions(ctx context.Context, path string, r protocol.Range, onlyKinds []string, onlyPreferred bool, applyTitle string) CodeActionResult {
	state, err := c.Router.GetServer(ctx, path)
	if err != nil {
		return CodeActionResult{Error: describeError(err)}
	}
	if err := docsync.EnsureOpen(ctx, state, path); err != nil {
		return CodeActionResult{Error: describeError(err)}
	}
	uri := uriconv.PathToURI(path)

	allDiags, _ := diagnostics.Get(ctx, state, path)
	overlapping := overlappingDiagnostics(allDiags, r)

	var actions []protocol.CodeAction
	err = state.Call(ctx, "textDocument/codeAction", protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        r,
		Context:      protocol.CodeActionContext{Diagnostics: overlapping, Only: onlyKinds},
	}, &actions)
	if err != nil {
		return CodeActionResult{Error: describeError(err)}
	}

	if onlyPreferred {
		filtered := actions[:0]
		for _, a := range actions {
			if a.IsPreferred {
				filtered = append(filtered, a)
			}
		}
		actions = filtered
	}

	if applyTitle == "" {
		return CodeActionResult{Actions: actions}
	}

	for _, a := range actions {
		if a.Title != applyTitle {
			continue
		}
		if a.Edit != nil {
			res, err := edits.ApplyWorkspaceEdit(*a.Edit, false)
			if err != nil {
				return CodeActionResult{Actions: actions, Error: describeError(err)}
			}
			return CodeActionResult{Actions: actions, Applied: &res}
		}
		if a.Command != nil {
			if err := state.Call(ctx, "workspace/executeCommand", protocol.ExecuteCommandParams{
				Command: a.Command.Command, Arguments: a.Command.Arguments,
			}, nil); err != nil {
				return CodeActionResult{Actions: actions, Error: describeError(err)}
			}
			return CodeActionResult{Actions: actions, Message: "command executed: " + a.Command.Command}
		}
	}
	return CodeActionResult{Actions: actions, Message: "no action matched title " + applyTitle}
}

func overlappingDiagnostics(all []protocol.Diagnostic, r protocol.Range) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, d := range all {
		if rangesOverlap(d.Range, r) {
			out = append(out, d)
		}
	}
	return out
}

func rangesOverlap(a, b protocol.Range) bool {
	return !a.End.Less(b.Start) && !b.End.Less(a.Start)
}
