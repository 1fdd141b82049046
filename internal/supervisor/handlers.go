package supervisor

import (
	"encoding/json"

	"github.com/codereef/lspbridge/internal/lspjson"
	"github.com/codereef/lspbridge/internal/protocol"
)

// handlePublishDiagnostics stores a server-pushed diagnostics snapshot.
// A field-sniff skips the unmarshal entirely for the common "still
// clean" notification.
func handlePublishDiagnostics(s *ServerState, raw json.RawMessage) {
	if !lspjson.HasDiagnostics(raw) {
		s.PublishDiagnostics(protocol.DocumentUri(lspjson.DiagnosticsURI(raw)), nil, nil)
		return
	}
	var params protocol.PublishDiagnosticsParams
	if err := json.Unmarshal(raw, &params); err != nil {
		s.log.Warn().Err(err).Msg("malformed publishDiagnostics notification")
		return
	}
	s.PublishDiagnostics(params.URI, params.Version, params.Diagnostics)
}

// handleProgress sniffs value.kind directly with gjson; the payload is
// never fully unmarshaled. Any "end" token is taken to mean the child
// finished indexing; the progress title and percentage are not
// inspected, and every other kind is ignored.
func handleProgress(s *ServerState, raw json.RawMessage) {
	if lspjson.ProgressKind(raw) == "end" {
		s.SetWorkspaceIndexed(true)
	}
}

func handleShowMessage(s *ServerState, raw json.RawMessage) {
	var msg struct {
		Type    int    `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	s.log.Debug().Int("messageType", msg.Type).Str("message", msg.Message).Msg("server window/showMessage")
}

func handleApplyEdit(applyEdit func(protocol.WorkspaceEdit) error, raw json.RawMessage) (any, error) {
	var params protocol.ApplyWorkspaceEditParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	if applyEdit == nil {
		return protocol.ApplyWorkspaceEditResult{Applied: false, FailureReason: "no edit applier installed"}, nil
	}

	if err := applyEdit(params.Edit); err != nil {
		return protocol.ApplyWorkspaceEditResult{Applied: false, FailureReason: err.Error()}, nil
	}
	return protocol.ApplyWorkspaceEditResult{Applied: true}, nil
}
