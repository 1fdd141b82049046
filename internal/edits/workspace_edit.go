package edits

import (
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// WorkspaceResult summarizes applying a protocol.WorkspaceEdit: the
// per-file Edit Applier results, keyed by path, plus a report of any
// file-create/rename/delete entries that were seen but not executed.
type WorkspaceResult struct {
	Files        map[string]Result
	Unexecuted   []string
}

// ApplyWorkspaceEdit honors both the legacy Changes map and the newer
// DocumentChanges array. Preview controls whether file writes actually
// happen.
func ApplyWorkspaceEdit(we protocol.WorkspaceEdit, preview bool) (WorkspaceResult, error) {
	out := WorkspaceResult{Files: map[string]Result{}}

	for uri, textEdits := range we.Changes {
		path := uriconv.URIToPath(uri)
		res, err := ApplyToFile(path, textEdits, preview)
		if err != nil {
			return out, err
		}
		out.Files[path] = res
	}

	for _, dc := range we.DocumentChanges {
		switch {
		case dc.TextDocumentEdit != nil:
			path := uriconv.URIToPath(dc.TextDocumentEdit.TextDocument.URI)
			plain := make([]protocol.TextEdit, 0, len(dc.TextDocumentEdit.Edits))
			for _, u := range dc.TextDocumentEdit.Edits {
				te, err := u.AsTextEdit()
				if err != nil {
					continue
				}
				plain = append(plain, te)
			}
			res, err := ApplyToFile(path, plain, preview)
			if err != nil {
				return out, err
			}
			out.Files[path] = res
		case dc.CreateFile != nil:
			out.Unexecuted = append(out.Unexecuted, "create file: "+string(dc.CreateFile.URI))
		case dc.RenameFile != nil:
			out.Unexecuted = append(out.Unexecuted, "rename file: "+string(dc.RenameFile.OldURI)+" -> "+string(dc.RenameFile.NewURI))
		case dc.DeleteFile != nil:
			out.Unexecuted = append(out.Unexecuted, "delete file: "+string(dc.DeleteFile.URI))
		}
	}

	return out, nil
}
