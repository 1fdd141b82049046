// Package docsync opens files on a supervised server the first time
// they're touched, and forces re-diagnosis of an already-open file via a
// no-op didChange.
package docsync

import (
	"context"
	"encoding/json"
	"os"

	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/lspjson"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
	"github.com/codereef/lspbridge/internal/textutil"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// languageIDs maps a bare file extension to the LSP languageId a server
// expects in didOpen. The mapping is kept small and explicit rather than
// guessing.
var languageIDs = map[string]string{
	"go":   "go",
	"ts":   "typescript",
	"tsx":  "typescriptreact",
	"js":   "javascript",
	"jsx":  "javascriptreact",
	"py":   "python",
	"rs":   "rust",
	"java": "java",
	"c":    "c",
	"h":    "c",
	"cpp":  "cpp",
	"hpp":  "cpp",
	"rb":   "ruby",
	"php":  "php",
	"cs":   "csharp",
	"json": "json",
	"yaml": "yaml",
	"yml":  "yaml",
	"toml": "toml",
	"md":   "markdown",
}

func languageID(path string) string {
	ext := ""
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			ext = path[i+1:]
			break
		}
		if path[i] == '/' {
			break
		}
	}
	if id, ok := languageIDs[ext]; ok {
		return id
	}
	return "plaintext"
}

// EnsureOpen sends textDocument/didOpen for path if this server hasn't
// already seen it. It is a no-op, not an error, if the file is already
// open.
func EnsureOpen(ctx context.Context, s *supervisor.ServerState, path string) error {
	if s.IsFileOpen(path) {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return corerr.Wrap(corerr.IO, err, "read file for didOpen").WithServer(s.Key)
	}
	text := textutil.NormalizeNFC(string(content))

	return s.WithWriteLock(func() error {
		if s.IsFileOpen(path) {
			return nil
		}
		params := protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{
				URI:        uriconv.PathToURI(path),
				LanguageID: languageID(path),
				Version:    1,
				Text:       text,
			},
		}
		if err := s.Notify(ctx, "textDocument/didOpen", params); err != nil {
			return err
		}
		s.MarkOpen(path)
		return nil
	})
}

// NoOpChange sends a didChange pair that leaves the file's on-disk
// content unchanged but forces most servers to re-publish diagnostics: a
// full-text replacement equal to the current text plus a trailing space,
// immediately followed by another replacement equal to the original text,
// each with a strictly increasing version. Used by the diagnostic
// idle-waiter to force a fresh publish.
func NoOpChange(ctx context.Context, s *supervisor.ServerState, path string) error {
	if err := EnsureOpen(ctx, s, path); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return corerr.Wrap(corerr.IO, err, "read file for no-op change").WithServer(s.Key)
	}
	original := textutil.NormalizeNFC(string(content))

	// Build the params skeleton once; the two notifications differ only in
	// contentChanges[0].text and textDocument.version, so each send patches
	// those two fields with sjson rather than re-marshaling the struct.
	skeleton := protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uriconv.PathToURI(path)},
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{Value: protocol.TextDocumentContentChangeWholeDocument{Text: original}},
		},
	}
	base, err := json.Marshal(skeleton)
	if err != nil {
		return corerr.Wrap(corerr.Protocol, err, "marshal didChange skeleton").WithServer(s.Key)
	}

	return s.WithWriteLock(func() error {
		if err := sendChange(ctx, s, path, base, original+" "); err != nil {
			return err
		}
		return sendChange(ctx, s, path, base, original)
	})
}

func sendChange(ctx context.Context, s *supervisor.ServerState, path string, base []byte, text string) error {
	version, ok := s.BumpVersion(path)
	if !ok {
		return corerr.Newf(corerr.Resolution, "file not open: %s", path).WithServer(s.Key)
	}
	patched, err := lspjson.PatchText(base, text)
	if err != nil {
		return corerr.Wrap(corerr.Protocol, err, "patch didChange text").WithServer(s.Key)
	}
	patched, err = lspjson.PatchVersion(patched, version)
	if err != nil {
		return corerr.Wrap(corerr.Protocol, err, "patch didChange version").WithServer(s.Key)
	}
	return s.Notify(ctx, "textDocument/didChange", json.RawMessage(patched))
}

// Close sends textDocument/didClose and drops local open-file bookkeeping.
func Close(ctx context.Context, s *supervisor.ServerState, path string) error {
	if !s.IsFileOpen(path) {
		return nil
	}
	return s.WithWriteLock(func() error {
		params := protocol.DidCloseTextDocumentParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uriconv.PathToURI(path)},
		}
		if err := s.Notify(ctx, "textDocument/didClose", params); err != nil {
			return err
		}
		s.MarkClosed(path)
		return nil
	})
}
