// Package lspjson does cheap, lazy inspection of raw JSON-RPC payloads
// before paying for a full struct unmarshal. Most notifications a
// supervised server sends are never read in full: a $/progress frame is
// only interesting for its "kind" field, and publishDiagnostics is only
// interesting when its diagnostics array is non-empty.
package lspjson

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ProgressKind field-sniffs a $/progress notification's value.kind
// without unmarshaling the rest of the payload.
func ProgressKind(raw []byte) string {
	return gjson.GetBytes(raw, "value.kind").String()
}

// HasDiagnostics field-sniffs whether a publishDiagnostics payload
// carries any diagnostics, letting the caller skip the full unmarshal
// for the common "still clean" case.
func HasDiagnostics(raw []byte) bool {
	return gjson.GetBytes(raw, "diagnostics.0").Exists()
}

// DiagnosticsURI field-sniffs the uri of a publishDiagnostics payload.
func DiagnosticsURI(raw []byte) string {
	return gjson.GetBytes(raw, "uri").String()
}

// PatchText rewrites just the contentChanges[0].text field of a cached
// didChange payload rather than re-marshaling the whole params struct,
// used by the no-op change pair to flip between "original+space" and
// "original" without building a new params value each time.
func PatchText(cachedParams []byte, text string) ([]byte, error) {
	return sjson.SetBytes(cachedParams, "contentChanges.0.text", text)
}

// PatchVersion rewrites just the textDocument.version field of a cached
// didChange payload.
func PatchVersion(cachedParams []byte, version int32) ([]byte, error) {
	return sjson.SetBytes(cachedParams, "textDocument.version", version)
}
