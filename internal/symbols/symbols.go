// Package symbols resolves a symbol by name to the identifier position
// textDocument/definition and friends expect, across both documentSymbol
// response shapes, plus the multi-position probing used by
// hover/signatureHelp/completion.
package symbols

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// Match is one resolved symbol: a name, kind, and the identifier position
// a caller can feed into textDocument/definition. It points at the
// identifier, except for a flat-format symbol whose name is not found
// in its declared range, where it is that range's start.
type Match struct {
	Name     string
	Kind     protocol.SymbolKind
	Position protocol.Position
	URI      protocol.DocumentUri
}

// Result is findSymbolsByName's return: the matches plus any warning to
// surface to the caller (e.g. a downgraded kind filter).
type Result struct {
	Matches  []Match
	Warning  string
}

// rawSymbol unifies the two documentSymbol wire shapes, discriminated by
// whether the payload carried a selectionRange.
type rawSymbol struct {
	isHierarchical bool
	name           string
	kind           protocol.SymbolKind
	uri            protocol.DocumentUri
	declRange      protocol.Range // full declaration range
	identPos       protocol.Position
}

// Find resolves every symbol in path whose name contains query
// (substring match) and whose kind matches optionalKind, if given.
func Find(ctx context.Context, s *supervisor.ServerState, path, query, optionalKind string) (Result, error) {
	uri := uriconv.PathToURI(path)

	wantKind, kindGiven, kindWarning := resolveKindFilter(optionalKind)

	raws, err := fetchSymbols(ctx, s, uri)
	if err != nil {
		return Result{}, err
	}

	matches := filterSymbols(raws, path, query, wantKind, kindGiven)

	if kindGiven && len(matches) == 0 {
		// Fallback: retry without the kind filter and report what kinds
		// actually matched the name.
		unfiltered := filterSymbols(raws, path, query, 0, false)
		if len(unfiltered) > 0 {
			found := map[string]bool{}
			var kinds []string
			for _, m := range unfiltered {
				n := protocol.KindName(m.Kind)
				if n != "" && !found[n] {
					found[n] = true
					kinds = append(kinds, n)
				}
			}
			return Result{
				Matches: unfiltered,
				Warning: "no matches for kind " + optionalKind + "; found kinds: " + strings.Join(kinds, ", "),
			}, nil
		}
	}

	return Result{Matches: matches, Warning: kindWarning}, nil
}

func resolveKindFilter(optionalKind string) (kind protocol.SymbolKind, given bool, warning string) {
	if optionalKind == "" {
		return 0, false, ""
	}
	k, ok := protocol.ParseKindName(strings.ToLower(optionalKind))
	if !ok {
		return 0, false, "unrecognized kind " + optionalKind + "; matching any kind"
	}
	return k, true, ""
}

func fetchSymbols(ctx context.Context, s *supervisor.ServerState, uri protocol.DocumentUri) ([]rawSymbol, error) {
	var raw []json_RawDocumentSymbolOrInfo
	err := s.Call(ctx, "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}, &raw)
	if err != nil {
		return nil, err
	}

	var out []rawSymbol
	for _, item := range raw {
		flattenInto(&out, item, uri)
	}
	return out, nil
}

func flattenInto(out *[]rawSymbol, item json_RawDocumentSymbolOrInfo, uri protocol.DocumentUri) {
	if item.hasSelectionRange {
		*out = append(*out, rawSymbol{
			isHierarchical: true,
			name:           item.Name,
			kind:           item.Kind,
			uri:            uri,
			declRange:      item.Range,
			identPos:       item.SelectionRange.Start,
		})
		for _, child := range item.Children {
			flattenInto(out, child, uri)
		}
		return
	}
	*out = append(*out, rawSymbol{
		isHierarchical: false,
		name:           item.Name,
		kind:           item.Kind,
		uri:            item.LocationURI,
		declRange:      item.LocationRange,
	})
}

func filterSymbols(raws []rawSymbol, path, query string, wantKind protocol.SymbolKind, kindGiven bool) []Match {
	var out []Match
	var fileText []byte
	for _, r := range raws {
		if !strings.Contains(r.name, query) {
			continue
		}
		if kindGiven && r.kind != wantKind {
			continue
		}
		pos := r.identPos
		if !r.isHierarchical {
			if fileText == nil {
				fileText, _ = os.ReadFile(path)
			}
			pos = recoverIdentifierPosition(fileText, r.declRange, r.name)
		}
		out = append(out, Match{Name: r.name, Kind: r.kind, Position: pos, URI: r.uri})
	}
	return out
}

// recoverIdentifierPosition searches for name's exact text within the
// declared range and returns its first occurrence's start, falling back
// to range.start on failure.
func recoverIdentifierPosition(fileText []byte, r protocol.Range, name string) protocol.Position {
	if fileText == nil || name == "" {
		return r.Start
	}
	lines := strings.Split(string(fileText), "\n")
	for lineNo := r.Start.Line; lineNo <= r.End.Line && int(lineNo) < len(lines); lineNo++ {
		line := lines[lineNo]
		startCol := 0
		if lineNo == r.Start.Line {
			startCol = int(r.Start.Character)
		}
		endCol := len(line)
		if lineNo == r.End.Line {
			endCol = int(r.End.Character)
		}
		if startCol > len(line) {
			continue
		}
		if endCol > len(line) {
			endCol = len(line)
		}
		segment := line[startCol:endCol]
		if idx := strings.Index(segment, name); idx >= 0 {
			return protocol.Position{Line: lineNo, Character: uint32(startCol + idx)}
		}
	}
	return r.Start
}

// json_RawDocumentSymbolOrInfo decodes either documentSymbol response
// shape into one struct; UnmarshalJSON discriminates by selectionRange
// presence.
type json_RawDocumentSymbolOrInfo struct {
	Name              string
	Kind              protocol.SymbolKind
	Range             protocol.Range
	SelectionRange    protocol.Range
	Children          []json_RawDocumentSymbolOrInfo
	hasSelectionRange bool
	LocationURI       protocol.DocumentUri
	LocationRange     protocol.Range
}

func (d *json_RawDocumentSymbolOrInfo) UnmarshalJSON(data []byte) error {
	var probe struct {
		Name           string                          `json:"name"`
		Kind           protocol.SymbolKind              `json:"kind"`
		Range          *protocol.Range                  `json:"range"`
		SelectionRange *protocol.Range                  `json:"selectionRange"`
		Children       []json_RawDocumentSymbolOrInfo   `json:"children"`
		Location       *protocol.Location               `json:"location"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	d.Name = probe.Name
	d.Kind = probe.Kind
	d.Children = probe.Children
	if probe.SelectionRange != nil {
		d.hasSelectionRange = true
		d.SelectionRange = *probe.SelectionRange
		if probe.Range != nil {
			d.Range = *probe.Range
		}
		return nil
	}
	if probe.Location != nil {
		d.LocationURI = probe.Location.URI
		d.LocationRange = probe.Location.Range
	}
	return nil
}
