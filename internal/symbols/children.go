package symbols

import (
	"context"

	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/supervisor"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// Children re-fetches path's documentSymbol tree and returns the direct
// children of the hierarchical node named name whose identifier position
// matches pos. Flat-format responses have no children and yield an empty
// slice — get_class_members needs the hierarchical shape.
func Children(ctx context.Context, s *supervisor.ServerState, path, name string, pos protocol.Position) ([]Match, error) {
	uri := uriconv.PathToURI(path)

	var raw []json_RawDocumentSymbolOrInfo
	err := s.Call(ctx, "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}, &raw)
	if err != nil {
		return nil, err
	}

	node := findNode(raw, name, pos)
	if node == nil {
		return nil, nil
	}

	out := make([]Match, 0, len(node.Children))
	for _, child := range node.Children {
		identPos := child.SelectionRange.Start
		out = append(out, Match{Name: child.Name, Kind: child.Kind, Position: identPos, URI: uri})
	}
	return out, nil
}

func findNode(items []json_RawDocumentSymbolOrInfo, name string, pos protocol.Position) *json_RawDocumentSymbolOrInfo {
	for i := range items {
		item := &items[i]
		if item.hasSelectionRange && item.Name == name && item.SelectionRange.Start == pos {
			return item
		}
		if found := findNode(item.Children, name, pos); found != nil {
			return found
		}
	}
	return nil
}
