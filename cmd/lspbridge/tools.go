package main

import (
	"context"
	"fmt"

	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"

	"github.com/codereef/lspbridge/internal/corectx"
	"github.com/codereef/lspbridge/internal/protocol"
)

// newToolServer registers every code-intelligence operation as an
// agent-channel tool. mcp-golang derives each tool's JSON Schema from its
// argument struct's own jsonschema tags via invopop/jsonschema internally,
// so unlike hand-written schema string literals, argument shapes here are
// a single source of truth: the Go struct.
func newToolServer(core *corectx.Core) *mcp_golang.Server {
	s := mcp_golang.NewServer(stdio.NewStdioServerTransport())
	ctx := context.Background()

	register(s, "find_definition",
		"Find the definition location(s) of a named symbol in a file.",
		func(a FindDefinitionArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.FindDefinition(ctx, a.Path, a.Name, a.Kind))
		})

	register(s, "find_references",
		"Find every reference to a named symbol in a file.",
		func(a FindReferencesArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.FindReferences(ctx, a.Path, a.Name, a.Kind, a.IncludeDeclaration))
		})

	register(s, "rename_symbol",
		"Rename a symbol by name; returns candidates to disambiguate if more than one match is found.",
		func(a RenameSymbolArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.RenameSymbol(ctx, a.Path, a.Name, a.Kind, a.NewName))
		})

	register(s, "rename_symbol_strict",
		"Rename the symbol at an exact 1-indexed line/character position.",
		func(a RenameSymbolStrictArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.RenameSymbolStrict(ctx, a.Path, a.Line, a.Character, a.NewName))
		})

	register(s, "get_diagnostics",
		"Get the current diagnostics for a file, waiting briefly for analysis to settle.",
		func(a GetDiagnosticsArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetDiagnostics(ctx, a.Path))
		})

	register(s, "get_all_diagnostics",
		"Get diagnostics for every matching file across every configured server.",
		func(a GetAllDiagnosticsArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetAllDiagnostics(ctx, a.IncludeGlobs, a.ExcludeGlobs, a.MaxPerFile, a.GroupBySeverity, a.IncludeSource))
		})

	register(s, "get_hover",
		"Get hover text at a position, probing nearby positions if the exact one misses.",
		func(a PositionArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetHover(ctx, a.Path, a.Line, a.Character))
		})

	register(s, "get_signature_help",
		"Get signature help at a position, probing nearby positions if the exact one misses.",
		func(a PositionArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetSignatureHelp(ctx, a.Path, a.Line, a.Character))
		})

	register(s, "get_completion",
		"Get completion items at a position, capped at maxResults.",
		func(a CompletionArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetCompletion(ctx, a.Path, a.Line, a.Character, a.MaxResults))
		})

	register(s, "get_class_members",
		"List a class's members with best-effort signature, hover, and definition info for each.",
		func(a ClassMembersArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetClassMembers(ctx, a.Path, a.ClassName))
		})

	register(s, "get_method_signature",
		"Get a method's signature, optionally scoped to a class.",
		func(a MethodSignatureArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetMethodSignature(ctx, a.Path, a.Method, a.ClassName))
		})

	register(s, "get_workspace_symbols",
		"Search for symbols by name across every configured server.",
		func(a WorkspaceSymbolArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.GetWorkspaceSymbols(ctx, a.Query, a.Kind, a.CaseSensitive, a.MaxResults))
		})

	register(s, "format_document",
		"Format a document, or a range within it, and apply or preview the result.",
		func(a FormatArgs) (*mcp_golang.ToolResponse, error) {
			var r *protocol.Range
			if a.HasRange {
				r = &protocol.Range{
					Start: protocol.Position{Line: a.StartLine, Character: a.StartCharacter},
					End:   protocol.Position{Line: a.EndLine, Character: a.EndCharacter},
				}
			}
			opts := protocol.FormattingOptions{TabSize: a.TabSize, InsertSpaces: a.InsertSpaces}
			if opts.TabSize == 0 {
				opts.TabSize = 4
			}
			return textResponse(core.Ops.FormatDocument(ctx, a.Path, r, opts, a.Preview))
		})

	register(s, "get_code_actions",
		"List code actions available for a range, optionally applying one by title.",
		func(a CodeActionArgs) (*mcp_golang.ToolResponse, error) {
			r := protocol.Range{
				Start: protocol.Position{Line: a.StartLine, Character: a.StartCharacter},
				End:   protocol.Position{Line: a.EndLine, Character: a.EndCharacter},
			}
			return textResponse(core.Ops.GetCodeActions(ctx, a.Path, r, a.OnlyKinds, a.OnlyPreferred, a.ApplyTitle))
		})

	register(s, "delete_symbol",
		"Delete a symbol's declaration, optionally also deleting its call sites.",
		func(a DeleteSymbolArgs) (*mcp_golang.ToolResponse, error) {
			return textResponse(core.Ops.DeleteSymbol(ctx, a.Path, a.Name, a.Kind, a.DeleteReferences, a.DryRun, a.ForceDelete))
		})

	return s
}

// register wraps mcpServer.RegisterTool, converting a registration
// failure at startup into an immediate panic: an unregistrable tool
// means this binary's argument structs or the mcp-golang version it was
// built against have drifted, which is a programming error, not a
// runtime condition callers should have to handle.
func register[T any](s *mcp_golang.Server, name, description string, handler func(T) (*mcp_golang.ToolResponse, error)) {
	if err := s.RegisterTool(name, description, handler); err != nil {
		panic(fmt.Sprintf("register tool %s: %v", name, err))
	}
}
