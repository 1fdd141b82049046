package main

// FindDefinitionArgs is find_definition's argument shape.
type FindDefinitionArgs struct {
	Path string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Name string `json:"name" jsonschema:"required,description=Name of the symbol to resolve"`
	Kind string `json:"kind,omitempty" jsonschema:"description=Optional symbol kind filter, e.g. class, function, method"`
}

// FindReferencesArgs is find_references' argument shape.
type FindReferencesArgs struct {
	Path                string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Name                string `json:"name" jsonschema:"required,description=Name of the symbol to resolve"`
	Kind                string `json:"kind,omitempty" jsonschema:"description=Optional symbol kind filter"`
	IncludeDeclaration  bool   `json:"includeDeclaration" jsonschema:"description=Include the declaration itself among the results; false when omitted"`
}

// RenameSymbolArgs is rename_symbol's argument shape.
type RenameSymbolArgs struct {
	Path    string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Name    string `json:"name" jsonschema:"required,description=Name of the symbol to rename"`
	Kind    string `json:"kind,omitempty" jsonschema:"description=Optional symbol kind filter"`
	NewName string `json:"newName" jsonschema:"required,description=The new name for the symbol"`
}

// RenameSymbolStrictArgs is rename_symbol_strict's argument shape.
type RenameSymbolStrictArgs struct {
	Path      string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Line      int    `json:"line" jsonschema:"required,description=1-indexed line of the symbol"`
	Character int    `json:"character" jsonschema:"required,description=1-indexed character of the symbol"`
	NewName   string `json:"newName" jsonschema:"required,description=The new name for the symbol"`
}

// GetDiagnosticsArgs is get_diagnostics' argument shape.
type GetDiagnosticsArgs struct {
	Path string `json:"path" jsonschema:"required,description=Path to the file to get diagnostics for"`
}

// GetAllDiagnosticsArgs is get_all_diagnostics' argument shape.
type GetAllDiagnosticsArgs struct {
	IncludeGlobs    []string `json:"includeGlobs,omitempty" jsonschema:"description=Only scan files matching one of these glob patterns"`
	ExcludeGlobs    []string `json:"excludeGlobs,omitempty" jsonschema:"description=Skip files matching any of these glob patterns"`
	MaxPerFile      int      `json:"maxPerFile,omitempty" jsonschema:"description=Cap the number of diagnostics reported per file"`
	GroupBySeverity bool     `json:"groupBySeverity,omitempty" jsonschema:"description=Group results by severity instead of by file"`
	IncludeSource   bool     `json:"includeSource,omitempty" jsonschema:"description=Include each diagnostic's reporting source; false when omitted"`
}

// PositionArgs is the shared shape for get_hover and get_signature_help.
type PositionArgs struct {
	Path      string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Line      uint32 `json:"line" jsonschema:"required,description=0-indexed line"`
	Character uint32 `json:"character" jsonschema:"required,description=0-indexed character"`
}

// CompletionArgs is get_completion's argument shape.
type CompletionArgs struct {
	Path       string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Line       uint32 `json:"line" jsonschema:"required,description=0-indexed line"`
	Character  uint32 `json:"character" jsonschema:"required,description=0-indexed character"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"default=50,description=Maximum number of completion items to return"`
}

// ClassMembersArgs is get_class_members' argument shape.
type ClassMembersArgs struct {
	Path      string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	ClassName string `json:"className" jsonschema:"required,description=Name of the class to describe"`
}

// MethodSignatureArgs is get_method_signature's argument shape.
type MethodSignatureArgs struct {
	Path      string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Method    string `json:"method" jsonschema:"required,description=Name of the method"`
	ClassName string `json:"className,omitempty" jsonschema:"description=Restrict the search to this class's members"`
}

// WorkspaceSymbolArgs is get_workspace_symbols' argument shape.
type WorkspaceSymbolArgs struct {
	Query         string `json:"query" jsonschema:"required,description=Symbol name or glob-style pattern (* and ? supported)"`
	Kind          string `json:"kind,omitempty" jsonschema:"description=Optional symbol kind filter"`
	CaseSensitive bool   `json:"caseSensitive,omitempty" jsonschema:"description=Match case-sensitively"`
	MaxResults    int    `json:"maxResults,omitempty" jsonschema:"default=100,description=Maximum number of symbols to return"`
}

// FormatArgs is format_document's argument shape.
type FormatArgs struct {
	Path           string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	HasRange       bool   `json:"hasRange,omitempty" jsonschema:"description=Format only the range below instead of the whole document"`
	StartLine      uint32 `json:"startLine,omitempty"`
	StartCharacter uint32 `json:"startCharacter,omitempty"`
	EndLine        uint32 `json:"endLine,omitempty"`
	EndCharacter   uint32 `json:"endCharacter,omitempty"`
	TabSize        uint32 `json:"tabSize,omitempty" jsonschema:"default=4"`
	InsertSpaces   bool   `json:"insertSpaces,omitempty" jsonschema:"description=Indent with spaces instead of tabs; false when omitted"`
	Preview        bool   `json:"preview,omitempty" jsonschema:"description=Return the formatted text without writing it to disk"`
}

// CodeActionArgs is get_code_actions' argument shape.
type CodeActionArgs struct {
	Path           string   `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	StartLine      uint32   `json:"startLine" jsonschema:"required"`
	StartCharacter uint32   `json:"startCharacter" jsonschema:"required"`
	EndLine        uint32   `json:"endLine" jsonschema:"required"`
	EndCharacter   uint32   `json:"endCharacter" jsonschema:"required"`
	OnlyKinds      []string `json:"onlyKinds,omitempty" jsonschema:"description=Restrict to these CodeActionKind values"`
	OnlyPreferred  bool     `json:"onlyPreferred,omitempty" jsonschema:"description=Only return actions the server marked preferred"`
	ApplyTitle     string   `json:"applyTitle,omitempty" jsonschema:"description=If set and it matches an action's title, apply or execute that action"`
}

// DeleteSymbolArgs is delete_symbol's argument shape.
type DeleteSymbolArgs struct {
	Path             string `json:"path" jsonschema:"required,description=Path to a file in the workspace"`
	Name             string `json:"name" jsonschema:"required,description=Name of the symbol to delete"`
	Kind             string `json:"kind,omitempty" jsonschema:"description=Optional symbol kind filter"`
	DeleteReferences bool   `json:"deleteReferences,omitempty" jsonschema:"description=Also delete call sites, not just the declaration"`
	DryRun           bool   `json:"dryRun,omitempty" jsonschema:"description=Preview the edit without writing it to disk"`
	ForceDelete      bool   `json:"forceDelete,omitempty" jsonschema:"description=Delete the declaration even if it has external references"`
}
