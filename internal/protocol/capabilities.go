package protocol

// This file models the subset of InitializeParams/ClientCapabilities and
// ServerCapabilities the bridge actually sets or reads.

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type WorkspaceFolder struct {
	URI  URI    `json:"uri"`
	Name string `json:"name"`
}

type TraceValue string

type ClientSymbolKindOptions struct {
	ValueSet []SymbolKind `json:"valueSet,omitempty"`
}

type WorkspaceSymbolClientCapabilities struct {
	DynamicRegistration bool                      `json:"dynamicRegistration,omitempty"`
	SymbolKind          *ClientSymbolKindOptions  `json:"symbolKind,omitempty"`
}

type WorkspaceEditClientCapabilities struct {
	DocumentChanges bool `json:"documentChanges,omitempty"`
}

type DidChangeConfigurationClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

type DidChangeWatchedFilesClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

type WorkspaceClientCapabilities struct {
	ApplyEdit              bool                                      `json:"applyEdit,omitempty"`
	WorkspaceEdit          *WorkspaceEditClientCapabilities          `json:"workspaceEdit,omitempty"`
	DidChangeConfiguration DidChangeConfigurationClientCapabilities  `json:"didChangeConfiguration"`
	DidChangeWatchedFiles  *DidChangeWatchedFilesClientCapabilities  `json:"didChangeWatchedFiles,omitempty"`
	Symbol                 *WorkspaceSymbolClientCapabilities        `json:"symbol,omitempty"`
	WorkspaceFolders       bool                                      `json:"workspaceFolders,omitempty"`
}

type TextDocumentSyncClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
	WillSave            bool `json:"willSave,omitempty"`
	WillSaveWaitUntil   bool `json:"willSaveWaitUntil,omitempty"`
	DidSave             bool `json:"didSave,omitempty"`
}

type RenameClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
	PrepareSupport      bool `json:"prepareSupport,omitempty"`
}

type DocumentSymbolClientCapabilities struct {
	DynamicRegistration                bool                     `json:"dynamicRegistration,omitempty"`
	SymbolKind                         *ClientSymbolKindOptions `json:"symbolKind,omitempty"`
	HierarchicalDocumentSymbolSupport  bool                     `json:"hierarchicalDocumentSymbolSupport,omitempty"`
}

type CompletionItemClientCapabilities struct {
	SnippetSupport bool `json:"snippetSupport,omitempty"`
}

type CompletionClientCapabilities struct {
	DynamicRegistration bool                              `json:"dynamicRegistration,omitempty"`
	CompletionItem      *CompletionItemClientCapabilities `json:"completionItem,omitempty"`
}

type HoverClientCapabilities struct {
	DynamicRegistration bool     `json:"dynamicRegistration,omitempty"`
	ContentFormat       []string `json:"contentFormat,omitempty"`
}

type SignatureHelpClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

type ReferencesClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

type DiagnosticClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
	RelatedDocumentSupport bool `json:"relatedDocumentSupport,omitempty"`
}

type PublishDiagnosticsClientCapabilities struct {
	RelatedInformation bool `json:"relatedInformation,omitempty"`
	VersionSupport     bool `json:"versionSupport,omitempty"`
}

type CodeActionClientCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration,omitempty"`
}

type TextDocumentClientCapabilities struct {
	Synchronization    *TextDocumentSyncClientCapabilities    `json:"synchronization,omitempty"`
	Completion         *CompletionClientCapabilities          `json:"completion,omitempty"`
	Hover              *HoverClientCapabilities               `json:"hover,omitempty"`
	SignatureHelp      *SignatureHelpClientCapabilities       `json:"signatureHelp,omitempty"`
	Definition         *struct{}                              `json:"definition,omitempty"`
	TypeDefinition     *struct{}                              `json:"typeDefinition,omitempty"`
	References         *ReferencesClientCapabilities           `json:"references,omitempty"`
	DocumentSymbol     DocumentSymbolClientCapabilities        `json:"documentSymbol"`
	CodeAction         *CodeActionClientCapabilities           `json:"codeAction,omitempty"`
	Formatting         *struct{}                               `json:"formatting,omitempty"`
	RangeFormatting    *struct{}                               `json:"rangeFormatting,omitempty"`
	Rename             *RenameClientCapabilities                `json:"rename,omitempty"`
	PublishDiagnostics PublishDiagnosticsClientCapabilities     `json:"publishDiagnostics"`
	Diagnostic         *DiagnosticClientCapabilities            `json:"diagnostic,omitempty"`
}

type WorkDoneProgressClientCapabilities struct {
	WorkDoneProgress bool `json:"workDoneProgress,omitempty"`
}

type ClientCapabilities struct {
	Workspace    WorkspaceClientCapabilities    `json:"workspace"`
	TextDocument TextDocumentClientCapabilities `json:"textDocument"`
	Window       WorkDoneProgressClientCapabilities `json:"window"`
}

type WorkspaceFoldersInitializeParams struct {
	WorkspaceFolders []WorkspaceFolder `json:"workspaceFolders,omitempty"`
}

type InitializeParams struct {
	ProcessID             int32              `json:"processId,omitempty"`
	ClientInfo            *ClientInfo        `json:"clientInfo,omitempty"`
	RootURI               DocumentUri        `json:"rootUri,omitempty"`
	Capabilities          ClientCapabilities `json:"capabilities"`
	InitializationOptions any                `json:"initializationOptions,omitempty"`
	Trace                 *TraceValue        `json:"trace,omitempty"`
	WorkspaceFolders      []WorkspaceFolder  `json:"workspaceFolders,omitempty"`
}

type InitializedParams struct{}

// --- Server capabilities (only the fields the core inspects) ---

type TextDocumentSyncKind int

const (
	SyncNone        TextDocumentSyncKind = 0
	SyncFull        TextDocumentSyncKind = 1
	SyncIncremental TextDocumentSyncKind = 2
)

type TextDocumentSyncOptions struct {
	OpenClose bool                  `json:"openClose,omitempty"`
	Change    *TextDocumentSyncKind `json:"change,omitempty"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type SignatureHelpOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync                *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	HoverProvider                   bool                     `json:"hoverProvider,omitempty"`
	CompletionProvider              *CompletionOptions       `json:"completionProvider,omitempty"`
	SignatureHelpProvider           *SignatureHelpOptions    `json:"signatureHelpProvider,omitempty"`
	DefinitionProvider              bool                     `json:"definitionProvider,omitempty"`
	TypeDefinitionProvider          bool                     `json:"typeDefinitionProvider,omitempty"`
	ReferencesProvider              bool                     `json:"referencesProvider,omitempty"`
	DocumentSymbolProvider          bool                     `json:"documentSymbolProvider,omitempty"`
	WorkspaceSymbolProvider         bool                     `json:"workspaceSymbolProvider,omitempty"`
	CodeActionProvider              bool                     `json:"codeActionProvider,omitempty"`
	DocumentFormattingProvider      bool                     `json:"documentFormattingProvider,omitempty"`
	DocumentRangeFormattingProvider bool                     `json:"documentRangeFormattingProvider,omitempty"`
	RenameProvider                  bool                     `json:"renameProvider,omitempty"`
	ExecuteCommandProvider          *struct {
		Commands []string `json:"commands"`
	} `json:"executeCommandProvider,omitempty"`
	DiagnosticProvider *struct {
		InterFileDependencies bool `json:"interFileDependencies,omitempty"`
		WorkspaceDiagnostics  bool `json:"workspaceDiagnostics,omitempty"`
	} `json:"diagnosticProvider,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}
