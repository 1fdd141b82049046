// Package protocol defines the wire types exchanged with a spawned LSP
// child over JSON-RPC 2.0. It intentionally covers only the methods named
// in the bridge's external interface, not the full LSP 3.17 surface.
package protocol

import (
	"encoding/json"
	"strings"
)

// URI and DocumentUri are both plain strings on the wire. Keeping them as
// distinct named types documents which flavor a field expects without
// adding any real type safety LSP itself doesn't have.
type URI string
type DocumentUri string

// Message is the envelope for every request, response, and notification
// exchanged with a child. Requests and responses carry ID; notifications
// carry Method and Params only.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// IsRequest reports whether the message is a server-initiated request,
// i.e. it carries both an id and a method.
func (m *Message) IsRequest() bool { return m.ID != nil && m.Method != "" }

// IsResponse reports whether the message is a response to a request this
// process sent, i.e. it carries an id and no method.
func (m *Message) IsResponse() bool { return m.ID != nil && m.Method == "" }

// IsNotification reports whether the message is a notification: a method
// with no id.
func (m *Message) IsNotification() bool { return m.ID == nil && m.Method != "" }

// ResponseError is the JSON-RPC 2.0 error object.
type ResponseError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *ResponseError) Error() string { return e.Message }

// Standard JSON-RPC error codes relevant to LSP clients.
const (
	ErrParseError           = -32700
	ErrInvalidRequest       = -32600
	ErrMethodNotFound       = -32601
	ErrInvalidParams        = -32602
	ErrInternalError        = -32603
	ErrServerNotInitialized = -32002
	ErrRequestCancelled     = -32800
	ErrContentModified      = -32801
)

func NewRequest(id int64, method string, params any) (*Message, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return &Message{JSONRPC: "2.0", ID: &id, Method: method, Params: raw}, nil
}

func NewNotification(method string, params any) (*Message, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return &Message{JSONRPC: "2.0", Method: method, Params: raw}, nil
}

// --- Common structural types ---

type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Less orders positions by line then character, used to sort edits.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   DocumentUri `json:"uri"`
	Range Range       `json:"range"`
}

type LocationLink struct {
	OriginSelectionRange *Range      `json:"originSelectionRange,omitempty"`
	TargetURI            DocumentUri `json:"targetUri"`
	TargetRange          Range       `json:"targetRange"`
	TargetSelectionRange Range       `json:"targetSelectionRange"`
}

type TextDocumentIdentifier struct {
	URI DocumentUri `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int32 `json:"version"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// OrTextEditOrAnnotated represents the union LSP allows inside
// TextDocumentEdit.Edits (plain TextEdit, AnnotatedTextEdit, or
// SnippetTextEdit). This bridge only ever produces and consumes plain
// edits; AsTextEdit reports whether the union held one.
type OrTextEditOrAnnotated struct {
	raw json.RawMessage
}

func (o *OrTextEditOrAnnotated) UnmarshalJSON(data []byte) error {
	o.raw = append([]byte(nil), data...)
	return nil
}

func (o OrTextEditOrAnnotated) MarshalJSON() ([]byte, error) {
	if o.raw == nil {
		return []byte("null"), nil
	}
	return o.raw, nil
}

func (o OrTextEditOrAnnotated) AsTextEdit() (TextEdit, error) {
	var te TextEdit
	err := json.Unmarshal(o.raw, &te)
	return te, err
}

func NewTextEditUnion(te TextEdit) OrTextEditOrAnnotated {
	raw, _ := json.Marshal(te)
	return OrTextEditOrAnnotated{raw: raw}
}

type TextDocumentEdit struct {
	TextDocument VersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []OrTextEditOrAnnotated         `json:"edits"`
}

type CreateFile struct {
	URI DocumentUri `json:"uri"`
}

type RenameFile struct {
	OldURI DocumentUri `json:"oldUri"`
	NewURI DocumentUri `json:"newUri"`
}

type DeleteFile struct {
	URI DocumentUri `json:"uri"`
}

// DocumentChange is one element of WorkspaceEdit.DocumentChanges. Exactly
// one field is populated; this bridge only executes TextDocumentEdit and
// reports the rest (§4.8 Edit Applier / WorkspaceEdit applier).
type DocumentChange struct {
	TextDocumentEdit *TextDocumentEdit `json:"-"`
	CreateFile       *CreateFile       `json:"-"`
	RenameFile       *RenameFile       `json:"-"`
	DeleteFile       *DeleteFile       `json:"-"`
}

func (d *DocumentChange) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Kind {
	case "create":
		d.CreateFile = &CreateFile{}
		return json.Unmarshal(data, d.CreateFile)
	case "rename":
		d.RenameFile = &RenameFile{}
		return json.Unmarshal(data, d.RenameFile)
	case "delete":
		d.DeleteFile = &DeleteFile{}
		return json.Unmarshal(data, d.DeleteFile)
	default:
		d.TextDocumentEdit = &TextDocumentEdit{}
		return json.Unmarshal(data, d.TextDocumentEdit)
	}
}

type WorkspaceEdit struct {
	Changes         map[DocumentUri][]TextEdit `json:"changes,omitempty"`
	DocumentChanges []DocumentChange           `json:"documentChanges,omitempty"`
}

// --- Text document synchronization ---

type TextDocumentItem struct {
	URI        DocumentUri `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentContentChangeWholeDocument struct {
	Text string `json:"text"`
}

// TextDocumentContentChangeEvent models the whole-document-replacement
// variant only (§1 Non-goals: no incremental sync).
type TextDocumentContentChangeEvent struct {
	Value TextDocumentContentChangeWholeDocument
}

func (e TextDocumentContentChangeEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text string `json:"text"`
	}{e.Value.Text})
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier   `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent  `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// --- Diagnostics ---

type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

type DiagnosticTag int

const (
	TagUnnecessary DiagnosticTag = 1
	TagDeprecated  DiagnosticTag = 2
)

type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

type Diagnostic struct {
	Range              Range                          `json:"range"`
	Severity           DiagnosticSeverity              `json:"severity,omitempty"`
	Code               json.RawMessage                `json:"code,omitempty"`
	Source             string                         `json:"source,omitempty"`
	Message            string                         `json:"message"`
	Tags               []DiagnosticTag                `json:"tags,omitempty"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

type PublishDiagnosticsParams struct {
	URI         DocumentUri  `json:"uri"`
	Version     *int32       `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// DocumentDiagnosticParams / Report model the pull-diagnostics request
// (textDocument/diagnostic) used as the first fallback in §4.5.
type DocumentDiagnosticParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentDiagnosticReport struct {
	Kind  string       `json:"kind"` // "full" | "unchanged"
	Items []Diagnostic `json:"items,omitempty"`
}

// --- Definition / references / rename ---

type DefinitionParams struct {
	TextDocumentPositionParams
}

type TypeDefinitionParams struct {
	TextDocumentPositionParams
}

type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

type ReferenceParams struct {
	TextDocumentPositionParams
	Context ReferenceContext `json:"context"`
}

type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

// --- Symbols ---

type SymbolKind int

const (
	File          SymbolKind = 1
	Module        SymbolKind = 2
	Namespace     SymbolKind = 3
	Package       SymbolKind = 4
	Class         SymbolKind = 5
	Method        SymbolKind = 6
	Property      SymbolKind = 7
	Field         SymbolKind = 8
	Constructor   SymbolKind = 9
	Enum          SymbolKind = 10
	Interface     SymbolKind = 11
	Function      SymbolKind = 12
	Variable      SymbolKind = 13
	Constant      SymbolKind = 14
	String        SymbolKind = 15
	Number        SymbolKind = 16
	Boolean       SymbolKind = 17
	Array         SymbolKind = 18
	Object        SymbolKind = 19
	Key           SymbolKind = 20
	Null          SymbolKind = 21
	EnumMember    SymbolKind = 22
	Struct        SymbolKind = 23
	Event         SymbolKind = 24
	Operator      SymbolKind = 25
	TypeParameter SymbolKind = 26
)

// AllSymbolKinds is the canonical 1..26 value set advertised during
// initialize (§4.3) and used to validate a caller-supplied kind filter
// (§4.6 step 2).
var AllSymbolKinds = []SymbolKind{
	File, Module, Namespace, Package, Class, Method, Property, Field,
	Constructor, Enum, Interface, Function, Variable, Constant, String,
	Number, Boolean, Array, Object, Key, Null, EnumMember, Struct, Event,
	Operator, TypeParameter,
}

var symbolKindNames = map[SymbolKind]string{
	File: "file", Module: "module", Namespace: "namespace", Package: "package",
	Class: "class", Method: "method", Property: "property", Field: "field",
	Constructor: "constructor", Enum: "enum", Interface: "interface",
	Function: "function", Variable: "variable", Constant: "constant",
	String: "string", Number: "number", Boolean: "boolean", Array: "array",
	Object: "object", Key: "key", Null: "null", EnumMember: "enummember",
	Struct: "struct", Event: "event", Operator: "operator",
	TypeParameter: "typeparameter",
}

// KindName returns the lowercase canonical name of a symbol kind, or ""
// for an out-of-range value.
func KindName(k SymbolKind) string { return symbolKindNames[k] }

// ParseKindName resolves a caller-supplied kind name (case-insensitive)
// to a SymbolKind, reporting ok=false for anything not in the canonical
// 26-name set (§4.6 step 2: invalid kinds are downgraded to "any").
func ParseKindName(name string) (SymbolKind, bool) {
	for k, n := range symbolKindNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return 0, false
}

type SymbolInformation struct {
	Name          string     `json:"name"`
	Kind          SymbolKind `json:"kind"`
	Location      Location   `json:"location"`
	ContainerName string     `json:"containerName,omitempty"`
}

type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           SymbolKind       `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type WorkspaceSymbolParams struct {
	Query string `json:"query"`
}

// --- Hover / signature help / completion ---

type MarkupContent struct {
	Kind  string `json:"kind"` // "plaintext" | "markdown"
	Value string `json:"value"`
}

type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type HoverParams struct {
	TextDocumentPositionParams
}

type ParameterInformation struct {
	Label         string `json:"label"`
	Documentation string `json:"documentation,omitempty"`
}

type SignatureInformation struct {
	Label           string                 `json:"label"`
	Documentation   string                 `json:"documentation,omitempty"`
	Parameters      []ParameterInformation `json:"parameters,omitempty"`
	ActiveParameter *uint32                `json:"activeParameter,omitempty"`
}

type SignatureHelp struct {
	Signatures      []SignatureInformation `json:"signatures"`
	ActiveSignature *uint32                `json:"activeSignature,omitempty"`
	ActiveParameter *uint32                `json:"activeParameter,omitempty"`
}

type SignatureHelpParams struct {
	TextDocumentPositionParams
}

type CompletionContext struct {
	TriggerKind int `json:"triggerKind"`
}

type CompletionParams struct {
	TextDocumentPositionParams
	Context *CompletionContext `json:"context,omitempty"`
}

type CompletionItem struct {
	Label         string `json:"label"`
	Kind          int    `json:"kind,omitempty"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	InsertText    string `json:"insertText,omitempty"`
	SortText      string `json:"sortText,omitempty"`
}

type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// --- Formatting ---

type FormattingOptions struct {
	TabSize      uint32 `json:"tabSize"`
	InsertSpaces bool   `json:"insertSpaces"`
}

type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

type DocumentRangeFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Options      FormattingOptions      `json:"options"`
}

// --- Code actions ---

type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Only        []string     `json:"only,omitempty"`
}

type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
}

type Command struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

type CodeAction struct {
	Title       string         `json:"title"`
	Kind        string         `json:"kind,omitempty"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
	IsPreferred bool           `json:"isPreferred,omitempty"`
	Edit        *WorkspaceEdit `json:"edit,omitempty"`
	Command     *Command       `json:"command,omitempty"`
}

type ExecuteCommandParams struct {
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

type ApplyWorkspaceEditResult struct {
	Applied       bool   `json:"applied"`
	FailureReason string `json:"failureReason,omitempty"`
}

// --- Progress ---

type ProgressToken = any

type WorkDoneProgressValue struct {
	Kind        string `json:"kind"` // "begin" | "report" | "end"
	Title       string `json:"title,omitempty"`
	Message     string `json:"message,omitempty"`
	Percentage  *uint32 `json:"percentage,omitempty"`
	Cancellable bool   `json:"cancellable,omitempty"`
}

type ProgressParams struct {
	Token ProgressToken   `json:"token"`
	Value json.RawMessage `json:"value"`
}

// --- Dynamic registration ---

type Registration struct {
	ID              string          `json:"id"`
	Method          string          `json:"method"`
	RegisterOptions json.RawMessage `json:"registerOptions,omitempty"`
}

type RegistrationParams struct {
	Registrations []Registration `json:"registrations"`
}

type FileSystemWatcher struct {
	GlobPattern string `json:"globPattern"`
	Kind        *int   `json:"kind,omitempty"`
}

type DidChangeWatchedFilesRegistrationOptions struct {
	Watchers []FileSystemWatcher `json:"watchers"`
}
