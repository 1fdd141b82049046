// Package supervisor spawns an LSP child, drives its initialize
// handshake, restarts it on a configured interval, and tears it down.
// It also defines ServerState, the per-child state.
package supervisor

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/config"
	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/rpc"
	"github.com/codereef/lspbridge/internal/transport"
	"github.com/codereef/lspbridge/internal/uriconv"
)

// readyFallback is the timeout after which a server is marked initialized
// optimistically even without its own `initialized` notification.
const readyFallback = 3 * time.Second

const clientName = "lspbridge"

// Supervisor owns the registry mapping a serialized ServerConfig to its
// live ServerState: a ServerState exists iff its child is alive. It is a
// "core context" value, created once at startup and passed explicitly,
// never ambient.
type Supervisor struct {
	log zerolog.Logger

	// requestID is the single monotonic id counter shared by every
	// child's Mux, keeping request ids process-wide unique alongside the
	// process-wide server registry below.
	requestID atomic.Int64

	// applyEdit performs the side effect of a server-initiated
	// workspace/applyEdit request. The supervisor package has no
	// file-editing logic of its own (that lives in internal/edits); the
	// caller that builds the Supervisor installs this via SetEditApplier.
	applyEdit func(protocol.WorkspaceEdit) error

	mu       sync.Mutex
	registry map[string]*ServerState
}

func New(log zerolog.Logger) *Supervisor {
	return &Supervisor{log: log, registry: make(map[string]*ServerState)}
}

// SetEditApplier installs the function used to carry out a
// server-initiated workspace/applyEdit request. Must be called before
// any child is spawned.
func (sup *Supervisor) SetEditApplier(fn func(protocol.WorkspaceEdit) error) {
	sup.applyEdit = fn
}

// Get returns the already-running state for a config, if any.
func (sup *Supervisor) Get(key string) (*ServerState, bool) {
	sup.mu.Lock()
	defer sup.mu.Unlock()
	s, ok := sup.registry[key]
	return s, ok
}

// All returns a snapshot of every live ServerState.
func (sup *Supervisor) All() []*ServerState {
	sup.mu.Lock()
	defer sup.mu.Unlock()
	out := make([]*ServerState, 0, len(sup.registry))
	for _, s := range sup.registry {
		out = append(out, s)
	}
	return out
}

// EnsureStarted returns the running ServerState for cfg, spawning and
// initializing a new child if one isn't already registered (the
// "identical configs collapse to one child" invariant, keyed by
// cfg.Key()).
func (sup *Supervisor) EnsureStarted(ctx context.Context, cfg config.ServerConfig) (*ServerState, error) {
	key := cfg.Key()

	sup.mu.Lock()
	if s, ok := sup.registry[key]; ok {
		sup.mu.Unlock()
		return s, nil
	}
	sup.mu.Unlock()

	s, err := sup.spawn(ctx, key, cfg)
	if err != nil {
		return nil, err
	}

	sup.mu.Lock()
	sup.registry[key] = s
	sup.mu.Unlock()

	return s, nil
}

func (sup *Supervisor) spawn(ctx context.Context, key string, cfg config.ServerConfig) (*ServerState, error) {
	rootDir, err := config.ResolveRootDir(cfg)
	if err != nil {
		return nil, corerr.Wrap(corerr.Configuration, err, "resolve root dir").WithServer(key)
	}

	log := sup.log.With().Str("server", key).Str("command", cfg.Command[0]).Logger()

	proc, err := spawnProcess(cfg.Command, rootDir, log)
	if err != nil {
		return nil, corerr.Wrap(corerr.Transport, err, "spawn LSP child").WithServer(key)
	}

	s := newServerState(key, cfg, rootDir, log)
	s.proc = proc
	s.transport = transport.New(proc.stdin, log)
	s.mux = rpc.New(s.transport, log, &sup.requestID)

	sup.installHandlers(s)

	go func() {
		if err := s.transport.Run(proc.stdout, s.mux.Dispatch); err != nil {
			log.Warn().Err(err).Msg("transport reader exited; child likely crashed")
			s.mux.Close()
			s.restartMu.Lock()
			if s.restartTimer != nil {
				s.restartTimer.Stop()
			}
			s.restartMu.Unlock()
			sup.mu.Lock()
			if sup.registry[key] == s {
				delete(sup.registry, key)
			}
			sup.mu.Unlock()
		}
	}()

	if err := sup.initialize(ctx, s); err != nil {
		proc.kill()
		return nil, err
	}

	sup.installRestartTimer(s)

	return s, nil
}

// initialize drives the handshake: send `initialize` with
// the declared client capabilities, store the returned server
// capabilities, send `initialized`, then await either the child's own
// `initialized` notification or the 3s fallback.
func (sup *Supervisor) initialize(ctx context.Context, s *ServerState) error {
	symbolKinds := protocol.ClientSymbolKindOptions{ValueSet: protocol.AllSymbolKinds}
	trace := protocol.TraceValue("off")

	params := protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{
			Name:    clientName,
			Version: "0.1.0",
		},
		RootURI: uriconv.PathToURI(s.RootDir),
		WorkspaceFolders: []protocol.WorkspaceFolder{
			{URI: protocol.URI(uriconv.PathToURI(s.RootDir)), Name: s.RootDir},
		},
		Capabilities: protocol.ClientCapabilities{
			Workspace: protocol.WorkspaceClientCapabilities{
				ApplyEdit:              true,
				WorkspaceEdit:          &protocol.WorkspaceEditClientCapabilities{DocumentChanges: true},
				DidChangeConfiguration: protocol.DidChangeConfigurationClientCapabilities{},
				Symbol:                 &protocol.WorkspaceSymbolClientCapabilities{SymbolKind: &symbolKinds},
				WorkspaceFolders:       true,
			},
			TextDocument: protocol.TextDocumentClientCapabilities{
				Synchronization: &protocol.TextDocumentSyncClientCapabilities{DidSave: true},
				Completion: &protocol.CompletionClientCapabilities{
					CompletionItem: &protocol.CompletionItemClientCapabilities{SnippetSupport: true},
				},
				Hover:          &protocol.HoverClientCapabilities{ContentFormat: []string{"markdown", "plaintext"}},
				SignatureHelp:  &protocol.SignatureHelpClientCapabilities{},
				References:     &protocol.ReferencesClientCapabilities{},
				DocumentSymbol: protocol.DocumentSymbolClientCapabilities{HierarchicalDocumentSymbolSupport: true, SymbolKind: &symbolKinds},
				CodeAction:     &protocol.CodeActionClientCapabilities{},
				Rename:         &protocol.RenameClientCapabilities{},
				Diagnostic:     &protocol.DiagnosticClientCapabilities{},
			},
			Window: protocol.WorkDoneProgressClientCapabilities{WorkDoneProgress: true},
		},
		InitializationOptions: cfg_initializationOptions(s.Config),
		Trace:                 &trace,
	}

	var result protocol.InitializeResult
	if err := s.mux.Call(ctx, "initialize", params, &result); err != nil {
		return corerr.Wrap(corerr.Transport, err, "initialize handshake").WithServer(s.Key)
	}
	s.SetCapabilities(result.Capabilities)

	if err := s.mux.Notify(ctx, "initialized", protocol.InitializedParams{}); err != nil {
		return corerr.Wrap(corerr.Transport, err, "send initialized notification").WithServer(s.Key)
	}

	timer := time.NewTimer(readyFallback)
	defer timer.Stop()
	select {
	case <-s.readyCh:
	case <-timer.C:
		s.log.Debug().Msg("initialized notification not received within fallback window; proceeding optimistically")
		s.markReady()
	case <-ctx.Done():
		return corerr.Wrap(corerr.Timeout, ctx.Err(), "waiting for initialize handshake").WithServer(s.Key)
	}

	return nil
}

// cfg_initializationOptions returns the initializationOptions sent with
// initialize: always an empty object. ServerConfig has no field for
// server-specific settings, so nothing from cfg is forwarded.
func cfg_initializationOptions(cfg config.ServerConfig) any {
	return map[string]any{}
}

func (sup *Supervisor) installHandlers(s *ServerState) {
	s.mux.OnNotification("initialized", func(string, json.RawMessage) {
		s.markReady()
	})
	s.mux.OnNotification("textDocument/publishDiagnostics", func(_ string, raw json.RawMessage) {
		handlePublishDiagnostics(s, raw)
	})
	s.mux.OnNotification("$/progress", func(_ string, raw json.RawMessage) {
		handleProgress(s, raw)
	})
	s.mux.OnNotification("window/showMessage", func(_ string, raw json.RawMessage) {
		handleShowMessage(s, raw)
	})
	s.mux.OnRequest("workspace/applyEdit", func(_ string, raw json.RawMessage) (any, error) {
		return handleApplyEdit(sup.applyEdit, raw)
	})
	s.mux.OnRequest("workspace/configuration", func(_ string, _ json.RawMessage) (any, error) {
		return []map[string]any{{}}, nil
	})
	s.mux.OnRequest("client/registerCapability", func(_ string, raw json.RawMessage) (any, error) {
		return nil, nil
	})
}

// installRestartTimer schedules the deferred restart if the config
// requests one.
func (sup *Supervisor) installRestartTimer(s *ServerState) {
	minutes, ok := s.Config.NormalizedRestartInterval()
	if !ok {
		return
	}
	interval := time.Duration(minutes * float64(time.Minute))

	s.restartMu.Lock()
	s.restartTimer = time.AfterFunc(interval, func() {
		sup.restart(s)
	})
	s.restartMu.Unlock()
}

func (sup *Supervisor) restart(old *ServerState) {
	old.log.Info().Msg("restart interval elapsed; recycling server")

	sup.mu.Lock()
	delete(sup.registry, old.Key)
	sup.mu.Unlock()

	old.mux.Close()
	old.proc.kill()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	replacement, err := sup.spawn(ctx, old.Key, old.Config)
	if err != nil {
		old.log.Error().Err(err).Msg("failed to respawn server after restart interval")
		return
	}

	sup.mu.Lock()
	sup.registry[old.Key] = replacement
	sup.mu.Unlock()
}

// Shutdown cancels the restart timer, kills the child, and removes it
// from the registry.
func (sup *Supervisor) Shutdown(s *ServerState) {
	s.closeOnce.Do(func() {
		s.restartMu.Lock()
		if s.restartTimer != nil {
			s.restartTimer.Stop()
		}
		s.restartMu.Unlock()

		s.mux.Close()
		s.proc.kill()

		sup.mu.Lock()
		delete(sup.registry, s.Key)
		sup.mu.Unlock()
	})
}

// ShutdownAll tears down every live server, used on process signal.
func (sup *Supervisor) ShutdownAll() {
	for _, s := range sup.All() {
		sup.Shutdown(s)
	}
}
