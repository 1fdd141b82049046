package supervisor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/config"
	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/rpc"
	"github.com/codereef/lspbridge/internal/transport"
)

// OpenFileInfo tracks one file this server has been told about via
// textDocument/didOpen.
type OpenFileInfo struct {
	Version int32
}

// ServerState is the live state of one supervised LSP child, keyed by its
// ServerConfig's serialized form. It owns the child process,
// its transport and multiplexer, open-file bookkeeping, and the
// push-diagnostic cache.
type ServerState struct {
	Key    string
	Config config.ServerConfig
	RootDir string

	log zerolog.Logger

	proc      *childProcess
	transport *transport.Transport
	mux       *rpc.Mux

	initMu      sync.Mutex
	initialized bool
	readyCh     chan struct{}

	capMu        sync.RWMutex
	capabilities protocol.ServerCapabilities

	openFilesMu sync.Mutex
	openFiles   map[string]*OpenFileInfo // absolute path -> info
	writeSerial sync.Mutex               // orders document notifications to this child

	diagMu               sync.RWMutex
	diagnostics          *orderedmap.OrderedMap[protocol.DocumentUri, []protocol.Diagnostic]
	diagnosticVersions   map[protocol.DocumentUri]int64
	lastDiagnosticUpdate map[protocol.DocumentUri]time.Time

	workspaceIndexed  atomic.Bool
	indexingStartTime time.Time
	startTime         time.Time
	filesDiscovered   atomic.Int64

	restartMu    sync.Mutex
	restartTimer *time.Timer
	onRestart    func() // supervisor-installed callback that respawns this key

	closeOnce sync.Once
}

func newServerState(key string, cfg config.ServerConfig, rootDir string, log zerolog.Logger) *ServerState {
	return &ServerState{
		Key:                  key,
		Config:               cfg,
		RootDir:              rootDir,
		log:                  log,
		readyCh:              make(chan struct{}),
		openFiles:            make(map[string]*OpenFileInfo),
		diagnostics:          orderedmap.New[protocol.DocumentUri, []protocol.Diagnostic](),
		diagnosticVersions:   make(map[protocol.DocumentUri]int64),
		lastDiagnosticUpdate: make(map[protocol.DocumentUri]time.Time),
		startTime:            time.Now(),
	}
}

// WaitReady blocks until the server's readiness signal resolves (either
// the child's own `initialized` notification arrived, or the 3s fallback
// fired) or ctx is cancelled. This is the single gate ensuring no
// operation issues a request to a child before its initialized signal
// resolves.
func (s *ServerState) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return corerr.Wrap(corerr.Timeout, ctx.Err(), "waiting for server readiness").WithServer(s.Key)
	}
}

func (s *ServerState) markReady() {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true
	close(s.readyCh)
}

// Initialized reports whether the readiness signal has already resolved.
func (s *ServerState) Initialized() bool {
	select {
	case <-s.readyCh:
		return true
	default:
		return false
	}
}

// Call waits for readiness then issues an RPC request.
func (s *ServerState) Call(ctx context.Context, method string, params, result any) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}
	return s.mux.Call(ctx, method, params, result)
}

// Notify waits for readiness then sends a notification.
func (s *ServerState) Notify(ctx context.Context, method string, params any) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}
	return s.mux.Notify(ctx, method, params)
}

// WithWriteLock runs fn while holding this server's serialized
// document-write lock, so a didOpen/didChange pair can never interleave
// with another write to the same child.
func (s *ServerState) WithWriteLock(fn func() error) error {
	s.writeSerial.Lock()
	defer s.writeSerial.Unlock()
	return fn()
}

func (s *ServerState) SetCapabilities(c protocol.ServerCapabilities) {
	s.capMu.Lock()
	defer s.capMu.Unlock()
	s.capabilities = c
}

func (s *ServerState) Capabilities() protocol.ServerCapabilities {
	s.capMu.RLock()
	defer s.capMu.RUnlock()
	return s.capabilities
}

// IsFileOpen reports whether path has been didOpen-ed to this server.
func (s *ServerState) IsFileOpen(path string) bool {
	s.openFilesMu.Lock()
	defer s.openFilesMu.Unlock()
	_, ok := s.openFiles[path]
	return ok
}

// MarkOpen records that path has been didOpen-ed to this server at
// version 1. Callers must hold the server's write lock (WithWriteLock)
// while sending the didOpen notification and calling this, so another
// goroutine can't interleave a didChange first.
func (s *ServerState) MarkOpen(path string) {
	s.openFilesMu.Lock()
	defer s.openFilesMu.Unlock()
	s.openFiles[path] = &OpenFileInfo{Version: 1}
}

// MarkClosed drops open-file bookkeeping for path after a didClose.
func (s *ServerState) MarkClosed(path string) {
	s.openFilesMu.Lock()
	defer s.openFilesMu.Unlock()
	delete(s.openFiles, path)
}

// BumpVersion increments and returns the next didChange version for an
// already-open file. Returns ok=false if the file was never opened.
func (s *ServerState) BumpVersion(path string) (int32, bool) {
	s.openFilesMu.Lock()
	defer s.openFilesMu.Unlock()
	info, ok := s.openFiles[path]
	if !ok {
		return 0, false
	}
	info.Version++
	return info.Version, true
}

// OpenFiles returns a snapshot of currently tracked open paths.
func (s *ServerState) OpenFiles() []string {
	s.openFilesMu.Lock()
	defer s.openFilesMu.Unlock()
	out := make([]string, 0, len(s.openFiles))
	for p := range s.openFiles {
		out = append(out, p)
	}
	return out
}

// PublishDiagnostics overwrites the cache for uri; prior snapshots are
// discarded.
func (s *ServerState) PublishDiagnostics(uri protocol.DocumentUri, version *int32, diags []protocol.Diagnostic) {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()
	s.diagnostics.Set(uri, diags)
	if version != nil {
		prev := s.diagnosticVersions[uri]
		if int64(*version) > prev {
			s.diagnosticVersions[uri] = int64(*version)
		}
	} else {
		s.diagnosticVersions[uri]++ // non-decreasing even without a server-supplied version
	}
	s.lastDiagnosticUpdate[uri] = time.Now()
}

// Diagnostics returns the cached diagnostics for uri and whether any
// publish has ever been recorded for it (an empty-but-present cache is a
// valid "no problems" answer).
func (s *ServerState) Diagnostics(uri protocol.DocumentUri) ([]protocol.Diagnostic, bool) {
	s.diagMu.RLock()
	defer s.diagMu.RUnlock()
	return s.diagnostics.Get(uri)
}

// DiagnosticEntry pairs one cached URI with its diagnostics, preserving
// the publish-cache's insertion order.
type DiagnosticEntry struct {
	URI         protocol.DocumentUri
	Diagnostics []protocol.Diagnostic
}

// AllDiagnostics returns every cached URI's diagnostics in publish-cache
// insertion order (oldest publish first), so get_all_diagnostics can fall
// back to already-known diagnostics for files its filesystem scan didn't
// revisit without losing the order they were originally published in.
func (s *ServerState) AllDiagnostics() []DiagnosticEntry {
	s.diagMu.RLock()
	defer s.diagMu.RUnlock()
	out := make([]DiagnosticEntry, 0, s.diagnostics.Len())
	for pair := s.diagnostics.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, DiagnosticEntry{URI: pair.Key, Diagnostics: pair.Value})
	}
	return out
}

func (s *ServerState) DiagnosticVersion(uri protocol.DocumentUri) int64 {
	s.diagMu.RLock()
	defer s.diagMu.RUnlock()
	return s.diagnosticVersions[uri]
}

func (s *ServerState) LastDiagnosticUpdate(uri protocol.DocumentUri) (time.Time, bool) {
	s.diagMu.RLock()
	defer s.diagMu.RUnlock()
	t, ok := s.lastDiagnosticUpdate[uri]
	return t, ok
}

func (s *ServerState) SetWorkspaceIndexed(v bool)  { s.workspaceIndexed.Store(v) }
func (s *ServerState) WorkspaceIndexed() bool       { return s.workspaceIndexed.Load() }
func (s *ServerState) MarkFileDiscovered()          { s.filesDiscovered.Add(1) }
func (s *ServerState) FilesDiscovered() int64        { return s.filesDiscovered.Load() }
