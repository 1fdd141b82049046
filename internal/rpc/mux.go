// Package rpc correlates outbound requests with responses by id, dispatches
// inbound notifications and server-initiated requests, and enforces
// per-request timeouts.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/protocol"
	"github.com/codereef/lspbridge/internal/transport"
)

// DefaultTimeout is the per-call timeout applied when the caller's
// context has no earlier deadline.
const DefaultTimeout = 30 * time.Second

// NotificationHandler processes a server-initiated notification.
type NotificationHandler func(method string, params json.RawMessage)

// RequestHandler answers a server-initiated request (e.g.
// workspace/applyEdit, client/registerCapability).
type RequestHandler func(method string, params json.RawMessage) (any, error)

type pending struct {
	resultCh chan *protocol.Message
}

// Mux owns one Transport and the pending-request table for a single
// child. Request ids are drawn from a single process-wide counter shared
// by every Mux the supervisor creates, so the monotonic id space matches
// the registry of live servers in being process-wide rather than
// per-child.
type Mux struct {
	transport *transport.Transport
	log       zerolog.Logger

	nextID *atomic.Int64

	mu      sync.Mutex
	pending map[int64]*pending

	notificationHandlers map[string]NotificationHandler
	requestHandlers      map[string]RequestHandler

	closeOnce sync.Once
	closed    chan struct{}
}

// New builds a Mux over t, drawing request ids from idCounter. Callers
// pass the same *atomic.Int64 to every Mux they create so ids stay
// globally unique across all supervised children.
func New(t *transport.Transport, log zerolog.Logger, idCounter *atomic.Int64) *Mux {
	return &Mux{
		transport:            t,
		log:                  log,
		nextID:               idCounter,
		pending:              make(map[int64]*pending),
		notificationHandlers: make(map[string]NotificationHandler),
		requestHandlers:      make(map[string]RequestHandler),
		closed:               make(chan struct{}),
	}
}

func (m *Mux) OnNotification(method string, h NotificationHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationHandlers[method] = h
}

func (m *Mux) OnRequest(method string, h RequestHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestHandlers[method] = h
}

// Dispatch is the Transport.Run callback: route a parsed message to
// response-resolution, a notification handler, or a request handler.
func (m *Mux) Dispatch(msg *protocol.Message) {
	switch {
	case msg.IsResponse():
		m.resolve(msg)
	case msg.IsRequest():
		m.handleServerRequest(msg)
	case msg.IsNotification():
		m.handleNotification(msg)
	default:
		m.log.Warn().Interface("message", msg).Msg("received message matching no known shape")
	}
}

func (m *Mux) resolve(msg *protocol.Message) {
	m.mu.Lock()
	p, ok := m.pending[*msg.ID]
	if ok {
		delete(m.pending, *msg.ID) // invariant: cleared exactly once, here
	}
	m.mu.Unlock()

	if !ok {
		m.log.Warn().Int64("id", *msg.ID).Msg("response for unknown or already-resolved request id")
		return
	}
	select {
	case p.resultCh <- msg:
	default:
	}
}

func (m *Mux) handleNotification(msg *protocol.Message) {
	m.mu.Lock()
	h, ok := m.notificationHandlers[msg.Method]
	m.mu.Unlock()
	if !ok {
		return // unknown notifications are ignored silently, per design notes
	}
	h(msg.Method, msg.Params)
}

func (m *Mux) handleServerRequest(msg *protocol.Message) {
	m.mu.Lock()
	h, ok := m.requestHandlers[msg.Method]
	m.mu.Unlock()

	var resp protocol.Message
	resp.JSONRPC = "2.0"
	resp.ID = msg.ID

	if !ok {
		resp.Error = &protocol.ResponseError{Code: protocol.ErrMethodNotFound, Message: "method not found: " + msg.Method}
	} else {
		result, err := h(msg.Method, msg.Params)
		if err != nil {
			resp.Error = &protocol.ResponseError{Code: protocol.ErrInternalError, Message: err.Error()}
		} else {
			raw, merr := json.Marshal(result)
			if merr != nil {
				resp.Error = &protocol.ResponseError{Code: protocol.ErrInternalError, Message: merr.Error()}
			} else {
				resp.Result = raw
			}
		}
	}

	if err := m.transport.Send(&resp); err != nil {
		m.log.Error().Err(err).Str("method", msg.Method).Msg("failed to send response to server-initiated request")
	}
}

// Call issues a request and blocks until a response arrives, the context
// is cancelled, or DefaultTimeout elapses. The pending entry is removed
// before Call returns on every path (invariant §3.5).
func (m *Mux) Call(ctx context.Context, method string, params any, result any) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	id := m.nextID.Add(1)
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return corerr.Wrap(corerr.Protocol, err, "marshal request params")
	}

	p := &pending{resultCh: make(chan *protocol.Message, 1)}
	m.mu.Lock()
	m.pending[id] = p
	m.mu.Unlock()

	if err := m.transport.Send(req); err != nil {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
		return corerr.Wrap(corerr.Transport, err, "send request")
	}

	select {
	case msg := <-p.resultCh:
		if msg.Error != nil {
			return corerr.Wrap(corerr.ServerReported, msg.Error, fmt.Sprintf("%s failed", method))
		}
		if result == nil || len(msg.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return corerr.Wrap(corerr.Protocol, err, fmt.Sprintf("unmarshal %s result", method))
		}
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
		return corerr.Wrap(corerr.Timeout, ctx.Err(), fmt.Sprintf("%s timed out", method))
	case <-m.closed:
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
		return corerr.New(corerr.Transport, fmt.Sprintf("%s: transport closed", method))
	}
}

// Notify sends a one-way message with no response expected.
func (m *Mux) Notify(ctx context.Context, method string, params any) error {
	msg, err := protocol.NewNotification(method, params)
	if err != nil {
		return corerr.Wrap(corerr.Protocol, err, "marshal notification params")
	}
	if err := m.transport.Send(msg); err != nil {
		return corerr.Wrap(corerr.Transport, err, "send notification")
	}
	return nil
}

// Close rejects every in-flight request, used when the owning child is
// killed or restarted.
func (m *Mux) Close() {
	m.closeOnce.Do(func() {
		close(m.closed)
	})
}
