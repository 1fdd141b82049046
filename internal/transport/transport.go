// Package transport implements the Content-Length-framed JSON-RPC wire
// format LSP uses over a child process's stdio.
package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/codereef/lspbridge/internal/protocol"
)

// Transport reads and writes framed JSON-RPC messages on a single child's
// stdio. One Transport exists per supervised server.
type Transport struct {
	w      io.Writer
	writeMu sync.Mutex // serializes writes on the per-child write path

	log zerolog.Logger
}

// New wraps a child's stdin for writing. Reading is driven separately by
// Run, which owns the child's stdout reader.
func New(w io.Writer, log zerolog.Logger) *Transport {
	return &Transport{w: w, log: log}
}

// Send frames and writes one message. Content-Length is computed from the
// byte length of the marshaled payload, not its character count, so
// multi-byte UTF-8 content frames correctly.
func (t *Transport) Send(msg *protocol.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	if _, err := io.WriteString(t.w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := t.w.Write(payload); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// Run reads framed messages from r until it returns io.EOF or the reader
// errors, invoking onMessage for each successfully parsed message. It is
// meant to run on its own long-lived goroutine for the lifetime of the
// child.
//
// Malformed headers cause Run to skip to the next blank-line terminator
// and resynchronize rather than aborting; malformed JSON bodies are
// logged and discarded, also without aborting the stream.
func (t *Transport) Run(r io.Reader, onMessage func(*protocol.Message)) error {
	br := bufio.NewReader(r)
	for {
		length, err := t.readHeaders(br)
		if err != nil {
			return err
		}
		if length < 0 {
			// Header block ended without a usable Content-Length; resync
			// by dropping this frame attempt and reading the next one.
			continue
		}

		body := make([]byte, length)
		if _, err := io.ReadFull(br, body); err != nil {
			return fmt.Errorf("read body (%d bytes): %w", length, err)
		}

		var msg protocol.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			t.log.Error().Err(err).Bytes("body", body).Msg("discarding malformed JSON-RPC body")
			continue
		}
		onMessage(&msg)
	}
}

// readHeaders consumes one Content-Length-prefixed header block and
// returns the declared body length. It returns length -1 (with a nil
// error) when the block was malformed but the stream could be
// resynchronized at the next blank line, so the caller can retry.
func (t *Transport) readHeaders(br *bufio.Reader) (int, error) {
	length := -1
	sawAnyHeader := false
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if !sawAnyHeader {
				// Blank line with no headers seen: keep scanning rather
				// than treating it as a frame terminator.
				continue
			}
			if length < 0 {
				t.log.Error().Msg("frame terminator reached without a Content-Length header; resyncing")
			}
			return length, nil
		}
		sawAnyHeader = true
		name, value, ok := bytes.Cut([]byte(line), []byte(":"))
		if !ok {
			t.log.Error().Str("line", line).Msg("malformed header line; ignoring")
			continue
		}
		if strings.EqualFold(strings.TrimSpace(string(name)), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(string(value)))
			if err != nil {
				t.log.Error().Str("line", line).Msg("unparseable Content-Length; ignoring")
				continue
			}
			length = n
		}
	}
}
