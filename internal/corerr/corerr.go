// Package corerr defines the error-kind taxonomy the operation layer uses
// to classify every failure before it crosses the agent-channel boundary.
// Every error the core returns is, or wraps, a *Error.
package corerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the eight error categories the core reports.
type Kind int

const (
	Configuration Kind = iota
	Transport
	Protocol
	Timeout
	ServerReported
	NotSupported
	IO
	Resolution
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "ConfigurationError"
	case Transport:
		return "TransportError"
	case Protocol:
		return "ProtocolError"
	case Timeout:
		return "RequestTimeout"
	case ServerReported:
		return "ServerReportedError"
	case NotSupported:
		return "NotSupported"
	case IO:
		return "IOError"
	case Resolution:
		return "ResolutionFailure"
	default:
		return "UnknownError"
	}
}

// Error is a typed, stack-carrying error. New, Newf, and Wrap build its
// cause with pkg/errors, so every kind carries a stack trace for
// operation-layer logs.
type Error struct {
	Kind    Kind
	Server  string // config key of the offending server, if any
	cause   error
}

func (e *Error) Error() string {
	if e.Server != "" {
		return fmt.Sprintf("%s[%s]: %v", e.Kind, e.Server, e.cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a *Error of the given kind from a message, with a stack
// trace attached via pkg/errors.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error, preserving its chain and
// adding a stack trace if one isn't already present on cause.
func Wrap(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(cause, msg)}
}

// WithServer attaches the owning server's config key for diagnostics.
func (e *Error) WithServer(key string) *Error {
	e.Server = key
	return e
}

// Is supports errors.Is(err, corerr.Timeout) style matching against a bare
// Kind value: it finds the first *Error in err's chain with errors.As and
// compares its Kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
