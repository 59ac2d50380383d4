package internal

import "fmt"

// TransportError represents a failed request or a connection dropped
// mid-stream. It is the only error kind that propagates past the
// accumulator boundary.
type TransportError struct {
	Op  string // "create-session", "query", "history", "read"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError represents a record payload that failed strict JSON decoding
type ParseError struct {
	Source  string // "stream", "history"
	Payload string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %q: %v", e.Source, e.Payload, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StoreError represents errors accessing the local store
type StoreError struct {
	Path string
	Op   string // "open", "read", "write"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// SessionError represents errors during session bootstrap
type SessionError struct {
	State string
	Err   error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session error [%s]: %v", e.State, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
