package internal

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
)

// wireRecord renders one wire-format record: data: lines joined from the
// payload's lines, terminated by a blank line.
func wireRecord(payload string) string {
	var sb strings.Builder
	for _, line := range strings.Split(payload, "\n") {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// wireBody renders a full wire-format stream body from payloads.
func wireBody(payloads ...string) string {
	var sb strings.Builder
	for _, p := range payloads {
		sb.WriteString(wireRecord(p))
	}
	return sb.String()
}

// chunkedReader yields its content in fixed-size chunks, to exercise
// fragment handling across arbitrary boundaries.
type chunkedReader struct {
	data  []byte
	size  int
	index int
}

func newChunkedReader(data string, size int) io.ReadCloser {
	return &chunkedReader{data: []byte(data), size: size}
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.index >= len(r.data) {
		return 0, io.EOF
	}
	end := r.index + r.size
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.index:end])
	r.index += n
	return n, nil
}

func (r *chunkedReader) Close() error { return nil }

// failingReader returns some data and then an error, simulating a
// connection dropped mid-stream.
type failingReader struct {
	data []byte
	err  error
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		n := copy(p, r.data)
		return n, nil
	}
	return 0, r.err
}

func (r *failingReader) Close() error { return nil }

// newTestStore opens a store in a test temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "metachat.db"))
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
