package internal

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/metachat/testutil"
)

func newTestClient(backend *testutil.MockBackend) *Client {
	return NewClient(backend.URL(), 2*time.Second)
}

func TestClient_CreateSession(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	backend.SessionID = "minted-1"

	id, err := newTestClient(backend).CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if id != "minted-1" {
		t.Errorf("CreateSession() = %q, want minted-1", id)
	}
}

func TestClient_CreateSessionFailure(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	backend.FailSessionCreate = true

	_, err := newTestClient(backend).CreateSession(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("CreateSession() error = %v, want *TransportError", err)
	}
	if transportErr.Op != "create-session" {
		t.Errorf("Op = %q, want create-session", transportErr.Op)
	}
}

func TestClient_QueryStreamsBody(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	backend.StreamBody = wireBody(`{"section":"Summary","text":"42"}`)

	client := newTestClient(backend)
	stream, err := client.Query(context.Background(), "what is it?", "sess-9")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	defer func() { _ = stream.Body.Close() }()

	body, err := io.ReadAll(stream.Body)
	if err != nil {
		t.Fatalf("reading stream failed: %v", err)
	}
	if string(body) != backend.StreamBody {
		t.Errorf("body = %q, want %q", body, backend.StreamBody)
	}

	last := backend.LastQuery()
	if last == nil {
		t.Fatal("backend recorded no query")
	}
	if last.Question != "what is it?" || last.SessionID != "sess-9" {
		t.Errorf("recorded query = %+v", last)
	}
}

func TestClient_QueryOmitsEmptySessionID(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	client := newTestClient(backend)

	stream, err := client.Query(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	_ = stream.Body.Close()

	if last := backend.LastQuery(); last.SessionID != "" {
		t.Errorf("SessionID = %q, want empty", last.SessionID)
	}
}

func TestClient_QueryCapturesAssignedSessionHeader(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	backend.AssignSessionID = "server-chose-this"

	stream, err := newTestClient(backend).Query(context.Background(), "q", "old")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	defer func() { _ = stream.Body.Close() }()

	if stream.AssignedSessionID != "server-chose-this" {
		t.Errorf("AssignedSessionID = %q, want server-chose-this", stream.AssignedSessionID)
	}
}

func TestClient_QueryNon200(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	backend.QueryStatus = 503

	_, err := newTestClient(backend).Query(context.Background(), "q", "s")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Query() error = %v, want *TransportError", err)
	}
	if !strings.Contains(transportErr.Error(), "503") {
		t.Errorf("error %q does not mention the status", transportErr.Error())
	}
}

func TestClient_QueryUnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := client.Query(context.Background(), "q", "s")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Query() error = %v, want *TransportError", err)
	}
}

func TestClient_FetchHistory(t *testing.T) {
	backend := testutil.NewMockBackend(t)
	backend.HistoryTurns = []map[string]string{
		{"user_query": "first?", "answer": "one"},
		{"user_query": "second?", "answer": "two"},
	}

	turns, err := newTestClient(backend).FetchHistory(context.Background(), "sess-9")
	if err != nil {
		t.Fatalf("FetchHistory() failed: %v", err)
	}
	want := []HistoryTurn{
		{UserQuery: "first?", Answer: "one"},
		{UserQuery: "second?", Answer: "two"},
	}
	if len(turns) != len(want) {
		t.Fatalf("got %d turns, want %d", len(turns), len(want))
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, turns[i], want[i])
		}
	}
}

func TestClient_FetchHistoryEmpty(t *testing.T) {
	backend := testutil.NewMockBackend(t)

	turns, err := newTestClient(backend).FetchHistory(context.Background(), "sess-9")
	if err != nil {
		t.Fatalf("FetchHistory() failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("got %d turns, want 0", len(turns))
	}
}

func TestClient_BaseURLTrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://example.test/", time.Second)
	if got := client.BaseURL(); got != "http://example.test" {
		t.Errorf("BaseURL() = %q, want trimmed", got)
	}
}
