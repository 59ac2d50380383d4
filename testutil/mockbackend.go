package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockBackend is an httptest-backed stand-in for the query backend. It
// serves the create-session, query and history endpoints with canned
// responses.
type MockBackend struct {
	Server *httptest.Server

	mu sync.Mutex

	// SessionID is returned by POST /session.
	SessionID string
	// FailSessionCreate makes POST /session return 500.
	FailSessionCreate bool
	// StreamBody is the wire-format body returned by POST /query.
	StreamBody string
	// AssignSessionID, when non-empty, is set as the X-Session-Id header
	// on query responses.
	AssignSessionID string
	// QueryStatus overrides the query response status (default 200).
	QueryStatus int
	// HistoryTurns is returned by GET /history/{id}.
	HistoryTurns []map[string]string

	// Requests records the question/session pairs received on /query.
	Requests []QueryRequest
}

// QueryRequest is one recorded call to /query.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// NewMockBackend starts a mock backend. It is shut down with the test.
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()
	m := &MockBackend{SessionID: "session-test-1"}

	mux := http.NewServeMux()
	mux.HandleFunc("/session", m.handleSession)
	mux.HandleFunc("/query", m.handleQuery)
	mux.HandleFunc("/history/", m.handleHistory)

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the backend base URL.
func (m *MockBackend) URL() string {
	return m.Server.URL
}

func (m *MockBackend) handleSession(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if m.FailSessionCreate {
		http.Error(w, "session service unavailable", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"session_id": m.SessionID})
}

func (m *MockBackend) handleQuery(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req QueryRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	m.Requests = append(m.Requests, req)

	if m.QueryStatus != 0 && m.QueryStatus != http.StatusOK {
		http.Error(w, "query failed", m.QueryStatus)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	if m.AssignSessionID != "" {
		w.Header().Set("X-Session-Id", m.AssignSessionID)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, m.StreamBody)
}

func (m *MockBackend) handleHistory(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessionID := strings.TrimPrefix(r.URL.Path, "/history/")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}
	turns := m.HistoryTurns
	if turns == nil {
		turns = []map[string]string{}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"turns": turns})
}

// LastQuery returns the most recent recorded query, or nil.
func (m *MockBackend) LastQuery() *QueryRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}
