package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
)

const (
	// AssignedSessionHeader carries a backend-assigned session identifier
	// on a query response.
	AssignedSessionHeader = "X-Session-Id"

	// createSessionAttempts bounds retries of the non-streaming endpoints.
	// The streaming query request is never retried.
	createSessionAttempts = 3
)

// Client talks to the query backend.
type Client struct {
	baseURL string
	httpc   *http.Client
}

var _ SessionCreator = &Client{}

// NewClient creates a Client for the backend at baseURL. timeout applies to
// the non-streaming endpoints; query streams run until the body is closed.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// createSessionResponse is the body of POST /session.
type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// queryRequest is the body of POST /query.
type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// HistoryTurn is one stored exchange returned by the history endpoint.
type HistoryTurn struct {
	UserQuery string `json:"user_query"`
	Answer    string `json:"answer"`
}

// historyResponse is the body of GET /history/{id}.
type historyResponse struct {
	Turns []HistoryTurn `json:"turns"`
}

// QueryStream is an open response stream for one submitted query.
type QueryStream struct {
	// Body is the raw wire-format event stream. The caller owns it and
	// must close it.
	Body io.ReadCloser
	// AssignedSessionID is non-empty when the backend assigned or changed
	// the session on this response.
	AssignedSessionID string
}

// CreateSession asks the backend to mint a new session identifier.
// Transient failures are retried with backoff.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	url := c.baseURL + "/session"

	id, err := retry.DoWithData(
		func() (string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
			if err != nil {
				return "", err
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return "", err
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
			}

			var body createSessionResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return "", err
			}
			if body.SessionID == "" {
				return "", fmt.Errorf("empty session_id in response")
			}
			return body.SessionID, nil
		},
		retry.Attempts(createSessionAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			LogDebug("create session attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return "", &TransportError{Op: "create-session", URL: url, Err: err}
	}
	return id, nil
}

// Query submits a question and returns the open event stream. A non-2xx
// response is a TransportError carrying a trimmed excerpt of the body.
func (c *Client) Query(ctx context.Context, question, sessionID string) (*QueryStream, error) {
	url := c.baseURL + "/query"

	payload, err := json.Marshal(queryRequest{Question: question, SessionID: sessionID})
	if err != nil {
		return nil, &TransportError{Op: "query", URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "query", URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	// The stream outlives any client-level timeout; rely on ctx instead.
	streamClient := &http.Client{Transport: c.httpc.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "query", URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &TransportError{
			Op:  "query",
			URL: url,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt))),
		}
	}

	return &QueryStream{
		Body:              resp.Body,
		AssignedSessionID: resp.Header.Get(AssignedSessionHeader),
	}, nil
}

// FetchHistory loads the stored turns for a session. Transient failures
// are retried with backoff.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) ([]HistoryTurn, error) {
	url := c.baseURL + "/history/" + sessionID

	turns, err := retry.DoWithData(
		func() ([]HistoryTurn, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return nil, err
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
			}

			var body historyResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return nil, err
			}
			return body.Turns, nil
		},
		retry.Attempts(createSessionAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			LogDebug("fetch history attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, &TransportError{Op: "history", URL: url, Err: err}
	}
	return turns, nil
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}
