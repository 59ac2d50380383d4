package internal

import "context"

// DefaultSessionID is used when the backend cannot mint a session. Sending
// queries is never blocked on session bootstrap.
const DefaultSessionID = "default-session"

// SessionState tracks the manager's lifecycle.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateResuming
	StateCreating
	StateActive
)

func (s SessionState) String() string {
	switch s {
	case StateResuming:
		return "resuming"
	case StateCreating:
		return "creating"
	case StateActive:
		return "active"
	default:
		return "uninitialized"
	}
}

// SessionCreator mints a new session identifier on the backend.
type SessionCreator interface {
	CreateSession(ctx context.Context) (string, error)
}

// SessionManager owns the current session identifier: it resumes a
// persisted one, creates a fresh one when none exists, and re-persists the
// identifier when the backend reassigns it mid-stream.
type SessionManager struct {
	store   SessionStore
	creator SessionCreator
	state   SessionState
	session Session
}

// NewSessionManager creates a SessionManager backed by store and creator.
func NewSessionManager(store SessionStore, creator SessionCreator) *SessionManager {
	return &SessionManager{
		store:   store,
		creator: creator,
		state:   StateUninitialized,
	}
}

// Activate resolves the live session: resume the persisted identifier if
// one exists, otherwise create one on the backend and persist it. When
// creation fails the fixed default identifier is used instead, so a dead
// backend session endpoint never blocks the user. All recoveries are
// logged, none are returned.
func (m *SessionManager) Activate(ctx context.Context) Session {
	if m.state == StateActive {
		return m.session
	}

	id, err := m.store.LoadSessionID()
	if err != nil {
		LogWarn("failed to load persisted session: %v", err)
		id = ""
	}

	if id != "" {
		m.state = StateResuming
		m.session = Session{ID: id, Origin: SessionResumed}
		m.state = StateActive
		LogDebug("resumed session %s", id)
		return m.session
	}

	m.state = StateCreating
	created, err := m.creator.CreateSession(ctx)
	if err != nil || created == "" {
		if err != nil {
			LogWarn("session creation failed, using fallback identifier: %v", err)
		}
		m.session = Session{ID: DefaultSessionID, Origin: SessionFallback}
		m.state = StateActive
		return m.session
	}

	if err := m.store.SaveSessionID(created); err != nil {
		LogWarn("failed to persist session %s: %v", created, err)
	}
	m.session = Session{ID: created, Origin: SessionCreated}
	m.state = StateActive
	LogDebug("created session %s", created)
	return m.session
}

// Reassign replaces the live identifier with one supplied by the backend,
// either in a response header or an in-band SessionUpdate record. The
// in-progress turn is untouched; only subsequent requests use the new
// identifier.
func (m *SessionManager) Reassign(id string) {
	if id == "" || id == m.session.ID {
		return
	}
	LogInfo("session reassigned: %s -> %s", m.session.ID, id)
	m.session.ID = id
	if m.state != StateActive {
		m.state = StateActive
	}
	if err := m.store.SaveSessionID(id); err != nil {
		LogWarn("failed to persist reassigned session %s: %v", id, err)
	}
}

// Reset clears the persisted identifier and returns the manager to its
// uninitialized state; the next Activate creates a fresh session.
func (m *SessionManager) Reset() error {
	if err := m.store.ClearSessionID(); err != nil {
		return &SessionError{State: m.state.String(), Err: err}
	}
	m.state = StateUninitialized
	m.session = Session{}
	return nil
}

// Current returns the live session. Only meaningful once Activate ran.
func (m *SessionManager) Current() Session {
	return m.session
}

// State returns the manager's lifecycle state.
func (m *SessionManager) State() SessionState {
	return m.state
}
