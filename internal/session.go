package internal

// SessionOrigin records how the live session identifier came to be.
type SessionOrigin string

const (
	// SessionCreated means the backend minted the identifier for this run.
	SessionCreated SessionOrigin = "created"
	// SessionResumed means the identifier was loaded from the local store.
	SessionResumed SessionOrigin = "resumed"
	// SessionFallback means creation failed and the fixed default
	// identifier is in use.
	SessionFallback SessionOrigin = "fallback"
)

// Session is the one live conversation identity.
type Session struct {
	ID     string        `json:"id" yaml:"id"`
	Origin SessionOrigin `json:"origin" yaml:"origin"`
}

// SessionStore persists the session identifier across restarts. It is
// injected into the SessionManager so persistence stays swappable and
// testable.
type SessionStore interface {
	// LoadSessionID returns the persisted identifier, or "" when none has
	// been saved yet.
	LoadSessionID() (string, error)
	// SaveSessionID persists id, replacing any previous value.
	SaveSessionID(id string) error
	// ClearSessionID removes the persisted identifier.
	ClearSessionID() error
}
