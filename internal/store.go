package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// sessionIDKey is the well-known key the session identifier persists under.
const sessionIDKey = "session_id"

// Store is the local SQLite database: the persisted session identifier in
// a kv table and a cache of completed turns so history, show and export
// work without the backend. Single writer, latest write wins.
type Store struct {
	db   *sql.DB
	path string
}

var _ SessionStore = &Store{}

const storeSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS turns (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	user_text TEXT NOT NULL,
	reasoning TEXT NOT NULL,
	final_answer TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, created_at);
`

// OpenStore opens (creating if needed) the store at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	if _, err := db.Exec(storeSchema); err != nil {
		_ = db.Close()
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LoadSessionID returns the persisted session identifier, or "" when none
// has been saved.
func (s *Store) LoadSessionID() (string, error) {
	var id string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", sessionIDKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return id, nil
}

// SaveSessionID persists the session identifier, replacing any previous one.
func (s *Store) SaveSessionID(id string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		sessionIDKey, id,
	)
	if err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// ClearSessionID removes the persisted session identifier.
func (s *Store) ClearSessionID() error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", sessionIDKey); err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// SaveTurn caches a completed turn. A missing ID gets a fresh UUID; a
// zero CreatedAt gets the current time.
func (s *Store) SaveTurn(sessionID string, turn Turn) (Turn, error) {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	turn.SessionID = sessionID

	reasoning, err := json.Marshal(turn.Reasoning)
	if err != nil {
		return turn, &StoreError{Path: s.path, Op: "write", Err: err}
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO turns (id, session_id, user_text, reasoning, final_answer, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		turn.ID, sessionID, turn.UserText, string(reasoning), turn.FinalAnswer, turn.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return turn, &StoreError{Path: s.path, Op: "write", Err: err}
	}
	return turn, nil
}

// ListTurns returns the cached turns for a session in arrival order.
// limit <= 0 means no limit.
func (s *Store) ListTurns(sessionID string, limit int) ([]Turn, error) {
	query := "SELECT id, session_id, user_text, reasoning, final_answer, created_at FROM turns WHERE session_id = ? ORDER BY created_at ASC, id ASC"
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var turns []Turn
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, &StoreError{Path: s.path, Op: "read", Err: err}
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return turns, nil
}

// GetTurn returns one cached turn by id, or nil when it does not exist.
func (s *Store) GetTurn(id string) (*Turn, error) {
	row := s.db.QueryRow(
		"SELECT id, session_id, user_text, reasoning, final_answer, created_at FROM turns WHERE id = ?", id,
	)
	turn, err := scanTurn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return &turn, nil
}

// ListSessionIDs returns every session with cached turns, most recently
// active first.
func (s *Store) ListSessionIDs() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT session_id, MAX(created_at) AS last FROM turns GROUP BY session_id ORDER BY last DESC",
	)
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		var last int64
		if err := rows.Scan(&id, &last); err != nil {
			return nil, &StoreError{Path: s.path, Op: "read", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return ids, nil
}

// ReplaceSessionTurns swaps the cached turns for a session with freshly
// fetched history. Used when resuming a session on a new machine.
func (s *Store) ReplaceSessionTurns(sessionID string, turns []Turn) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM turns WHERE session_id = ?", sessionID); err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}

	base := time.Now().UTC()
	for i, turn := range turns {
		if turn.ID == "" {
			turn.ID = uuid.NewString()
		}
		createdAt := turn.CreatedAt
		if createdAt.IsZero() {
			// Synthesize monotonically increasing timestamps so order survives.
			createdAt = base.Add(time.Duration(i) * time.Millisecond)
		}
		reasoning, err := json.Marshal(turn.Reasoning)
		if err != nil {
			return &StoreError{Path: s.path, Op: "write", Err: err}
		}
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO turns (id, session_id, user_text, reasoning, final_answer, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			turn.ID, sessionID, turn.UserText, string(reasoning), turn.FinalAnswer, createdAt.UnixMilli(),
		); err != nil {
			return &StoreError{Path: s.path, Op: "write", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTurn(row scanner) (Turn, error) {
	var turn Turn
	var reasoning string
	var createdAt int64
	if err := row.Scan(&turn.ID, &turn.SessionID, &turn.UserText, &reasoning, &turn.FinalAnswer, &createdAt); err != nil {
		return Turn{}, err
	}
	if reasoning != "" && reasoning != "null" {
		if err := json.Unmarshal([]byte(reasoning), &turn.Reasoning); err != nil {
			return Turn{}, err
		}
	}
	turn.CreatedAt = time.Unix(0, createdAt*int64(time.Millisecond)).UTC()
	return turn, nil
}
