package internal

// Transcript is a session's worth of turns, the unit the exporters work
// on.
type Transcript struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Turns     []Turn `json:"turns" yaml:"turns"`
}

// TurnCount returns the number of turns in the transcript.
func (t *Transcript) TurnCount() int {
	return len(t.Turns)
}

// LoadTranscript assembles a transcript from the cached turns of a
// session.
func LoadTranscript(store *Store, sessionID string) (*Transcript, error) {
	turns, err := store.ListTurns(sessionID, 0)
	if err != nil {
		return nil, err
	}
	return &Transcript{SessionID: sessionID, Turns: turns}, nil
}
