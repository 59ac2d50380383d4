package internal

import (
	"context"
	"errors"
	"io"
)

// SnapshotFunc receives the current turn after every applied event, so a
// renderer can update incrementally while the stream is still open.
type SnapshotFunc func(Turn)

// QueryRunner drives one query end to end: session activation, request
// submission, decoding, parsing, session reassignment and accumulation.
// Everything advances on the caller's goroutine; the only blocking point
// is the body read inside the decoder.
type QueryRunner struct {
	client  *Client
	manager *SessionManager
	store   *Store
}

// NewQueryRunner creates a QueryRunner. store may be nil to skip the local
// turn cache (used by replay tooling).
func NewQueryRunner(client *Client, manager *SessionManager, store *Store) *QueryRunner {
	return &QueryRunner{
		client:  client,
		manager: manager,
		store:   store,
	}
}

// Run submits question and consumes its event stream. The returned Turn
// always holds whatever content arrived; on a transport failure it also
// carries the visible error marker and the error is returned alongside.
// Cancelling ctx stops the pull loop, releases the stream and returns the
// partial turn with ctx's error.
func (r *QueryRunner) Run(ctx context.Context, question string, onSnapshot SnapshotFunc) (Turn, error) {
	session := r.manager.Activate(ctx)
	acc := NewAccumulator(question)

	stream, err := r.client.Query(ctx, question, session.ID)
	if err != nil {
		acc.AppendError(err)
		return acc.Snapshot(), err
	}

	// A header-level assignment is handled exactly like an in-band
	// SessionUpdate record.
	if stream.AssignedSessionID != "" {
		r.manager.Reassign(stream.AssignedSessionID)
	}

	dec := NewStreamDecoder(stream.Body)
	defer func() { _ = dec.Close() }()
	parser := NewEventParser(dec)

	turn, err := r.consume(ctx, parser, acc, onSnapshot)
	r.persist(turn)
	return turn, err
}

// consume pulls events until end of stream, cancellation or a read
// failure.
func (r *QueryRunner) consume(ctx context.Context, parser *EventParser, acc *Accumulator, onSnapshot SnapshotFunc) (Turn, error) {
	for {
		if err := ctx.Err(); err != nil {
			return acc.Snapshot(), err
		}

		ev, err := parser.Next()
		if errors.Is(err, io.EOF) {
			return acc.Snapshot(), nil
		}
		if err != nil {
			// Events parsed before the failure are still in the queue;
			// drain them so the turn holds everything that arrived intact.
			for _, pending := range parser.Drain() {
				r.route(pending, acc, onSnapshot)
			}
			transportErr := &TransportError{Op: "read", URL: r.client.BaseURL(), Err: err}
			LogError("stream failed mid-turn: %v", transportErr)
			acc.AppendError(transportErr)
			if onSnapshot != nil {
				onSnapshot(acc.Snapshot())
			}
			return acc.Snapshot(), transportErr
		}

		r.route(ev, acc, onSnapshot)
	}
}

// route sends session updates to the manager and everything else to the
// accumulator, then publishes a snapshot.
func (r *QueryRunner) route(ev Event, acc *Accumulator, onSnapshot SnapshotFunc) {
	if update, ok := ev.(SessionUpdateEvent); ok {
		r.manager.Reassign(update.SessionID)
	} else {
		acc.Apply(ev)
	}
	if onSnapshot != nil {
		onSnapshot(acc.Snapshot())
	}
}

// persist caches the finished (possibly partial) turn locally. Cache
// failures are logged, never surfaced: the turn was already delivered.
func (r *QueryRunner) persist(turn Turn) {
	if r.store == nil {
		return
	}
	if _, err := r.store.SaveTurn(r.manager.Current().ID, turn); err != nil {
		LogWarn("failed to cache turn: %v", err)
	}
}

// RestoreHistory fetches the backend's stored turns for the active session
// and replaces the local cache with them. Returns the restored turns.
func (r *QueryRunner) RestoreHistory(ctx context.Context) ([]Turn, error) {
	session := r.manager.Activate(ctx)

	entries, err := r.client.FetchHistory(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	turns := ExpandHistory(session.ID, entries)
	if r.store != nil {
		if err := r.store.ReplaceSessionTurns(session.ID, turns); err != nil {
			LogWarn("failed to cache restored history: %v", err)
		}
	}
	return turns, nil
}
