package internal

import (
	"reflect"
	"testing"
	"time"
)

func TestStore_SessionIDRoundTrip(t *testing.T) {
	store := newTestStore(t)

	id, err := store.LoadSessionID()
	if err != nil {
		t.Fatalf("LoadSessionID() failed: %v", err)
	}
	if id != "" {
		t.Errorf("fresh store LoadSessionID() = %q, want empty", id)
	}

	if err := store.SaveSessionID("sess-1"); err != nil {
		t.Fatalf("SaveSessionID() failed: %v", err)
	}
	if err := store.SaveSessionID("sess-2"); err != nil {
		t.Fatalf("SaveSessionID() overwrite failed: %v", err)
	}

	id, err = store.LoadSessionID()
	if err != nil {
		t.Fatalf("LoadSessionID() failed: %v", err)
	}
	if id != "sess-2" {
		t.Errorf("LoadSessionID() = %q, want sess-2", id)
	}

	if err := store.ClearSessionID(); err != nil {
		t.Fatalf("ClearSessionID() failed: %v", err)
	}
	id, err = store.LoadSessionID()
	if err != nil {
		t.Fatalf("LoadSessionID() after clear failed: %v", err)
	}
	if id != "" {
		t.Errorf("LoadSessionID() after clear = %q, want empty", id)
	}
}

func TestStore_SaveTurnFillsDefaults(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.SaveTurn("sess-1", Turn{UserText: "q", FinalAnswer: "a"})
	if err != nil {
		t.Fatalf("SaveTurn() failed: %v", err)
	}
	if saved.ID == "" {
		t.Error("SaveTurn() did not assign an ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("SaveTurn() did not assign a timestamp")
	}
	if saved.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", saved.SessionID)
	}
}

func TestStore_TurnRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := Turn{
		ID:       "turn-1",
		UserText: "what now?",
		Reasoning: []ReasoningSection{
			{Name: "Thinking", Text: "hm"},
			{Name: "", Text: "unnamed"},
		},
		FinalAnswer: "this",
		CreatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if _, err := store.SaveTurn("sess-1", in); err != nil {
		t.Fatalf("SaveTurn() failed: %v", err)
	}

	got, err := store.GetTurn("turn-1")
	if err != nil {
		t.Fatalf("GetTurn() failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetTurn() = nil, want turn")
	}
	in.SessionID = "sess-1"
	if !reflect.DeepEqual(*got, in) {
		t.Errorf("GetTurn() = %+v, want %+v", *got, in)
	}
}

func TestStore_GetTurnMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetTurn("nope")
	if err != nil {
		t.Fatalf("GetTurn() failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetTurn() = %+v, want nil", got)
	}
}

func TestStore_ListTurnsOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"first", "second", "third"} {
		_, err := store.SaveTurn("sess-1", Turn{
			UserText:  q,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveTurn(%q) failed: %v", q, err)
		}
	}
	if _, err := store.SaveTurn("other-session", Turn{UserText: "elsewhere"}); err != nil {
		t.Fatalf("SaveTurn() failed: %v", err)
	}

	turns, err := store.ListTurns("sess-1", 0)
	if err != nil {
		t.Fatalf("ListTurns() failed: %v", err)
	}
	var got []string
	for _, turn := range turns {
		got = append(got, turn.UserText)
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListTurns() order = %v, want %v", got, want)
	}

	limited, err := store.ListTurns("sess-1", 2)
	if err != nil {
		t.Fatalf("ListTurns(limit) failed: %v", err)
	}
	if len(limited) != 2 || limited[0].UserText != "first" {
		t.Errorf("ListTurns(limit 2) = %d turns starting %q", len(limited), limited[0].UserText)
	}
}

func TestStore_ListSessionIDs(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	pairs := []struct {
		session string
		at      time.Time
	}{
		{"oldest", base},
		{"newest", base.Add(2 * time.Hour)},
		{"middle", base.Add(time.Hour)},
	}
	for _, p := range pairs {
		if _, err := store.SaveTurn(p.session, Turn{UserText: "q", CreatedAt: p.at}); err != nil {
			t.Fatalf("SaveTurn() failed: %v", err)
		}
	}

	ids, err := store.ListSessionIDs()
	if err != nil {
		t.Fatalf("ListSessionIDs() failed: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ListSessionIDs() = %v, want %v", ids, want)
	}
}

func TestStore_ReplaceSessionTurns(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.SaveTurn("sess-1", Turn{UserText: "stale"}); err != nil {
		t.Fatalf("SaveTurn() failed: %v", err)
	}

	fresh := []Turn{
		{UserText: "q1", FinalAnswer: "a1"},
		{UserText: "q2", FinalAnswer: "a2"},
	}
	if err := store.ReplaceSessionTurns("sess-1", fresh); err != nil {
		t.Fatalf("ReplaceSessionTurns() failed: %v", err)
	}

	turns, err := store.ListTurns("sess-1", 0)
	if err != nil {
		t.Fatalf("ListTurns() failed: %v", err)
	}
	var got []string
	for _, turn := range turns {
		got = append(got, turn.UserText)
	}
	want := []string{"q1", "q2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("turns after replace = %v, want %v", got, want)
	}
}

func TestStore_ReplaceSessionTurnsEmptyClears(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.SaveTurn("sess-1", Turn{UserText: "stale"}); err != nil {
		t.Fatalf("SaveTurn() failed: %v", err)
	}
	if err := store.ReplaceSessionTurns("sess-1", nil); err != nil {
		t.Fatalf("ReplaceSessionTurns(nil) failed: %v", err)
	}

	turns, err := store.ListTurns("sess-1", 0)
	if err != nil {
		t.Fatalf("ListTurns() failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("got %d turns, want 0", len(turns))
	}
}
