package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iksnae/metachat/internal"
)

type staticCreator struct{ id string }

func (c *staticCreator) CreateSession(ctx context.Context) (string, error) {
	return c.id, nil
}

func newShowFixture(t *testing.T) (*internal.Store, *internal.SessionManager) {
	t.Helper()
	store, err := internal.OpenStore(filepath.Join(t.TempDir(), "metachat.db"))
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.SaveSessionID("sess-show"); err != nil {
		t.Fatalf("SaveSessionID() failed: %v", err)
	}
	for _, turn := range []internal.Turn{
		{ID: "aaa111", UserText: "first"},
		{ID: "aab222", UserText: "second"},
		{ID: "zzz333", UserText: "third"},
	} {
		if _, err := store.SaveTurn("sess-show", turn); err != nil {
			t.Fatalf("SaveTurn() failed: %v", err)
		}
	}
	return store, internal.NewSessionManager(store, &staticCreator{id: "unused"})
}

func TestResolveTurn(t *testing.T) {
	store, manager := newShowFixture(t)

	tests := []struct {
		name     string
		args     []string
		wantText string
		wantErr  bool
	}{
		{"no args picks latest", nil, "third", false},
		{"exact id", []string{"aaa111"}, "first", false},
		{"unambiguous prefix", []string{"zz"}, "third", false},
		{"ambiguous prefix", []string{"aa"}, "", true},
		{"unknown id", []string{"nope"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, err := resolveTurn(showCmd, store, manager, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveTurn() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if turn.UserText != tt.wantText {
				t.Errorf("resolved %q, want %q", turn.UserText, tt.wantText)
			}
		})
	}
}

func TestResolveTurnEmptySession(t *testing.T) {
	store, err := internal.OpenStore(filepath.Join(t.TempDir(), "metachat.db"))
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.SaveSessionID("empty-session"); err != nil {
		t.Fatalf("SaveSessionID() failed: %v", err)
	}
	manager := internal.NewSessionManager(store, &staticCreator{id: "unused"})

	turn, err := resolveTurn(showCmd, store, manager, nil)
	if err != nil {
		t.Fatalf("resolveTurn() failed: %v", err)
	}
	if turn != nil {
		t.Errorf("resolveTurn() = %+v, want nil", turn)
	}
}
