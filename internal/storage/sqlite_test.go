package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "reminders.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, newSQLiteTestStore(t))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reminders.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	r := testRecord("usr1", "2025-01-01")
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	r.MarkFirstVisit(now)
	r.MarkBannerSeen(now.Add(time.Minute))
	r.Dismiss(now.Add(2 * time.Minute))
	if err := store.Save(r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store2.Close()

	got, err := store2.Get("usr1", "2025-01-01")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !got.Dismissed || got.DismissedAt == nil {
		t.Errorf("dismissal lost across reopen: %+v", got)
	}
	if got.FirstVisitAt == nil || !got.FirstVisitAt.Equal(now) {
		t.Errorf("FirstVisitAt after reopen: got %v, want %v", got.FirstVisitAt, now)
	}
	if got.StateOf() != reminder.StateDismissed {
		t.Errorf("StateOf after reopen: got %v, want StateDismissed", got.StateOf())
	}
}
