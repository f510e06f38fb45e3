package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

func testRecord(userID, date string) *reminder.Record {
	return reminder.NewRecord(userID, date, "note1", reminder.SourceBookmark, reminder.NotePayload{
		NoteID:   "note1",
		Title:    "Test Note",
		ImageURL: "https://img.example/note1.png",
	})
}

// runStoreTests exercises the Store contract. It runs against every backend.
func runStoreTests(t *testing.T, store Store) {
	// Missing record
	_, err := store.Get("usr1", "2025-01-01")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
	}

	// Create and read back
	r := testRecord("usr1", "2025-01-01")
	if err := store.Save(r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Get("usr1", "2025-01-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.NoteID != r.NoteID || got.Source != r.Source || got.Payload != r.Payload {
		t.Errorf("Get: got %+v, want %+v", got, r)
	}
	if got.FirstVisitAt != nil || got.Dismissed {
		t.Errorf("fresh record has visit state set: %+v", got)
	}

	// Save on the same key replaces, never duplicates
	r2 := reminder.NewRecord("usr1", "2025-01-01", "note2", reminder.SourceAnswer, reminder.NotePayload{NoteID: "note2", Title: "Other"})
	if err := store.Save(r2); err != nil {
		t.Fatalf("Save (replace) failed: %v", err)
	}
	got, err = store.Get("usr1", "2025-01-01")
	if err != nil {
		t.Fatalf("Get after replace failed: %v", err)
	}
	if got.NoteID != "note2" || got.Source != reminder.SourceAnswer {
		t.Errorf("replace: got %+v, want note2/ANSWER", got)
	}
	count := 0
	if err := store.ForEachByDate("2025-01-01", func(*reminder.Record) error { count++; return nil }); err != nil {
		t.Fatalf("ForEachByDate failed: %v", err)
	}
	if count != 1 {
		t.Errorf("records for date after replace: got %d, want 1", count)
	}

	// Visit mutation round-trips nullable timestamps
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)
	got.MarkFirstVisit(now)
	if err := store.Save(got); err != nil {
		t.Fatalf("Save (visit) failed: %v", err)
	}
	got, err = store.Get("usr1", "2025-01-01")
	if err != nil {
		t.Fatalf("Get after visit failed: %v", err)
	}
	if got.FirstVisitAt == nil || !got.FirstVisitAt.Equal(now) {
		t.Errorf("FirstVisitAt: got %v, want %v", got.FirstVisitAt, now)
	}
	if got.BannerSeenAt != nil {
		t.Errorf("BannerSeenAt set unexpectedly: %v", got.BannerSeenAt)
	}

	// Per-date streaming only sees the requested date
	other := testRecord("usr2", "2025-01-02")
	if err := store.Save(other); err != nil {
		t.Fatalf("Save usr2 failed: %v", err)
	}
	var seen []string
	err = store.ForEachByDate("2025-01-02", func(r *reminder.Record) error {
		seen = append(seen, r.UserID)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachByDate failed: %v", err)
	}
	if len(seen) != 1 || seen[0] != "usr2" {
		t.Errorf("ForEachByDate(2025-01-02): got %v, want [usr2]", seen)
	}

	// Callback errors stop iteration and propagate
	stop := errors.New("stop")
	err = store.ForEachByDate("2025-01-02", func(*reminder.Record) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("ForEachByDate callback error: got %v, want stop", err)
	}

	// Delete is idempotent
	if err := store.Delete("usr1", "2025-01-01"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get("usr1", "2025-01-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	if err := store.Delete("usr1", "2025-01-01"); err != nil {
		t.Errorf("repeat Delete: got %v, want nil", err)
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	r := testRecord("usr1", "2025-01-01")
	if err := store.Save(r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get("usr1", "2025-01-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	got.Dismissed = true

	again, err := store.Get("usr1", "2025-01-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Dismissed {
		t.Errorf("mutating a returned record leaked into the store")
	}
}
