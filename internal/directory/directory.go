package directory

import (
	"errors"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// ErrNoteNotFound is returned when a note's display snapshot cannot be
// resolved. Selection treats this as a hard per-user failure.
var ErrNoteNotFound = errors.New("note not found")

// Users enumerates registered user identifiers. Paged so callers never hold
// the full user base in memory.
type Users interface {
	// ListIDs returns up to limit user ids starting at offset, ordered
	// stably. A short page signals the end of the set.
	ListIDs(offset, limit int) ([]string, error)
}

// Engagements exposes the per-user engagement history candidates are drawn
// from.
type Engagements interface {
	BookmarkedNoteIDs(userID string) ([]string, error)
	AnsweredNoteIDs(userID string) ([]string, error)
}

// Notes resolves a note's display snapshot at assignment time.
type Notes interface {
	// Snapshot returns the denormalized display data for a note, or
	// ErrNoteNotFound.
	Snapshot(noteID string) (*reminder.NotePayload, error)
}
