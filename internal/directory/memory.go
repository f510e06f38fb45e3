package directory

import (
	"sort"
	"sync"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// MemoryDirectory is an in-process collaborator fake for tests and local
// runs without the platform databases.
type MemoryDirectory struct {
	users     []string
	bookmarks map[string][]string
	answers   map[string][]string
	notes     map[string]reminder.NotePayload
	mu        sync.RWMutex

	// Err, when set, is returned by every read. Exercises retry paths.
	Err error
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		bookmarks: make(map[string][]string),
		answers:   make(map[string][]string),
		notes:     make(map[string]reminder.NotePayload),
	}
}

// AddUser registers a user id, keeping enumeration order stable.
func (d *MemoryDirectory) AddUser(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, userID)
	sort.Strings(d.users)
}

// AddNote registers a note snapshot.
func (d *MemoryDirectory) AddNote(p reminder.NotePayload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes[p.NoteID] = p
}

// AddBookmark records that userID bookmarked noteID.
func (d *MemoryDirectory) AddBookmark(userID, noteID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bookmarks[userID] = append(d.bookmarks[userID], noteID)
}

// AddAnswer records that userID answered a question on noteID.
func (d *MemoryDirectory) AddAnswer(userID, noteID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.answers[userID] = append(d.answers[userID], noteID)
}

func (d *MemoryDirectory) ListIDs(offset, limit int) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	if offset >= len(d.users) {
		return nil, nil
	}
	end := offset + limit
	if end > len(d.users) {
		end = len(d.users)
	}
	page := make([]string, end-offset)
	copy(page, d.users[offset:end])
	return page, nil
}

func (d *MemoryDirectory) BookmarkedNoteIDs(userID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return append([]string(nil), d.bookmarks[userID]...), nil
}

func (d *MemoryDirectory) AnsweredNoteIDs(userID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return append([]string(nil), d.answers[userID]...), nil
}

func (d *MemoryDirectory) Snapshot(noteID string) (*reminder.NotePayload, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	p, ok := d.notes[noteID]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &p, nil
}
