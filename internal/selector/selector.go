package selector

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/directory"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// Candidate is a selected note plus the engagement set it came from and its
// display snapshot captured at selection time.
type Candidate struct {
	NoteID  string
	Source  reminder.Source
	Payload reminder.NotePayload
}

// Selector deterministically picks one note from a user's engagement history
// for a target date.
type Selector struct {
	engagements directory.Engagements
	notes       directory.Notes
}

func New(engagements directory.Engagements, notes directory.Notes) *Selector {
	return &Selector{engagements: engagements, notes: notes}
}

// Pick returns the candidate for (userID, date), or (nil, nil) when the user
// has no engagement history. The same (userID, date) always yields the same
// candidate, across invocations and restarts, so the assignment job can be
// re-run safely.
func (s *Selector) Pick(userID, date string) (*Candidate, error) {
	bookmarked, err := s.engagements.BookmarkedNoteIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked notes: %w", err)
	}
	answered, err := s.engagements.AnsweredNoteIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answered notes: %w", err)
	}

	ids, sources := merge(bookmarked, answered)
	if len(ids) == 0 {
		return nil, nil
	}

	idx := pickIndex(userID, date, len(ids))
	noteID := ids[idx]

	payload, err := s.notes.Snapshot(noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve note %s: %w", noteID, err)
	}

	return &Candidate{NoteID: noteID, Source: sources[noteID], Payload: *payload}, nil
}

// merge unions the two engagement sets. Bookmarks take precedence: a note in
// both sets contributes once, tagged BOOKMARK. Both inputs are sorted first
// so the candidate ordering does not depend on store iteration order.
func merge(bookmarked, answered []string) ([]string, map[string]reminder.Source) {
	sources := make(map[string]reminder.Source, len(bookmarked)+len(answered))
	ids := make([]string, 0, len(bookmarked)+len(answered))

	sort.Strings(bookmarked)
	sort.Strings(answered)

	for _, id := range bookmarked {
		if _, seen := sources[id]; seen {
			continue
		}
		sources[id] = reminder.SourceBookmark
		ids = append(ids, id)
	}
	for _, id := range answered {
		if _, seen := sources[id]; seen {
			continue
		}
		sources[id] = reminder.SourceAnswer
		ids = append(ids, id)
	}
	return ids, sources
}

// pickIndex derives the deterministic candidate index: the first 8 bytes of
// MD5("{userID}-{date}"), read big-endian as a signed 64-bit seed, drive a
// PRNG whose first draw is reduced mod the candidate count. Unsalted on
// purpose: the sequence is predictable to whoever can compute the hash,
// which is fine for surfacing a user's own engagement history.
func pickIndex(userID, date string, count int) int {
	sum := md5.Sum([]byte(userID + "-" + date))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))
	return int(rng.Int63() % int64(count))
}
