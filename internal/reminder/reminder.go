package reminder

import "time"

// Source identifies which engagement set a reminder's note was drawn from.
type Source string

const (
	SourceBookmark Source = "BOOKMARK"
	SourceAnswer   Source = "ANSWER"
)

// NotePayload is the display snapshot captured when the reminder is assigned,
// so rendering does not depend on the note still existing unchanged.
type NotePayload struct {
	NoteID   string `json:"note_id" bson:"note_id"`
	Title    string `json:"title" bson:"title"`
	ImageURL string `json:"image_url" bson:"image_url"`
}

// Record is one user's reminder for one calendar day. At most one Record
// exists per (UserID, Date) pair.
type Record struct {
	UserID        string      `json:"user_id" bson:"user_id"`
	Date          string      `json:"date" bson:"date"` // "2006-01-02" in the service timezone
	NoteID        string      `json:"note_id" bson:"note_id"`
	Source        Source      `json:"source" bson:"source"`
	Payload       NotePayload `json:"payload" bson:"payload"`
	FirstVisitAt  *time.Time  `json:"first_visit_at,omitempty" bson:"first_visit_at,omitempty"`
	BannerSeenAt  *time.Time  `json:"banner_seen_at,omitempty" bson:"banner_seen_at,omitempty"`
	ModalClosedAt *time.Time  `json:"modal_closed_at,omitempty" bson:"modal_closed_at,omitempty"`
	Dismissed     bool        `json:"dismissed" bson:"dismissed"`
	DismissedAt   *time.Time  `json:"dismissed_at,omitempty" bson:"dismissed_at,omitempty"`
}

// DateLayout is the wire and storage format for reminder dates.
const DateLayout = "2006-01-02"

// DateOf truncates a moment to its calendar date string.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// NewRecord builds a fresh, unvisited record. Re-assignment for an existing
// (user, date) pair goes through this too: all visit and dismissal fields
// start unset.
func NewRecord(userID, date, noteID string, source Source, payload NotePayload) *Record {
	return &Record{
		UserID:  userID,
		Date:    date,
		NoteID:  noteID,
		Source:  source,
		Payload: payload,
	}
}

// MarkFirstVisit records the first visit of the day. No-op once dismissed.
func (r *Record) MarkFirstVisit(now time.Time) {
	if r.Dismissed || r.FirstVisitAt != nil {
		return
	}
	r.FirstVisitAt = &now
}

// MarkBannerSeen records the banner being surfaced. Never set before the
// first visit, and never after dismissal.
func (r *Record) MarkBannerSeen(now time.Time) {
	if r.Dismissed || r.FirstVisitAt == nil || r.BannerSeenAt != nil {
		return
	}
	r.BannerSeenAt = &now
}

// Dismiss ends the reminder for the day. Dismissal is absorbing: visit and
// banner fields are frozen afterwards.
func (r *Record) Dismiss(now time.Time) {
	if r.Dismissed {
		return
	}
	r.Dismissed = true
	r.DismissedAt = &now
}

// CloseModal records the modal-closed timestamp. It carries no state-machine
// meaning and may be set at any point, including after dismissal.
func (r *Record) CloseModal(now time.Time) {
	r.ModalClosedAt = &now
}
