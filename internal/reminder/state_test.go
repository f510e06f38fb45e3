package reminder

import (
	"testing"
	"time"
)

func recordInState(t *testing.T, s State) *Record {
	t.Helper()

	r := NewRecord("usr1", "2025-01-01", "note1", SourceBookmark, NotePayload{NoteID: "note1", Title: "T"})
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	switch s {
	case StateUnvisited:
	case StateVisitedUnseen:
		r.MarkFirstVisit(now)
	case StateSeen:
		r.MarkFirstVisit(now)
		r.MarkBannerSeen(now.Add(time.Minute))
	case StateDismissed:
		r.Dismiss(now)
	}
	return r
}

func TestDecideTotality(t *testing.T) {
	cases := []struct {
		state  State
		action Action
		hint   Hint
	}{
		{StateDismissed, ActionNone, HintNone},
		{StateUnvisited, ActionMarkFirstVisit, HintDeferred},
		{StateVisitedUnseen, ActionMarkBannerSeen, HintBanner},
		{StateSeen, ActionNone, HintBanner},
	}

	for _, c := range cases {
		r := recordInState(t, c.state)
		if got := r.StateOf(); got != c.state {
			t.Fatalf("StateOf = %v, want %v", got, c.state)
		}
		action, hint := Decide(r)
		if action != c.action || hint != c.hint {
			t.Errorf("Decide(state %v) = (%v, %v), want (%v, %v)", c.state, action, hint, c.action, c.hint)
		}
	}
}

func TestDismissalIsAbsorbing(t *testing.T) {
	r := recordInState(t, StateDismissed)
	later := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	r.MarkFirstVisit(later)
	r.MarkBannerSeen(later)
	if r.FirstVisitAt != nil || r.BannerSeenAt != nil {
		t.Errorf("visit fields mutated after dismissal: %+v", r)
	}

	was := *r.DismissedAt
	r.Dismiss(later)
	if !r.DismissedAt.Equal(was) {
		t.Errorf("DismissedAt overwritten by repeat dismiss")
	}
}

func TestBannerNeverBeforeFirstVisit(t *testing.T) {
	r := recordInState(t, StateUnvisited)
	r.MarkBannerSeen(time.Now())
	if r.BannerSeenAt != nil {
		t.Errorf("banner marked seen without a first visit")
	}
}

func TestFirstVisitSetOnce(t *testing.T) {
	r := recordInState(t, StateUnvisited)
	first := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	r.MarkFirstVisit(first)
	r.MarkFirstVisit(second)
	if !r.FirstVisitAt.Equal(first) {
		t.Errorf("FirstVisitAt = %v, want %v", r.FirstVisitAt, first)
	}
}

func TestCloseModalIgnoresState(t *testing.T) {
	r := recordInState(t, StateDismissed)
	now := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)
	r.CloseModal(now)
	if r.ModalClosedAt == nil || !r.ModalClosedAt.Equal(now) {
		t.Errorf("ModalClosedAt = %v, want %v", r.ModalClosedAt, now)
	}
}
