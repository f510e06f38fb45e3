package reminder

// State collapses the dismissed flag and the nullable timestamps into an
// explicit four-state value so the transition function can be exhaustive.
type State int

const (
	StateDismissed State = iota
	StateUnvisited
	StateVisitedUnseen
	StateSeen
)

// Action is the persistence side effect a visit decision requires.
type Action int

const (
	ActionNone Action = iota
	ActionMarkFirstVisit
	ActionMarkBannerSeen
)

// Hint is the client-facing surfacing instruction.
type Hint string

const (
	HintNone     Hint = "NONE"
	HintDeferred Hint = "DEFERRED"
	HintBanner   Hint = "BANNER"
)

// StateOf derives the tagged state from a record snapshot.
func (r *Record) StateOf() State {
	switch {
	case r.Dismissed:
		return StateDismissed
	case r.FirstVisitAt == nil:
		return StateUnvisited
	case r.BannerSeenAt == nil:
		return StateVisitedUnseen
	default:
		return StateSeen
	}
}

// Decide maps a record snapshot to the action to persist and the hint to
// return. It is pure: the same snapshot always yields the same pair, whether
// the snapshot came from the cache or the durable store.
//
// The first visit of the day is recorded but deferred; the banner is only
// surfaced (and marked seen) from the second hit onward. Dismissal is
// terminal for the day.
func Decide(r *Record) (Action, Hint) {
	switch r.StateOf() {
	case StateDismissed:
		return ActionNone, HintNone
	case StateUnvisited:
		return ActionMarkFirstVisit, HintDeferred
	case StateVisitedUnseen:
		return ActionMarkBannerSeen, HintBanner
	default:
		return ActionNone, HintBanner
	}
}
