package model

// PrestigeEvent :
// The canonical prestige mutation, per spec.md §4.10: every system that
// produces prestige emits one of these rather than mutating House.Prestige
// directly, so the prestige engine can apply dynamic scaling uniformly
// and so combat's zero-sum property can be checked by summing deltas.
type PrestigeEvent struct {
	House  HouseID
	Amount int
	Source PrestigeSource
	// SubjectID optionally names the entity the prestige swing concerns
	// (a destroyed squadron, a colony), 0 if not applicable.
	SubjectID uint32
}

// Event :
// A single in-game occurrence surfaced to one or more houses' reports.
// Resolution anomalies (§7) become these rather than errors: a fleet
// routed to a destroyed colony, a build host destroyed mid-project, a
// failed colonization race. `Visibility` names which houses should see
// it; an empty slice means "public" (leaderboard-level visibility).
type Event struct {
	Turn       int
	Phase      string
	Kind       string
	Message    string
	Visibility []HouseID
	Refs       []uint32
}

// NewEvent builds an event visible only to the listed houses.
func NewEvent(turn int, phase, kind, message string, visibility []HouseID, refs ...uint32) Event {
	return Event{Turn: turn, Phase: phase, Kind: kind, Message: message, Visibility: visibility, Refs: refs}
}
