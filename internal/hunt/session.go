package hunt

// State is a step of the hunt conversation.
type State string

const (
	// StateIdle means no round is in progress. It is the zero value.
	StateIdle State = ""
	// StateGettingLocation waits for a radius and then for the origin location.
	StateGettingLocation State = "getting_location"
	// StateWaitingForReach holds an issued target; the user may check proximity.
	StateWaitingForReach State = "waiting_for_reach"

	// AnyState marks dispatch routes valid in every state.
	AnyState State = "*"
)

// String returns the state name, "idle" for the zero value.
func (s State) String() string {
	if s == StateIdle {
		return "idle"
	}
	return string(s)
}

// Session is the per-conversation record of one round. The zero value is an
// idle session with no data.
type Session struct {
	State   State
	Radius  int
	Target  *Coordinate
	RoundID string
}

// HasRadius reports whether a radius has been stored for the round.
func (s Session) HasRadius() bool {
	return s.Radius > 0
}
