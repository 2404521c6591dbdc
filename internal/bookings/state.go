package bookings

import (
	"fmt"

	"shareit-backend/internal/platform/apperr"
)

// State is the logical filter for booking lists: a time relation against
// "now" (CURRENT/PAST/FUTURE), a literal status, or ALL.
type State string

const (
	StateAll     State = "ALL"
	StateCurrent State = "CURRENT"
	StatePast    State = "PAST"
	StateFuture  State = "FUTURE"
)

func ParseState(raw string) (State, error) {
	switch raw {
	case "", string(StateAll):
		return StateAll, nil
	case string(StateCurrent), string(StatePast), string(StateFuture):
		return State(raw), nil
	case string(StatusWaiting), string(StatusApproved), string(StatusRejected):
		return State(raw), nil
	default:
		return "", apperr.BadRequest(fmt.Sprintf("Unknown state: %s", raw))
	}
}

func (s State) status() (Status, bool) {
	switch s {
	case State(StatusWaiting), State(StatusApproved), State(StatusRejected):
		return Status(s), true
	default:
		return "", false
	}
}
