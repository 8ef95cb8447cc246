package syncagent

import "fmt"

// State is the agent's position in a reconcile run.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateReconciling
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateReconciling:
		return "reconciling"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "fetching":
		*s = StateFetching
	case "reconciling":
		*s = StateReconciling
	default:
		return fmt.Errorf("unknown sync state %q", text)
	}
	return nil
}
