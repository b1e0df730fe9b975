package interview

import "fmt"

// State is a step of the interview state machine.
type State int

const (
	StateStart State = iota
	StateQuestioned
	StateAnswered
	StateUnreachable
	StateEvaluated
	StateSkipped
)

var stateNames = [...]string{
	StateStart:       "start",
	StateQuestioned:  "questioned",
	StateAnswered:    "answered",
	StateUnreachable: "unreachable",
	StateEvaluated:   "evaluated",
	StateSkipped:     "skipped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool { return s == StateEvaluated || s == StateSkipped }

// MarshalText encodes the state by name so results read well as JSON.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown interview state %q", b)
}
