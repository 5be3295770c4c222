package presence

import (
	"fmt"
	"strings"
	"time"
)

// State is a reported activity state.
type State string

const (
	StateIdle  State = "idle"
	StateWork  State = "work"
	StateThink State = "think"
	StateAlert State = "alert"
	StateSleep State = "sleep"
)

// ErrInvalidState is returned when a state name is not one of the five
// recognized values. Wrapped errors carry the offending name.
var ErrInvalidState = fmt.Errorf("invalid state")

// ValidStates returns the recognized states in display order.
func ValidStates() []State {
	return []State{StateIdle, StateWork, StateThink, StateAlert, StateSleep}
}

// ValidStateNames returns the recognized state names in display order.
func ValidStateNames() []string {
	states := ValidStates()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return names
}

// IsValid reports whether s is one of the five recognized states.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateWork, StateThink, StateAlert, StateSleep:
		return true
	}
	return false
}

// ParseState normalizes a user-supplied state name (trims whitespace,
// lowercases) and rejects anything that is not a recognized state.
func ParseState(name string) (State, error) {
	s := State(strings.ToLower(strings.TrimSpace(name)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, name)
	}
	return s, nil
}

// Record is the single persisted status tuple. One record exists at a time;
// every write replaces the previous one in full.
type Record struct {
	State     State  `json:"state"`
	Message   string `json:"message"`
	UpdatedAt int64  `json:"updated"` // unix seconds, stamped at write time
}

// NewRecord builds a record stamped at now.
func NewRecord(state State, message string, now time.Time) Record {
	return Record{
		State:     state,
		Message:   strings.TrimSpace(message),
		UpdatedAt: now.Unix(),
	}
}

// BootstrapRecord is the default used when no record has ever been written,
// or when the persisted one cannot be read. start is the reader's start
// time, so a missing record begins a fresh decay countdown instead of
// rendering as instantly stale.
func BootstrapRecord(start time.Time) Record {
	return Record{State: StateIdle, Message: "", UpdatedAt: start.Unix()}
}

// Updated returns the record timestamp as a time.Time.
func (r Record) Updated() time.Time {
	return time.Unix(r.UpdatedAt, 0)
}
