// Package state defines the interview session lifecycle.
package state

import "errors"

// State represents the lifecycle state of an interview session.
type State string

const (
	// StateBootstrapping means no turns exist yet; the opening question is pending.
	StateBootstrapping State = "bootstrapping"
	// StateActive means turns exist and the session accepts exchanges.
	StateActive State = "active"
	// StateFinalizing means summary generation is in flight.
	StateFinalizing State = "finalizing"
	// StateFinalized means the summary is persisted. Terminal.
	StateFinalized State = "finalized"
)

// ErrInvalidTransition is returned when a state transition is not allowed.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidTransitions defines allowed state transitions.
var ValidTransitions = map[State][]State{
	StateBootstrapping: {StateActive},
	StateActive:        {StateFinalizing},
	// Synthesis failure drops the session back to active so finalize can be retried.
	StateFinalizing: {StateFinalized, StateActive},
	StateFinalized:  {},
}

// IsTerminal returns true if the state admits no further transitions.
func (s State) IsTerminal() bool {
	return s == StateFinalized
}

// AcceptsExchange returns true if the session may process a user turn.
func (s State) AcceptsExchange() bool {
	return s == StateActive
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from the current state to target is valid.
func (s State) CanTransitionTo(target State) bool {
	validTargets, ok := ValidTransitions[s]
	if !ok {
		return false
	}
	for _, t := range validTargets {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target state and returns an error if invalid.
func (s State) TransitionTo(target State) (State, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
