package player

import (
	"errors"
	"fmt"
)

// State is the animation/logic state of the player.
type State int

const (
	Disabled State = iota
	Grounded
	JumpRising
	Falling
	Dying
)

var stateNames = [...]string{
	Disabled:   "disabled",
	Grounded:   "grounded",
	JumpRising: "jump_rising",
	Falling:    "falling",
	Dying:      "dying",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// transitions lists the moves the player makes on its own.
// Dying and Disabled are only reachable through Force.
var transitions = map[State][]State{
	Disabled:   {Grounded},
	Grounded:   {JumpRising, Falling},
	JumpRising: {Falling, Grounded},
	Falling:    {Grounded},
}

// ErrIllegalTransition is returned for a move the transition table does not allow.
var ErrIllegalTransition = errors.New("illegal player state transition")

// Machine tracks the current and previous player state.
type Machine struct {
	current  State
	previous State
}

// NewMachine returns a machine in the given state.
func NewMachine(initial State) *Machine {
	return &Machine{current: initial, previous: initial}
}

// Current returns the current state.
func (m *Machine) Current() State { return m.current }

// Previous returns the state before the last change.
func (m *Machine) Previous() State { return m.previous }

// Is reports whether the machine is in s.
func (m *Machine) Is(s State) bool { return m.current == s }

// CanTransitionTo reports whether the table allows moving to s.
func (m *Machine) CanTransitionTo(s State) bool {
	for _, t := range transitions[m.current] {
		if t == s {
			return true
		}
	}
	return false
}

// Transition moves to s. Moving to the current state is a no-op.
func (m *Machine) Transition(s State) error {
	if m.current == s {
		return nil
	}
	if !m.CanTransitionTo(s) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.current, s)
	}
	m.previous, m.current = m.current, s
	return nil
}

// Force moves to Dying or Disabled from any state. It is how the game-state
// layer kills or parks the player; forcing any other state is an error.
func (m *Machine) Force(s State) error {
	if s != Dying && s != Disabled {
		return fmt.Errorf("%w: cannot force %s", ErrIllegalTransition, s)
	}
	if m.current == s {
		return nil
	}
	m.previous, m.current = m.current, s
	return nil
}
