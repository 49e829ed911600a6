package session

import (
	"errors"
	"fmt"
)

// State is the outer game state around a level.
type State int

const (
	MainMenu State = iota
	LevelSelect
	Playing
	Paused
	GameOver
	LevelComplete
)

var stateNames = [...]string{
	MainMenu:      "main_menu",
	LevelSelect:   "level_select",
	Playing:       "playing",
	Paused:        "paused",
	GameOver:      "game_over",
	LevelComplete: "level_complete",
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

var transitions = map[State][]State{
	MainMenu:      {Playing, LevelSelect},
	LevelSelect:   {MainMenu},
	Playing:       {Paused, GameOver, LevelComplete},
	Paused:        {Playing, MainMenu},
	GameOver:      {Playing, MainMenu},
	LevelComplete: {Playing, MainMenu},
}

// ErrIllegalTransition is returned for a move the transition table does not allow.
var ErrIllegalTransition = errors.New("illegal game state transition")

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
