package server

import (
	"encoding/json"
	"fmt"
)

// Message types on the play websocket.
const (
	MsgInput = "input"
	MsgFrame = "frame"
	MsgEvent = "event"
	MsgError = "error"
)

// Client input actions.
const (
	ActionStartJump        = "start_jump"
	ActionStopJump         = "stop_jump"
	ActionPause            = "pause"
	ActionResume           = "resume"
	ActionRestart          = "restart"
	ActionNextLevel        = "next_level"
	ActionDebug            = "debug"
	ActionTeleportForward  = "teleport_forward"
	ActionTeleportBackward = "teleport_backward"
)

// Envelope wraps every websocket message.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Input is the payload of an input message.
type Input struct {
	Action string `json:"action"`
	Fast   bool   `json:"fast,omitempty"`
}

// Event reports a game state change.
type Event struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Level    int    `json:"level"`
	Distance int    `json:"distance"`
}

// ErrorPayload reports a rejected input.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encoding envelope: empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("encoding envelope %q: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %q payload: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses the outer envelope of a message.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decoding envelope: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	return e, nil
}

// DecodePayload parses the payload of env into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
