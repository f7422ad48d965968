package game

import (
	"encoding/json"
	"fmt"
)

// Message type for WebSocket communication between client and server.
type MessageType string

const (
	MsgTypeJoin   MessageType = "join"   // Client wants to join (or create) a session
	MsgTypeState  MessageType = "state"  // Server sends a full board snapshot
	MsgTypeTap    MessageType = "tap"    // Client taps a card
	MsgTypeResize MessageType = "resize" // Client changes the pair count
	MsgTypeReset  MessageType = "reset"  // Client restarts with the same pair count
	MsgTypeError  MessageType = "error"  // Server sends an error message
)

// WsMessage represents a WebSocket message.
type WsMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWsMessage creates a new WsMessage with a marshaled payload.
func NewWsMessage(msgType MessageType, payload interface{}) (WsMessage, error) {
	if payload == nil {
		return WsMessage{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return WsMessage{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return WsMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

// Parse unmarshals the message payload into one of the message types
// (JoinMessage, StateMessage, etc.)
func (m *WsMessage) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeJoin:
		target = &JoinMessage{}
	case MsgTypeState:
		target = &StateMessage{}
	case MsgTypeTap:
		target = &TapMessage{}
	case MsgTypeResize:
		target = &ResizeMessage{}
	case MsgTypeReset:
		target = &ResetMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// JoinMessage is the payload for MsgTypeJoin. PairCount only applies when
// the session does not exist yet.
type JoinMessage struct {
	SessionID string `json:"session_id"`
	PairCount int    `json:"pair_count"`
}

// StateMessage is the payload for MsgTypeState
type StateMessage struct {
	State Snapshot `json:"state"`
}

// TapMessage is the payload for MsgTypeTap
type TapMessage struct {
	Index int `json:"index"` // Board index of the tapped card
}

// ResizeMessage is the payload for MsgTypeResize
type ResizeMessage struct {
	PairCount int `json:"pair_count"`
}

// ResetMessage: empty.
type ResetMessage struct{}

// ErrorMessage is the payload for MsgTypeError
type ErrorMessage struct {
	Message string `json:"message"`
}
