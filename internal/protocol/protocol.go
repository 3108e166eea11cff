// Package protocol defines the JSON wire format between the office server
// and its clients: the message envelope, typed payloads for every inbound
// and outbound message, and schema validation for client input.
package protocol

import "encoding/json"

// Inbound message types (client to server).
const (
	TypeRoomJoin      = "room:join"
	TypeRoomLeave     = "room:leave"
	TypeActionPerform = "action:perform"
	TypeActionCancel  = "action:cancel"
	TypePlayerMove    = "player:move"
	TypePlayerSpeak   = "player:speak"
)

// Outbound message types (server to client).
const (
	TypeSnapshot     = "state:snapshot"
	TypeDelta        = "state:delta"
	TypeWeekly       = "event:weekly"
	TypeSpeech       = "char:speech"
	TypePlayerJoined = "room:playerJoined"
	TypePlayerLeft   = "room:playerLeft"
	TypeError        = "error"
)

// Envelope wraps every message on the wire. Data carries the type-specific
// payload and may be absent for messages with no body.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DecodeEnvelope parses the outer envelope without touching the payload.
func DecodeEnvelope(b []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(b, &e)
	return e, err
}

// Encode wraps a payload in an envelope and marshals it.
func Encode(msgType string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Envelope{Type: msgType, Data: data})
}
