// Package domain contains core concepts of the driver CMS.
// This file defines the Application Message envelope carried over the socket.
// The envelope is forwarded opaquely: only Type is ever inspected.
package domain

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	DriverBroadcast MessageType = "DRIVER_BROADCAST"
	OrderUpdated    MessageType = "ORDER_UPDATED"
	ChatMessageType MessageType = "CHAT_MESSAGE"
)

// Message is the only unit placed on the wire: {"type": ..., "payload": ...}.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage serializes payload into a Message of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: raw}, nil
}

// Encode returns the UTF-8 JSON text of the message.
func (m Message) Encode() ([]byte, error) {
	if m.Payload == nil {
		m.Payload = json.RawMessage("null")
	}
	return json.Marshal(m)
}

// DecodeMessage parses a text frame payload into a Message.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

// Unmarshal decodes the payload into v.
func (m Message) Unmarshal(v any) error {
	return json.Unmarshal(m.Payload, v)
}
