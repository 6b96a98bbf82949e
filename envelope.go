package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Envelope types carried in the "type" field.
const (
	TypeHello      = "hello"
	TypeGroup      = "group"
	TypeNameChange = "namechange"
)

var (
	ErrInvalidEncoding = errors.New("envelope: payload is not valid UTF-8")
	ErrMissingType     = errors.New("envelope: missing type")
)

// Envelope is the message sent in every datagram. Which of the optional
// fields are set depends on Type.
type Envelope struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Text     string `json:"text,omitempty"` // group
	Old      string `json:"old,omitempty"`  // namechange
	New      string `json:"new,omitempty"`  // namechange
}

// NewHello returns a presence announcement.
func NewHello() Envelope {
	return Envelope{Type: TypeHello}
}

// NewGroup returns a chat line addressed to everyone on the port.
func NewGroup(text string) Envelope {
	return Envelope{Type: TypeGroup, Text: text}
}

// NewNameChange returns a notice that the sender renamed itself.
func NewNameChange(oldName, newName string) Envelope {
	return Envelope{Type: TypeNameChange, Old: oldName, New: newName}
}

// Encode serializes e into a single datagram payload.
func Encode(e Envelope) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	return data, nil
}

// Decode parses a datagram payload. Unknown types decode fine and are left
// for the caller to ignore.
func Decode(data []byte) (Envelope, error) {
	if !utf8.Valid(data) {
		return Envelope{}, ErrInvalidEncoding
	}

	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("envelope: %w", err)
	}
	if e.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return e, nil
}
