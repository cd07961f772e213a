// Package chat implements the OpenAI-compatible chat completions surface:
// wire request/response types, conversion to and from model messages,
// structured-output negotiation, and the streaming event translator.
package chat

import (
	"encoding/json"
	"fmt"
)

// ChatRequest is the body of a chat completions call.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

// ResponseFormat selects plain text or JSON output.
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *JSONSchemaSpec `json:"json_schema,omitempty"`
}

// JSONSchemaSpec carries the schema for the json_schema response format.
type JSONSchemaSpec struct {
	Name   string          `json:"name,omitempty"`
	Schema json.RawMessage `json:"schema,omitempty"`
	Strict bool            `json:"strict,omitempty"`
}

// ContentPart is one element of an array-form message content.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Message is one wire conversation turn. Content accepts both the string
// form and the array-of-parts form clients send.
type Message struct {
	Role    string        `json:"role"`
	Content string        `json:"-"`
	Parts   []ContentPart `json:"-"`
	Name    string        `json:"name,omitempty"`
}

type wireMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Name    string          `json:"name,omitempty"`
}

// UnmarshalJSON decodes a message whose content is either a bare string or
// an array of typed parts.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.Role = wire.Role
	m.Name = wire.Name
	m.Content = ""
	m.Parts = nil
	if len(wire.Content) == 0 || string(wire.Content) == "null" {
		return nil
	}
	switch wire.Content[0] {
	case '"':
		return json.Unmarshal(wire.Content, &m.Content)
	case '[':
		return json.Unmarshal(wire.Content, &m.Parts)
	default:
		return fmt.Errorf("chat: message content must be a string or an array of parts")
	}
}

// MarshalJSON encodes the string form when no parts are present.
func (m Message) MarshalJSON() ([]byte, error) {
	wire := wireMessage{Role: m.Role, Name: m.Name}
	var err error
	if len(m.Parts) > 0 {
		wire.Content, err = json.Marshal(m.Parts)
	} else {
		wire.Content, err = json.Marshal(m.Content)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}
