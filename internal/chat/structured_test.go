package chat

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNegotiate_NilFormatNoOp(t *testing.T) {
	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "hi")}
	out, err := Negotiate(messages, nil)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("Expected unchanged messages, got %d", len(out))
	}
}

func TestNegotiate_JSONObjectAppendsInstruction(t *testing.T) {
	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "hi")}
	out, err := Negotiate(messages, &ResponseFormat{Type: "json_object"})
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected appended instruction, got %d messages", len(out))
	}
	last := out[len(out)-1]
	if last.Role != llms.ChatMessageTypeSystem {
		t.Errorf("Expected system instruction, got role %s", last.Role)
	}
	text := last.Parts[0].(llms.TextContent).Text
	if !strings.Contains(text, "<json>") {
		t.Errorf("Expected delimiter instruction, got %q", text)
	}
}

func TestNegotiate_JSONSchemaIncludesSchema(t *testing.T) {
	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "hi")}
	format := &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchemaSpec{
			Name:   "answer",
			Schema: json.RawMessage(`{"type":"object","properties":{"answer":{"type":"string"}}}`),
		},
	}
	out, err := Negotiate(messages, format)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	text := out[len(out)-1].Parts[0].(llms.TextContent).Text
	if !strings.Contains(text, `"properties"`) {
		t.Errorf("Expected schema in instruction, got %q", text)
	}
}

func TestNegotiate_MissingSchema(t *testing.T) {
	_, err := Negotiate(nil, &ResponseFormat{Type: "json_schema"})
	if !errors.Is(err, ErrMissingSchema) {
		t.Fatalf("Expected ErrMissingSchema, got %v", err)
	}
}

func TestNegotiate_UnknownFormat(t *testing.T) {
	_, err := Negotiate(nil, &ResponseFormat{Type: "xml"})
	if !errors.Is(err, ErrUnsupportedResponseFormat) {
		t.Fatalf("Expected ErrUnsupportedResponseFormat, got %v", err)
	}
}

func TestExtractStructured_DelimitedBlock(t *testing.T) {
	text := "Here you go:\n<json>{\"a\":1}</json>\nThanks!"
	out, err := ExtractStructured(text)
	if err != nil {
		t.Fatalf("ExtractStructured returned error: %v", err)
	}
	if out != `{"a":1}` {
		t.Errorf("Expected delimited JSON, got %q", out)
	}
}

func TestExtractStructured_LastBlockWins(t *testing.T) {
	text := "<json>{\"draft\":true}</json> revised: <json>{\"draft\":false}</json>"
	out, err := ExtractStructured(text)
	if err != nil {
		t.Fatalf("ExtractStructured returned error: %v", err)
	}
	if out != `{"draft":false}` {
		t.Errorf("Expected last block, got %q", out)
	}
}

func TestExtractStructured_WholeTextFallback(t *testing.T) {
	out, err := ExtractStructured(`  {"bare":true} `)
	if err != nil {
		t.Fatalf("ExtractStructured returned error: %v", err)
	}
	if out != `{"bare":true}` {
		t.Errorf("Expected trimmed whole text, got %q", out)
	}
}

func TestExtractStructured_NoJSON(t *testing.T) {
	_, err := ExtractStructured("sorry, I cannot answer in JSON")
	if !errors.Is(err, ErrNoStructuredOutput) {
		t.Fatalf("Expected ErrNoStructuredOutput, got %v", err)
	}
}
