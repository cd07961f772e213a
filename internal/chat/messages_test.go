package chat

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestToModelMessages_StringContent(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "tool", Content: "result"},
	}
	out, err := ToModelMessages(messages)
	if err != nil {
		t.Fatalf("ToModelMessages returned error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(out))
	}
	expectedRoles := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeTool,
	}
	for i, role := range expectedRoles {
		if out[i].Role != role {
			t.Errorf("Message %d: expected role %s, got %s", i, role, out[i].Role)
		}
	}
	text, ok := out[1].Parts[0].(llms.TextContent)
	if !ok || text.Text != "hello" {
		t.Errorf("Expected text part %q, got %+v", "hello", out[1].Parts[0])
	}
}

func TestToModelMessages_UnsupportedRole(t *testing.T) {
	_, err := ToModelMessages([]Message{{Role: "observer", Content: "watching"}})
	if !errors.Is(err, ErrUnsupportedRole) {
		t.Fatalf("Expected ErrUnsupportedRole, got %v", err)
	}
}

func TestToModelMessages_PartsConcatenated(t *testing.T) {
	messages := []Message{{
		Role: "user",
		Parts: []ContentPart{
			{Type: "text", Text: "first "},
			{Type: "text", Text: "second"},
		},
	}}
	out, err := ToModelMessages(messages)
	if err != nil {
		t.Fatalf("ToModelMessages returned error: %v", err)
	}
	text := out[0].Parts[0].(llms.TextContent)
	if text.Text != "first second" {
		t.Errorf("Expected concatenated text, got %q", text.Text)
	}
}

func TestToModelMessages_UnsupportedPart(t *testing.T) {
	messages := []Message{{
		Role:  "user",
		Parts: []ContentPart{{Type: "image_url"}},
	}}
	_, err := ToModelMessages(messages)
	if !errors.Is(err, ErrUnsupportedContentPart) {
		t.Fatalf("Expected ErrUnsupportedContentPart, got %v", err)
	}
}

func TestMessageUnmarshal_StringAndParts(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"role":"user","content":"plain"}`), &msg); err != nil {
		t.Fatalf("Unmarshal string content failed: %v", err)
	}
	if msg.Content != "plain" || len(msg.Parts) != 0 {
		t.Errorf("Unexpected message: %+v", msg)
	}

	raw := `{"role":"user","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}`
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("Unmarshal parts content failed: %v", err)
	}
	if len(msg.Parts) != 2 || msg.Parts[1].Text != "b" {
		t.Errorf("Unexpected parts: %+v", msg.Parts)
	}
}

func TestMessageUnmarshal_InvalidContent(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"role":"user","content":42}`), &msg); err == nil {
		t.Fatal("Expected error for numeric content")
	}
}
