package chat

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ErrUnsupportedRole is returned when a request carries a role outside the
// system/user/assistant/tool set.
var ErrUnsupportedRole = fmt.Errorf("chat: unsupported message role")

// ErrUnsupportedContentPart is returned when a message carries a non-text
// content part.
var ErrUnsupportedContentPart = fmt.Errorf("chat: unsupported content part type")

// ToModelMessages converts wire messages into the model message form.
// Array-form content is flattened by concatenating its text parts.
func ToModelMessages(messages []Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages))
	for i, msg := range messages {
		role, err := modelRole(msg.Role)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w %q", i, ErrUnsupportedRole, msg.Role)
		}
		text, err := flattenContent(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, llms.TextParts(role, text))
	}
	return out, nil
}

func modelRole(role string) (llms.ChatMessageType, error) {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem, nil
	case "user":
		return llms.ChatMessageTypeHuman, nil
	case "assistant":
		return llms.ChatMessageTypeAI, nil
	case "tool":
		return llms.ChatMessageTypeTool, nil
	default:
		return "", ErrUnsupportedRole
	}
}

func flattenContent(msg Message) (string, error) {
	if len(msg.Parts) == 0 {
		return msg.Content, nil
	}
	var sb strings.Builder
	for _, part := range msg.Parts {
		if part.Type != "text" {
			return "", fmt.Errorf("%w %q", ErrUnsupportedContentPart, part.Type)
		}
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// WireRole maps a model message role back to its wire name. Unknown roles
// degrade to assistant rather than failing a response mid-flight.
func WireRole(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return "system"
	case llms.ChatMessageTypeHuman:
		return "user"
	case llms.ChatMessageTypeTool:
		return "tool"
	default:
		return "assistant"
	}
}
