package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/llms"
)

// Structured output rides on prompt steering: the model is told to wrap its
// JSON answer in <json></json> delimiters and the final text is mined for
// the last delimited block.
const (
	jsonOpenTag  = "<json>"
	jsonCloseTag = "</json>"
)

var (
	// ErrMissingSchema is returned for a json_schema format without a schema.
	ErrMissingSchema = errors.New("chat: response_format json_schema requires a schema")
	// ErrUnsupportedResponseFormat is returned for unknown format types.
	ErrUnsupportedResponseFormat = errors.New("chat: unsupported response_format type")
	// ErrNoStructuredOutput is returned when the model text contains no
	// parseable JSON despite a JSON response format being requested.
	ErrNoStructuredOutput = errors.New("chat: model produced no structured output")
)

// Negotiate inspects the requested response format and, for JSON modes,
// appends a system instruction steering the model toward delimited JSON.
// A nil format is a no-op. The returned messages share the input backing
// array only when nothing was appended.
func Negotiate(messages []llms.MessageContent, format *ResponseFormat) ([]llms.MessageContent, error) {
	if format == nil || format.Type == "" || format.Type == "text" {
		return messages, nil
	}
	switch format.Type {
	case "json_object":
		instruction := fmt.Sprintf(
			"Respond only with a valid JSON object. Wrap the JSON in %s and %s tags with no other text between the tags.",
			jsonOpenTag, jsonCloseTag)
		return append(messages, llms.TextParts(llms.ChatMessageTypeSystem, instruction)), nil
	case "json_schema":
		if format.JSONSchema == nil || len(format.JSONSchema.Schema) == 0 {
			return nil, ErrMissingSchema
		}
		instruction := fmt.Sprintf(
			"Respond only with a valid JSON object conforming to this JSON Schema:\n%s\nWrap the JSON in %s and %s tags with no other text between the tags.",
			string(format.JSONSchema.Schema), jsonOpenTag, jsonCloseTag)
		return append(messages, llms.TextParts(llms.ChatMessageTypeSystem, instruction)), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedResponseFormat, format.Type)
	}
}

// WantsJSON reports whether the format requests a JSON response mode.
func WantsJSON(format *ResponseFormat) bool {
	return format != nil && (format.Type == "json_object" || format.Type == "json_schema")
}

// ExtractStructured pulls the JSON payload out of the model's final text.
// The last <json></json> block wins; when no block is present the whole
// text is tried as JSON before giving up.
func ExtractStructured(text string) (string, error) {
	candidate := lastDelimitedBlock(text)
	if candidate == "" {
		candidate = strings.TrimSpace(text)
	}
	if candidate != "" && gjson.Valid(candidate) {
		parsed := gjson.Parse(candidate)
		if parsed.IsObject() || parsed.IsArray() {
			return candidate, nil
		}
	}
	return "", ErrNoStructuredOutput
}

func lastDelimitedBlock(text string) string {
	open := strings.LastIndex(text, jsonOpenTag)
	if open < 0 {
		return ""
	}
	rest := text[open+len(jsonOpenTag):]
	closeIdx := strings.Index(rest, jsonCloseTag)
	if closeIdx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:closeIdx])
}
