package chat

import (
	"strings"

	"github.com/tiktoken-go/tokenizer"
	"github.com/tmc/langchaingo/llms"
)

// EstimatePromptTokens approximates the prompt token count of a request for
// logging. It is an estimate only: providers report authoritative usage in
// their responses. Unknown models fall back to the cl100k_base encoding.
func EstimatePromptTokens(model string, messages []llms.MessageContent) int {
	enc, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		enc, err = tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			return 0
		}
	}
	var sb strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				sb.WriteString(text.Text)
				sb.WriteString("\n")
			}
		}
	}
	count, err := enc.Count(sb.String())
	if err != nil {
		return 0
	}
	return count
}
