package chat

import (
	"testing"

	"github.com/icanbwell/language-model-gateway/internal/agent"
)

func TestMergeUsage_Empty(t *testing.T) {
	total := MergeUsage(nil)
	if total.PromptTokens != 0 || total.CompletionTokens != 0 || total.TotalTokens != 0 {
		t.Errorf("Expected zero usage, got %+v", total)
	}
}

func TestMergeUsage_Sums(t *testing.T) {
	fragments := []agent.Usage{
		{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}
	total := MergeUsage(fragments)
	if total.PromptTokens != 13 {
		t.Errorf("Expected 13 prompt tokens, got %d", total.PromptTokens)
	}
	if total.CompletionTokens != 7 {
		t.Errorf("Expected 7 completion tokens, got %d", total.CompletionTokens)
	}
	if total.TotalTokens != 20 {
		t.Errorf("Expected 20 total tokens, got %d", total.TotalTokens)
	}

	reversed := MergeUsage([]agent.Usage{fragments[1], fragments[0]})
	if reversed != total {
		t.Errorf("Expected order-independent merge, got %+v vs %+v", reversed, total)
	}
}
