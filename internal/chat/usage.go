package chat

import "github.com/icanbwell/language-model-gateway/internal/agent"

// MergeUsage sums per-call usage fragments into a single total. An empty
// input yields the zero value, never nil semantics.
func MergeUsage(fragments []agent.Usage) agent.Usage {
	var total agent.Usage
	for _, fragment := range fragments {
		total.Add(fragment)
	}
	return total
}
