package agent

import "github.com/tmc/langchaingo/llms"

// State is the mutable run-time state threaded through one agent run. It is
// created per request and never shared across requests.
type State struct {
	// Messages is the ordered conversation history fed to the model.
	Messages []llms.MessageContent
	// AuthToken is a placeholder for a per-request credential passed to tools.
	AuthToken string
	// IsLastStep is set when the remaining step budget forces a final answer.
	IsLastStep bool
	// RemainingSteps is the remaining model-invocation budget.
	RemainingSteps int
	// Usage accumulates token usage across all model calls in this run.
	Usage *Usage
	// StructuredResponse is scratch space for structured-output post-processing.
	StructuredResponse map[string]any

	// usageReported records whether any model call returned a usage fragment,
	// so consumers can tell "no data" from an all-zero total.
	usageReported bool
}

// NewState creates the initial state for a run over the given history.
func NewState(messages []llms.MessageContent) *State {
	return &State{
		Messages:           messages,
		Usage:              &Usage{},
		StructuredResponse: map[string]any{},
	}
}
