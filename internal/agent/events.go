package agent

// EventKind enumerates the execution events emitted during a streaming run.
// The set is closed: consumers switch over it exhaustively and ignore
// EventOther.
type EventKind int

const (
	// EventChainStart marks the beginning of a run.
	EventChainStart EventKind = iota
	// EventChainStream carries intermediate chain output. It duplicates what
	// EventModelStream already delivers, so consumers suppress it.
	EventChainStream
	// EventModelStream carries one content delta from the chat model.
	EventModelStream
	// EventChainEnd marks the end of a run and carries the final usage totals.
	EventChainEnd
	// EventToolStart is emitted immediately before a tool executes.
	EventToolStart
	// EventToolEnd is emitted after a tool finished, carrying its output and
	// optional artifact.
	EventToolEnd
	// EventOther is reserved for events consumers should ignore.
	EventOther
)

// Event is one tagged execution event. Only the fields relevant to the Kind
// are populated.
type Event struct {
	Kind EventKind

	// Delta is the model content delta for EventModelStream.
	Delta string
	// Usage carries token usage for EventModelStream (when the provider
	// reports per-chunk usage) and the accumulated totals for EventChainEnd.
	Usage *Usage

	// ToolName and ToolInput describe the tool invocation for EventToolStart.
	ToolName  string
	ToolInput string
	// ToolOutput and Artifact describe the result for EventToolEnd.
	ToolOutput string
	Artifact   string
}

// Usage holds token counts reported by the model provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Add accumulates another usage fragment into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
