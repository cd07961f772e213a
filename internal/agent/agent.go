// Package agent implements a bounded model+tool execution loop. The model is
// invoked with the current history; when it requests tool calls, the tools
// execute and their results are appended to the history, and the loop repeats
// until the model answers without tools or the step budget runs out.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/icanbwell/language-model-gateway/internal/tools"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
)

// DefaultMaxSteps bounds model invocations per run unless overridden.
const DefaultMaxSteps = 10

// Message is one conversation turn produced by a run.
type Message struct {
	// Role is ChatMessageTypeAI for assistant turns and ChatMessageTypeTool
	// for tool turns.
	Role llms.ChatMessageType
	// Content is the turn's text. For tool turns that failed this holds the
	// error text so the model can react to it.
	Content string
	// ToolName is set for tool turns.
	ToolName string
	// Usage is the provider-reported usage for the model call that produced
	// this turn; nil for tool turns and when the provider reported nothing.
	Usage *Usage
}

// Agent is an executable model+tool loop built for a single model handle.
type Agent struct {
	model    llms.Model
	tools    []tools.Tool
	llmTools []llms.Tool
	callOpts []llms.CallOption
	maxSteps int
}

// Option customises agent construction.
type Option func(*Agent)

// WithMaxSteps overrides the model-invocation budget for runs of this agent.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithCallOptions forwards extra options, such as temperature or max tokens,
// to every model invocation.
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(a *Agent) {
		a.callOpts = append(a.callOpts, opts...)
	}
}

// New builds an agent over the given model and tool set. With zero tools the
// agent is a plain model loop that answers in a single step.
func New(model llms.Model, toolSet []tools.Tool, opts ...Option) *Agent {
	a := &Agent{
		model:    model,
		tools:    toolSet,
		maxSteps: DefaultMaxSteps,
	}
	for _, tool := range toolSet {
		a.llmTools = append(a.llmTools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.InputSchema(),
			},
		})
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the loop to completion and returns the produced assistant and
// tool turns in order. A model failure aborts the run; a tool failure is
// folded into the conversation as a tool turn carrying the error text.
func (a *Agent) Run(ctx context.Context, state *State) ([]Message, error) {
	return a.run(ctx, state, nil)
}

// StreamEvents executes the loop while emitting execution events. The event
// channel is closed when the run finishes; a fatal error is delivered on the
// error channel before the event channel closes.
func (a *Agent) StreamEvents(ctx context.Context, state *State) (<-chan Event, <-chan error) {
	events := make(chan Event)
	errs := make(chan error, 1)
	go func() {
		defer close(events)
		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		emit(Event{Kind: EventChainStart})
		_, err := a.run(ctx, state, emit)
		if err != nil {
			errs <- err
			close(errs)
			return
		}
		// Only attach usage when some model call actually reported it.
		var endUsage *Usage
		if state.usageReported {
			endUsage = state.Usage
		}
		emit(Event{Kind: EventChainEnd, Usage: endUsage})
		close(errs)
	}()
	return events, errs
}

// run drives the loop. When emit is non-nil the model call streams content
// deltas and tool execution is bracketed by tool events.
func (a *Agent) run(ctx context.Context, state *State, emit func(Event) bool) ([]Message, error) {
	if state.RemainingSteps <= 0 {
		state.RemainingSteps = a.maxSteps
	}

	var out []Message
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state.IsLastStep = state.RemainingSteps <= 1

		opts := a.callOptions(emit)
		resp, err := a.model.GenerateContent(ctx, state.Messages, opts...)
		if err != nil {
			return nil, fmt.Errorf("agent: model invocation failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("agent: model returned no choices")
		}
		choice := resp.Choices[0]
		usage := usageFromGenerationInfo(choice.GenerationInfo)
		if usage != nil {
			state.Usage.Add(*usage)
			state.usageReported = true
		}

		if len(choice.ToolCalls) == 0 || state.IsLastStep {
			state.Messages = append(state.Messages, llms.TextParts(llms.ChatMessageTypeAI, choice.Content))
			out = append(out, Message{Role: llms.ChatMessageTypeAI, Content: choice.Content, Usage: usage})
			return out, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		if choice.Content != "" {
			assistant.Parts = append(assistant.Parts, llms.TextContent{Text: choice.Content})
		}
		for _, call := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, call)
		}
		state.Messages = append(state.Messages, assistant)
		out = append(out, Message{Role: llms.ChatMessageTypeAI, Content: choice.Content, Usage: usage})

		for _, call := range choice.ToolCalls {
			if call.FunctionCall == nil {
				continue
			}
			name := call.FunctionCall.Name
			input := call.FunctionCall.Arguments
			if emit != nil {
				if !emit(Event{Kind: EventToolStart, ToolName: name, ToolInput: input}) {
					return nil, ctx.Err()
				}
			}
			content, artifact := a.invokeTool(ctx, name, input)
			if emit != nil {
				if !emit(Event{Kind: EventToolEnd, ToolName: name, ToolOutput: content, Artifact: artifact}) {
					return nil, ctx.Err()
				}
			}
			state.Messages = append(state.Messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: call.ID,
					Name:       name,
					Content:    content,
				}},
			})
			out = append(out, Message{Role: llms.ChatMessageTypeTool, ToolName: name, Content: content})
		}

		state.RemainingSteps--
	}
}

func (a *Agent) callOptions(emit func(Event) bool) []llms.CallOption {
	opts := append([]llms.CallOption(nil), a.callOpts...)
	if len(a.llmTools) > 0 {
		opts = append(opts, llms.WithTools(a.llmTools))
	}
	if emit != nil {
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			if !emit(Event{Kind: EventModelStream, Delta: string(chunk)}) {
				return ctx.Err()
			}
			return nil
		}))
	}
	return opts
}

// invokeTool executes the named tool. Failures do not abort the run; the
// error text becomes the tool turn so the model gets a chance to recover.
func (a *Agent) invokeTool(ctx context.Context, name, input string) (content string, artifact string) {
	for _, tool := range a.tools {
		if tool.Name() != name {
			continue
		}
		result, art, err := tool.Call(ctx, input)
		if err != nil {
			log.WithField("tool", name).Warnf("agent: tool execution failed: %v", err)
			return fmt.Sprintf("Error: %v", err), ""
		}
		return result, art
	}
	log.WithField("tool", name).Warn("agent: model requested unknown tool")
	return fmt.Sprintf("Error: unknown tool %q", name), ""
}

// usageFromGenerationInfo extracts provider-reported token usage. Providers
// that report nothing yield nil so callers can distinguish "no data" from
// zero tokens.
func usageFromGenerationInfo(info map[string]any) *Usage {
	if len(info) == 0 {
		return nil
	}
	prompt, okPrompt := intFromInfo(info, "PromptTokens")
	completion, okCompletion := intFromInfo(info, "CompletionTokens")
	total, okTotal := intFromInfo(info, "TotalTokens")
	if !okPrompt && !okCompletion && !okTotal {
		return nil
	}
	if !okTotal {
		total = prompt + completion
	}
	return &Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
}

func intFromInfo(info map[string]any, key string) (int, bool) {
	value, ok := info[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
