package chat

import (
	"context"
	"strings"

	"github.com/icanbwell/language-model-gateway/internal/agent"
	"github.com/icanbwell/language-model-gateway/internal/modelconfig"
	"github.com/icanbwell/language-model-gateway/internal/tools"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
)

// ModelResolver looks up a configured model by its public identifier and
// returns an invocable handle plus its configuration.
type ModelResolver interface {
	Resolve(ctx context.Context, id string) (llms.Model, *modelconfig.ChatModelConfig, error)
}

// Orchestrator ties a request to a configured model and agent and drives
// the completion, in both buffered and streaming form.
type Orchestrator struct {
	models   ModelResolver
	registry *tools.Registry
	maxSteps int
}

// NewOrchestrator builds an orchestrator. maxSteps caps agent iterations
// per request; zero selects the agent default.
func NewOrchestrator(models ModelResolver, registry *tools.Registry, maxSteps int) *Orchestrator {
	return &Orchestrator{models: models, registry: registry, maxSteps: maxSteps}
}

// prepare resolves the model and converts the request into an initial agent
// state with configured system prompts prepended and the response format
// negotiated.
func (o *Orchestrator) prepare(ctx context.Context, req *ChatRequest) (*agent.Agent, *agent.State, *modelconfig.ChatModelConfig, error) {
	model, cfg, err := o.models.Resolve(ctx, req.Model)
	if err != nil {
		return nil, nil, nil, err
	}

	history, err := ToModelMessages(req.Messages)
	if err != nil {
		return nil, nil, nil, err
	}

	messages := make([]llms.MessageContent, 0, len(cfg.SystemPrompts)+len(history))
	for _, prompt := range cfg.SystemPrompts {
		role, err := modelRole(prompt.Role)
		if err != nil {
			role = llms.ChatMessageTypeSystem
		}
		messages = append(messages, llms.TextParts(role, prompt.Content))
	}
	messages = append(messages, history...)

	messages, err = Negotiate(messages, req.ResponseFormat)
	if err != nil {
		return nil, nil, nil, err
	}

	toolSet, err := o.registry.Resolve(toolNames(cfg))
	if err != nil {
		return nil, nil, nil, err
	}

	log.WithFields(log.Fields{
		"model": req.Model,
		"steps": o.maxSteps,
	}).Debugf("chat: prepared request, ~%d prompt tokens", EstimatePromptTokens(cfg.Model.Name, messages))

	var callOpts []llms.CallOption
	if req.Temperature != nil {
		callOpts = append(callOpts, llms.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	ag := agent.New(model, toolSet,
		agent.WithMaxSteps(o.maxSteps),
		agent.WithCallOptions(callOpts...))
	return ag, agent.NewState(messages), cfg, nil
}

// Completions runs a buffered completion and returns the full response body.
func (o *Orchestrator) Completions(ctx context.Context, req *ChatRequest) (*ChatCompletion, error) {
	ag, state, _, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	turns, err := ag.Run(ctx, state)
	if err != nil {
		return nil, err
	}

	usage := WireUsage(MergeUsage(lo.FilterMap(turns, func(turn agent.Message, _ int) (agent.Usage, bool) {
		if turn.Usage == nil {
			return agent.Usage{}, false
		}
		return *turn.Usage, true
	})))

	completion := &ChatCompletion{
		ID:      NewCompletionID(),
		Object:  ObjectCompletion,
		Created: nowUnix(),
		Model:   req.Model,
		Usage:   &usage,
	}

	if WantsJSON(req.ResponseFormat) {
		// The delimited JSON can land in any turn, so the extraction scans
		// the joined text of the whole run, not just the final answer.
		joined := strings.Join(lo.Map(turns, func(turn agent.Message, _ int) string {
			return turn.Content
		}), "\n")
		content, err := ExtractStructured(joined)
		if err != nil {
			return nil, err
		}
		completion.Choices = []Choice{{
			Index:        0,
			Message:      ResponseMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}}
		return completion, nil
	}

	completion.Choices = lo.Map(turns, func(turn agent.Message, i int) Choice {
		return Choice{
			Index:        i,
			Message:      ResponseMessage{Role: WireRole(turn.Role), Content: turn.Content},
			FinishReason: "stop",
		}
	})
	return completion, nil
}

// StreamCompletions runs a streaming completion. The returned channel
// yields marshaled SSE payloads and ends with the [DONE] sentinel.
func (o *Orchestrator) StreamCompletions(ctx context.Context, req *ChatRequest) (<-chan []byte, error) {
	ag, state, _, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	events, errs := ag.StreamEvents(ctx, state)
	return Translate(ctx, NewCompletionID(), req.Model, events, errs), nil
}

func toolNames(cfg *modelconfig.ChatModelConfig) []string {
	names := make([]string, 0, len(cfg.Tools))
	for _, tool := range cfg.Tools {
		names = append(names, tool.Name)
	}
	return names
}
