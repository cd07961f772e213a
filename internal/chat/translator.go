package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/icanbwell/language-model-gateway/internal/agent"
	"github.com/icanbwell/language-model-gateway/internal/logging"
	log "github.com/sirupsen/logrus"
)

// DoneSentinel is the literal payload of the final SSE frame.
const DoneSentinel = "[DONE]"

// Translate consumes agent execution events and produces the marshaled SSE
// payloads of an OpenAI streaming response. Chain start and intermediate
// chain output are suppressed; model deltas become content chunks; tool
// execution is surfaced as progress banners; the chain end becomes a
// zero-choice usage chunk. The last payload is always the [DONE] sentinel,
// even after a run failure, so clients can terminate cleanly.
func Translate(ctx context.Context, id, model string, events <-chan agent.Event, errs <-chan error) <-chan []byte {
	out := make(chan []byte)
	created := nowUnix()
	go func() {
		defer close(out)
		send := func(payload []byte) bool {
			select {
			case out <- payload:
				return true
			case <-ctx.Done():
				return false
			}
		}
		sendChunk := func(chunk ChatCompletionChunk) bool {
			payload, err := json.Marshal(chunk)
			if err != nil {
				log.Errorf("stream translate: marshal chunk failed: %v", err)
				return true
			}
			return send(payload)
		}

		for event := range events {
			var chunk ChatCompletionChunk
			switch event.Kind {
			case agent.EventChainStart, agent.EventChainStream, agent.EventOther:
				continue
			case agent.EventModelStream:
				if event.Delta == "" {
					continue
				}
				chunk = deltaChunk(id, model, created, event.Delta)
				// Every content chunk carries a usage object; zero when the
				// provider reported no fragment for this delta.
				chunk.Usage = &Usage{}
				if event.Usage != nil {
					usage := WireUsage(*event.Usage)
					chunk.Usage = &usage
				}
			case agent.EventToolStart:
				banner := fmt.Sprintf("\n\n> Running Agent %s: %s\n", event.ToolName, event.ToolInput)
				chunk = deltaChunk(id, model, created, banner)
				chunk.Usage = &Usage{}
			case agent.EventToolEnd:
				if event.Artifact == "" {
					continue
				}
				chunk = deltaChunk(id, model, created, fmt.Sprintf("\n> %s\n", event.Artifact))
				chunk.Usage = &Usage{}
			case agent.EventChainEnd:
				if event.Usage == nil {
					continue
				}
				usage := WireUsage(*event.Usage)
				chunk = ChatCompletionChunk{
					ID:      id,
					Object:  ObjectChunk,
					Created: created,
					Model:   model,
					Choices: []ChunkChoice{},
					Usage:   &usage,
				}
			default:
				continue
			}
			if !sendChunk(chunk) {
				return
			}
		}

		// The error channel is closed (possibly after one send) once the
		// event channel closes, so this read never blocks indefinitely.
		if err := <-errs; err != nil {
			log.WithField("request_id", logging.GetRequestID(ctx)).
				Errorf("stream translate: run failed: %v", err)
			chunk := deltaChunk(id, model, created, fmt.Sprintf("\nError:\n%v\n", err))
			chunk.Usage = &Usage{}
			if !sendChunk(chunk) {
				return
			}
		}
		send([]byte(DoneSentinel))
	}()
	return out
}

func deltaChunk(id, model string, created int64, content string) ChatCompletionChunk {
	return ChatCompletionChunk{
		ID:      id,
		Object:  ObjectChunk,
		Created: created,
		Model:   model,
		Choices: []ChunkChoice{{
			Index: 0,
			Delta: Delta{Role: "assistant", Content: content},
		}},
	}
}
