package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/icanbwell/language-model-gateway/internal/chat"
	"github.com/icanbwell/language-model-gateway/internal/logging"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maxLoggedContentLen caps per-message content length in payload logs.
const maxLoggedContentLen = 2000

// ChatHandler serves POST /api/v1/chat/completions.
type ChatHandler struct {
	completer   Completer
	logPayloads bool
}

// NewChatHandler builds a chat handler over the given completer.
func NewChatHandler(completer Completer, logPayloads bool) *ChatHandler {
	return &ChatHandler{completer: completer, logPayloads: logPayloads}
}

// Completions dispatches between buffered and streaming responses based on
// the request's stream flag.
func (h *ChatHandler) Completions(c *gin.Context) {
	rawJSON, err := c.GetRawData()
	if err != nil {
		WriteError(c, fmt.Errorf("reading request body: %w", err))
		return
	}
	if h.logPayloads {
		log.WithFields(log.Fields{
			"request_id": logging.GetGinRequestID(c),
			"model":      gjson.GetBytes(rawJSON, "model").String(),
		}).Debugf("chat request payload: %s", sanitizePayload(rawJSON))
	}

	var req chat.ChatRequest
	if err = json.Unmarshal(rawJSON, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Message: fmt.Sprintf("invalid request body: %v", err),
			Type:    "invalid_request_error",
		}})
		return
	}
	if req.Model == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Message: "model is required",
			Type:    "invalid_request_error",
		}})
		return
	}

	if gjson.GetBytes(rawJSON, "stream").Bool() {
		h.streamCompletions(c, &req)
		return
	}

	completion, err := h.completer.Completions(c.Request.Context(), &req)
	if err != nil {
		log.WithFields(log.Fields{
			"request_id": logging.GetGinRequestID(c),
			"model":      req.Model,
		}).Errorf("chat completion failed: %v", err)
		WriteError(c, err)
		return
	}
	if h.logPayloads {
		for _, choice := range completion.Choices {
			log.WithFields(log.Fields{
				"request_id": logging.GetGinRequestID(c),
				"model":      req.Model,
			}).Debugf("chat response choice %d (%s): %s", choice.Index, choice.Message.Role, choice.Message.Content)
		}
	}
	c.JSON(http.StatusOK, completion)
}

func (h *ChatHandler) streamCompletions(c *gin.Context, req *chat.ChatRequest) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Message: "Streaming not supported",
			Type:    "server_error",
		}})
		return
	}

	payloads, err := h.completer.StreamCompletions(c.Request.Context(), req)
	if err != nil {
		log.WithFields(log.Fields{
			"request_id": logging.GetGinRequestID(c),
			"model":      req.Model,
		}).Errorf("chat stream failed to start: %v", err)
		WriteError(c, err)
		return
	}

	for payload := range payloads {
		if _, err = fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			log.Debugf("chat stream: client write failed: %v", err)
			return
		}
		flusher.Flush()
	}
}

// sanitizePayload truncates oversized message contents so payload logging
// stays readable when clients send large documents inline.
func sanitizePayload(raw []byte) []byte {
	out := raw
	index := 0
	gjson.GetBytes(raw, "messages").ForEach(func(_, msg gjson.Result) bool {
		content := msg.Get("content")
		if content.Type == gjson.String && len(content.Str) > maxLoggedContentLen {
			path := fmt.Sprintf("messages.%d.content", index)
			if updated, err := sjson.SetBytes(out, path, content.Str[:maxLoggedContentLen]+"..."); err == nil {
				out = updated
			}
		}
		index++
		return true
	})
	return out
}
