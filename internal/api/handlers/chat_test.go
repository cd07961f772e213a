package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/icanbwell/language-model-gateway/internal/chat"
	"github.com/icanbwell/language-model-gateway/internal/modelconfig"
	"github.com/icanbwell/language-model-gateway/internal/models"
)

type stubCompleter struct {
	completion *chat.ChatCompletion
	stream     []string
	err        error
}

func (s *stubCompleter) Completions(ctx context.Context, req *chat.ChatRequest) (*chat.ChatCompletion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.completion, nil
}

func (s *stubCompleter) StreamCompletions(ctx context.Context, req *chat.ChatRequest) (<-chan []byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for _, payload := range s.stream {
			out <- []byte(payload)
		}
	}()
	return out, nil
}

func newTestRouter(completer Completer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewChatHandler(completer, false)
	engine.POST("/api/v1/chat/completions", handler.Completions)
	return engine
}

func TestChatHandler_BufferedCompletion(t *testing.T) {
	completer := &stubCompleter{completion: &chat.ChatCompletion{
		ID:     "chatcmpl-abc",
		Object: chat.ObjectCompletion,
		Model:  "test-model",
		Choices: []chat.Choice{{
			Message:      chat.ResponseMessage{Role: "assistant", Content: "hi"},
			FinishReason: "stop",
		}},
	}}
	router := newTestRouter(completer)

	body := `{"model":"test-model","messages":[{"role":"user","content":"hello"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions", strings.NewReader(body))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var completion chat.ChatCompletion
	if err := json.Unmarshal(w.Body.Bytes(), &completion); err != nil {
		t.Fatalf("Unmarshal response failed: %v", err)
	}
	if completion.Choices[0].Message.Content != "hi" {
		t.Errorf("Unexpected content %q", completion.Choices[0].Message.Content)
	}
}

func TestChatHandler_InvalidBody(t *testing.T) {
	router := newTestRouter(&stubCompleter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions", strings.NewReader(`{"model":`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal error envelope failed: %v", err)
	}
	if resp.Error.Type != "invalid_request_error" {
		t.Errorf("Expected invalid_request_error, got %q", resp.Error.Type)
	}
}

func TestChatHandler_MissingModel(t *testing.T) {
	router := newTestRouter(&stubCompleter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions", strings.NewReader(`{"messages":[]}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestChatHandler_ModelNotFound(t *testing.T) {
	router := newTestRouter(&stubCompleter{err: fmt.Errorf("%w: %q", models.ErrModelNotFound, "ghost")})

	body := `{"model":"ghost","messages":[{"role":"user","content":"hello"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions", strings.NewReader(body))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestChatHandler_StreamWritesSSE(t *testing.T) {
	completer := &stubCompleter{stream: []string{`{"id":"chatcmpl-abc"}`, chat.DoneSentinel}}
	router := newTestRouter(completer)

	body := `{"model":"test-model","stream":true,"messages":[{"role":"user","content":"hello"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions", strings.NewReader(body))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event-stream content type, got %q", ct)
	}
	out := w.Body.String()
	if !strings.Contains(out, "data: {\"id\":\"chatcmpl-abc\"}\n\n") {
		t.Errorf("Expected SSE frame, got %q", out)
	}
	if !strings.HasSuffix(out, "data: [DONE]\n\n") {
		t.Errorf("Expected [DONE] frame last, got %q", out)
	}
}

func TestModelsHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewModelsHandler(&stubLister{configs: []modelconfig.ChatModelConfig{
		{ID: "gpt-helper", Name: "GPT Helper"},
	}})
	engine.GET("/api/v1/models", handler.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var list ModelList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Unmarshal list failed: %v", err)
	}
	if list.Object != "list" || len(list.Data) != 1 || list.Data[0].ID != "gpt-helper" {
		t.Errorf("Unexpected list: %+v", list)
	}
}

type stubLister struct {
	configs []modelconfig.ChatModelConfig
}

func (s *stubLister) List(ctx context.Context) ([]modelconfig.ChatModelConfig, error) {
	return s.configs, nil
}
