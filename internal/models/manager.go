// Package models resolves public model identifiers to invocable chat model
// handles backed by the loaded model configurations.
package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/icanbwell/language-model-gateway/internal/modelconfig"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrModelNotFound is returned when the requested identifier matches no
// enabled model configuration.
var ErrModelNotFound = errors.New("models: model not found")

// ErrUnsupportedProvider is returned for a configured provider the gateway
// cannot talk to.
var ErrUnsupportedProvider = errors.New("models: unsupported provider")

// Manager resolves model identifiers against the configuration reader and
// caches constructed provider clients per endpoint.
type Manager struct {
	reader *modelconfig.Reader

	mu      sync.Mutex
	clients map[string]llms.Model
}

// NewManager builds a manager over the given configuration reader.
func NewManager(reader *modelconfig.Reader) *Manager {
	return &Manager{
		reader:  reader,
		clients: make(map[string]llms.Model),
	}
}

// List returns the enabled model configurations.
func (m *Manager) List(ctx context.Context) ([]modelconfig.ChatModelConfig, error) {
	return m.reader.ReadModelConfigs(ctx)
}

// Resolve returns an invocable model handle and the configuration for the
// given public identifier.
func (m *Manager) Resolve(ctx context.Context, id string) (llms.Model, *modelconfig.ChatModelConfig, error) {
	configs, err := m.reader.ReadModelConfigs(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range configs {
		if configs[i].ID != id {
			continue
		}
		cfg := configs[i]
		model, err := m.client(&cfg)
		if err != nil {
			return nil, nil, err
		}
		return model, &cfg, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrModelNotFound, id)
}

// Invalidate drops cached provider clients alongside the configuration
// cache, so edits to endpoints take effect on the next request.
func (m *Manager) Invalidate() {
	m.reader.Invalidate()
	m.mu.Lock()
	m.clients = make(map[string]llms.Model)
	m.mu.Unlock()
}

func (m *Manager) client(cfg *modelconfig.ChatModelConfig) (llms.Model, error) {
	if cfg.Model.Provider != "" && cfg.Model.Provider != "openai" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Model.Provider)
	}

	key := cfg.Model.Provider + "|" + cfg.Model.Name + "|" + cfg.Model.URL + "|" + cfg.Model.APIKeyEnv
	m.mu.Lock()
	defer m.mu.Unlock()
	if client, ok := m.clients[key]; ok {
		return client, nil
	}

	opts := []openai.Option{openai.WithModel(cfg.Model.Name)}
	if cfg.Model.URL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Model.URL))
	}
	if cfg.Model.APIKeyEnv != "" {
		token := os.Getenv(cfg.Model.APIKeyEnv)
		if token == "" {
			log.WithField("model", cfg.ID).Warnf("models: api key variable %s is empty", cfg.Model.APIKeyEnv)
		}
		opts = append(opts, openai.WithToken(token))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("models: building client for %q: %w", cfg.ID, err)
	}
	m.clients[key] = client
	return client, nil
}
