package models

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/icanbwell/language-model-gateway/internal/config"
	"github.com/icanbwell/language-model-gateway/internal/modelconfig"
)

func newTestManager(t *testing.T, definitions map[string]string) *Manager {
	t.Helper()
	dir := t.TempDir()
	for name, content := range definitions {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	cfg := &config.Config{
		ModelConfigPath:            dir,
		ModelConfigCacheTTLSeconds: 60,
	}
	return NewManager(modelconfig.NewReader(cfg))
}

func TestManager_ListFiltersDisabled(t *testing.T) {
	manager := newTestManager(t, map[string]string{
		"enabled.json":  `{"id":"live","model":{"provider":"openai","model":"gpt-4o"}}`,
		"disabled.json": `{"id":"off","disabled":true,"model":{"provider":"openai","model":"gpt-4o"}}`,
	})

	configs, err := manager.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(configs) != 1 || configs[0].ID != "live" {
		t.Errorf("Expected only enabled model, got %+v", configs)
	}
}

func TestManager_ResolveUnknown(t *testing.T) {
	manager := newTestManager(t, map[string]string{
		"enabled.json": `{"id":"live","model":{"provider":"openai","model":"gpt-4o"}}`,
	})

	_, _, err := manager.Resolve(context.Background(), "ghost")
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("Expected ErrModelNotFound, got %v", err)
	}
}

func TestManager_ResolveUnsupportedProvider(t *testing.T) {
	manager := newTestManager(t, map[string]string{
		"bedrock.json": `{"id":"br","model":{"provider":"bedrock","model":"claude"}}`,
	})

	_, _, err := manager.Resolve(context.Background(), "br")
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("Expected ErrUnsupportedProvider, got %v", err)
	}
}
