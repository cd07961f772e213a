package tools

import (
	"context"
	"strings"
	"testing"
)

func TestRegistry_ResolveKnownAndUnknown(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&EchoTool{})
	registry.Register(&CurrentTimeTool{})

	resolved, err := registry.Resolve([]string{"echo", "current_time"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(resolved))
	}

	if _, err = registry.Resolve([]string{"echo", "missing"}); err == nil {
		t.Fatal("Expected error for unknown tool")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&EchoTool{})
	registry.Register(&CurrentTimeTool{})

	names := registry.Names()
	if len(names) != 2 || names[0] != "current_time" || names[1] != "echo" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestReflectSchema_StripsMetadata(t *testing.T) {
	schema := (&EchoTool{}).InputSchema()
	if _, ok := schema["$schema"]; ok {
		t.Error("Expected $schema to be stripped")
	}
	if schema["type"] != "object" {
		t.Errorf("Expected object schema, got %v", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("Expected properties map, got %T", schema["properties"])
	}
	if _, ok = props["text"]; !ok {
		t.Errorf("Expected text property, got %v", props)
	}
}

func TestEchoTool_Call(t *testing.T) {
	content, artifact, err := (&EchoTool{}).Call(context.Background(), `{"text":"hello"}`)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if content != "hello" {
		t.Errorf("Expected echoed text, got %q", content)
	}
	if !strings.Contains(artifact, "5 characters") {
		t.Errorf("Unexpected artifact %q", artifact)
	}
}

func TestCurrentTimeTool_InvalidZone(t *testing.T) {
	if _, _, err := (&CurrentTimeTool{}).Call(context.Background(), `{"timezone":"Mars/Olympus"}`); err == nil {
		t.Fatal("Expected error for unknown time zone")
	}
}
