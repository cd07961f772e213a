// Package tools defines the tool interface exposed to agents and a registry
// that resolves configured tool names to executable handles.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"
)

// Tool is an executable capability an agent can call during a run. Call
// returns the content fed back into the model's context and an optional
// artifact shown to the end user but never fed back into the model.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Call(ctx context.Context, input string) (content string, artifact string, err error)
}

// Registry maps tool names to implementations.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate name replaces the previous entry.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Resolve returns handles for the named tools, failing on the first unknown name.
func (r *Registry) Resolve(names []string) ([]Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resolved := make([]Tool, 0, len(names))
	for _, name := range names {
		tool, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("tools: unknown tool %q", name)
		}
		resolved = append(resolved, tool)
	}
	return resolved, nil
}

// Names lists the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReflectSchema derives a JSON schema map for a tool's argument struct.
func ReflectSchema(args any) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	schema := reflector.Reflect(args)
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err = json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	// The model only needs the object shape, not schema metadata.
	delete(out, "$schema")
	delete(out, "$id")
	return out
}
