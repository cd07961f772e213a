// Package modelconfig loads chat model definitions from the configured source.
// Definitions are JSON documents describing a model endpoint, its system
// prompts, and the tools the resulting agent may call. Sources are selected by
// the shape of the configured path: s3:// URLs read from object storage,
// GitHub URLs read from a git clone, anything else reads from the filesystem.
package modelconfig

// ChatModelConfig describes one model exposed by the gateway.
type ChatModelConfig struct {
	// ID is the model identifier clients send in the "model" field.
	ID string `json:"id"`
	// Name is a human-readable display name.
	Name string `json:"name"`
	// Description explains what the model configuration is for.
	Description string `json:"description,omitempty"`
	// Disabled removes the model from listing and routing without deleting its file.
	Disabled bool `json:"disabled,omitempty"`
	// Model identifies the upstream provider endpoint.
	Model ModelEndpoint `json:"model"`
	// SystemPrompts are prepended to every conversation routed to this model.
	SystemPrompts []PromptConfig `json:"system_prompts,omitempty"`
	// Tools names the registered tools the agent for this model may call.
	Tools []ToolConfig `json:"tools,omitempty"`
}

// ModelEndpoint identifies an upstream OpenAI-compatible chat model.
type ModelEndpoint struct {
	// Provider is the upstream protocol family; only "openai" is supported.
	Provider string `json:"provider"`
	// Name is the upstream model name sent to the provider.
	Name string `json:"model"`
	// URL optionally overrides the provider base URL.
	URL string `json:"url,omitempty"`
	// APIKeyEnv names the environment variable holding the provider API key.
	APIKeyEnv string `json:"api_key_env,omitempty"`
}

// PromptConfig is a configured conversation turn, typically a system prompt.
type PromptConfig struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolConfig names a tool from the tool registry.
type ToolConfig struct {
	Name string `json:"name"`
}
