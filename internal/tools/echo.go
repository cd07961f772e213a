package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// EchoTool returns its input unchanged. It exists for verifying the
// agent's tool-call plumbing end to end without external dependencies,
// and demonstrates the artifact side-channel.
type EchoTool struct{}

type echoArgs struct {
	Text string `json:"text" jsonschema:"description=Text to echo back,required"`
}

func (t *EchoTool) Name() string { return "echo" }

func (t *EchoTool) Description() string {
	return "Echoes the provided text back verbatim. Useful for connectivity checks."
}

func (t *EchoTool) InputSchema() map[string]any {
	return ReflectSchema(&echoArgs{})
}

func (t *EchoTool) Call(_ context.Context, input string) (string, string, error) {
	args := echoArgs{}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", "", fmt.Errorf("echo: invalid input: %w", err)
	}
	artifact := fmt.Sprintf("echoed %d characters", len(args.Text))
	return args.Text, artifact, nil
}
