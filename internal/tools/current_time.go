package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CurrentTimeTool reports the current time, optionally in a named IANA time zone.
type CurrentTimeTool struct{}

type currentTimeArgs struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"description=IANA time zone name such as America/New_York; defaults to UTC"`
}

func (t *CurrentTimeTool) Name() string { return "current_time" }

func (t *CurrentTimeTool) Description() string {
	return "Returns the current date and time, optionally in a specific time zone."
}

func (t *CurrentTimeTool) InputSchema() map[string]any {
	return ReflectSchema(&currentTimeArgs{})
}

func (t *CurrentTimeTool) Call(_ context.Context, input string) (string, string, error) {
	args := currentTimeArgs{}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &args); err != nil {
			return "", "", fmt.Errorf("current_time: invalid input: %w", err)
		}
	}
	loc := time.UTC
	if args.Timezone != "" {
		parsed, err := time.LoadLocation(args.Timezone)
		if err != nil {
			return "", "", fmt.Errorf("current_time: unknown time zone %q: %w", args.Timezone, err)
		}
		loc = parsed
	}
	now := time.Now().In(loc)
	return now.Format(time.RFC3339), "", nil
}
