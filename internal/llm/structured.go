package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Structured runs a schema-enforced completion and unmarshals the response
// into T. A missing or unparseable response is a GenerationError for the
// named flow; callers must treat it as a hard failure, not a default.
func Structured[T any](ctx context.Context, c Client, flow, systemPrompt, userPrompt, jsonSchema string) (*T, error) {
	raw, err := c.CompleteWithSchema(ctx, systemPrompt, userPrompt, jsonSchema)
	if err != nil {
		return nil, &GenerationError{Flow: flow, Err: err}
	}

	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, &GenerationError{Flow: flow, Err: ErrNoStructuredOutput}
	}

	var out T
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &GenerationError{Flow: flow, Err: err}
	}
	return &out, nil
}

// StripFences removes a markdown code fence wrapper if present. Some models
// wrap JSON output in ```json fences even when a mime type was requested.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
