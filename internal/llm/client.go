// Package llm provides the client boundary to the hosted model used by the
// appraisal and matching flows. Implementations return either a usable
// completion or an explicit error; callers must never substitute defaults.
package llm

import (
	"context"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CompleteWithSchema enforces a JSON schema on the response. Providers
	// that cannot enforce a schema natively embed it in the prompt and
	// request a JSON mime type.
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error)
}
