package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"refurrm/internal/logging"
)

// GenAIClient implements Client on the official google.golang.org/genai SDK.
// Schema enforcement is done by requesting a JSON mime type and carrying the
// schema in the system instruction; the SDK handles transport and retries.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a Client backed by the genai SDK.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client: client,
		model:  model,
	}, nil
}

// Complete sends a prompt and returns the completion.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *GenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt, "")
}

// CompleteWithSchema requests JSON output conforming to jsonSchema.
func (c *GenAIClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	if strings.TrimSpace(jsonSchema) == "" {
		return "", fmt.Errorf("json schema is empty")
	}
	return c.generate(ctx, systemPrompt, userPrompt, jsonSchema)
}

func (c *GenAIClient) generate(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	startTime := time.Now()

	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if jsonSchema != "" {
		cfg.ResponseMIMEType = "application/json"
		cfg.SystemInstruction = genai.NewContentFromText(
			systemPrompt+"\n\nRespond ONLY with a JSON object matching this schema:\n"+jsonSchema,
			genai.RoleUser,
		)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		logging.APIError("[GenAI] generate: call failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("GenAI call failed: %w", err)
	}

	response := strings.TrimSpace(result.Text())
	if response == "" {
		return "", ErrNoStructuredOutput
	}

	logging.API("[GenAI] generate: completed in %v response_len=%d", time.Since(startTime), len(response))
	return response, nil
}
