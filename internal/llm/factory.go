package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Provider represents an LLM provider backend.
type Provider string

const (
	// ProviderGemini uses the raw Gemini REST API.
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses the official google.golang.org/genai SDK.
	ProviderGenAI Provider = "genai"
)

// Options configures client construction.
type Options struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewClient builds a Client for the given options. An empty API key falls
// back to the GEMINI_API_KEY environment variable.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key found; set llm.api_key in config or GEMINI_API_KEY")
	}

	switch opts.Provider {
	case ProviderGenAI:
		return NewGenAIClient(ctx, apiKey, opts.Model)
	case ProviderGemini, "":
		cfg := DefaultGeminiConfig(apiKey)
		if opts.Model != "" {
			cfg.Model = opts.Model
		}
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		if opts.Timeout > 0 {
			cfg.Timeout = opts.Timeout
		}
		return NewGeminiClientWithConfig(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", opts.Provider)
	}
}
