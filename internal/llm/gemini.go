package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"refurrm/internal/logging"
)

// GeminiClient implements Client against the Gemini REST API.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	maxRetries      int
	httpClient      *http.Client
	mu              sync.Mutex
	lastRequest     time.Time
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.5-flash",
		Timeout:         120 * time.Second,
		MaxOutputTokens: 8192,
		MaxRetries:      3,
	}
}

// NewGeminiClient creates a new Gemini client with default config.
func NewGeminiClient(apiKey string) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a new Gemini client with custom config.
func NewGeminiClientWithConfig(config GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens <= 0 {
		maxOutputTokens = 8192
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &GeminiClient{
		apiKey:          config.APIKey,
		baseURL:         config.BaseURL,
		model:           model,
		maxOutputTokens: maxOutputTokens,
		maxRetries:      maxRetries,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SetModel changes the model used for completions.
func (c *GeminiClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model.
func (c *GeminiClient) GetModel() string {
	return c.model
}

// Complete sends a prompt and returns the completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt, nil)
}

// CompleteWithSchema sends a prompt and enforces a JSON schema on the
// response via generationConfig.response_schema.
func (c *GeminiClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	schemaText := strings.TrimSpace(jsonSchema)
	if schemaText == "" {
		return "", fmt.Errorf("json schema is empty")
	}
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(schemaText), &schema); err != nil {
		return "", fmt.Errorf("invalid json schema: %w", err)
	}
	return c.generate(ctx, systemPrompt, userPrompt, schema)
}

func (c *GeminiClient) generate(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error) {
	// Auto-apply timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.APIDebug("[Gemini] generate: model=%s system_len=%d user_len=%d schema=%t",
		c.model, len(systemPrompt), len(userPrompt), schema != nil)

	if c.apiKey == "" {
		logging.APIError("[Gemini] generate: API key not configured")
		return "", fmt.Errorf("API key not configured")
	}

	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	// Rate limiting between consecutive requests
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{
				Role:  "user",
				Parts: buildUserParts(userPrompt),
			},
		},
		SystemInstruction: &GeminiContent{
			Parts: []GeminiPart{{Text: systemPrompt}},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     0.2,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	if schema != nil {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
		reqBody.GenerationConfig.ResponseSchema = schema
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	// Retry loop for rate limits and transport errors
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			time.Sleep(time.Duration(1<<uint(i-1)) * time.Second)
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var geminiResp GeminiResponse
		if err := json.Unmarshal(body, &geminiResp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}

		if geminiResp.Error != nil {
			return "", fmt.Errorf("API error: %s", geminiResp.Error.Message)
		}

		if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
			return "", ErrNoStructuredOutput
		}

		var result strings.Builder
		for _, part := range geminiResp.Candidates[0].Content.Parts {
			result.WriteString(part.Text)
		}
		response := strings.TrimSpace(result.String())

		logging.API("[Gemini] generate: completed in %v response_len=%d tokens=%d",
			time.Since(startTime), len(response), geminiResp.UsageMetadata.TotalTokenCount)
		return response, nil
	}

	logging.APIError("[Gemini] generate: max retries exceeded after %v: %v", time.Since(startTime), lastErr)
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// dataURIPrefix is how the UI ships item photos: data:<mime>;base64,<data>.
const dataURIPrefix = "data:"

// buildUserParts splits a prompt that may reference an inline photo data URI
// into text and media parts. Photo markers use {{photo:<data-uri>}}.
func buildUserParts(userPrompt string) []GeminiPart {
	const marker = "{{photo:"
	idx := strings.Index(userPrompt, marker)
	if idx < 0 {
		return []GeminiPart{{Text: userPrompt}}
	}
	end := strings.Index(userPrompt[idx:], "}}")
	if end < 0 {
		return []GeminiPart{{Text: userPrompt}}
	}
	end += idx

	uri := userPrompt[idx+len(marker) : end]
	before := strings.TrimSpace(userPrompt[:idx])
	after := strings.TrimSpace(userPrompt[end+2:])

	mime, data, ok := splitDataURI(uri)
	if !ok {
		// Not a data URI; keep the raw text so the model sees something.
		return []GeminiPart{{Text: before + " " + uri + " " + after}}
	}

	parts := make([]GeminiPart, 0, 3)
	if before != "" {
		parts = append(parts, GeminiPart{Text: before})
	}
	parts = append(parts, GeminiPart{InlineData: &GeminiInlineData{MimeType: mime, Data: data}})
	if after != "" {
		parts = append(parts, GeminiPart{Text: after})
	}
	return parts
}

// splitDataURI parses data:<mime>;base64,<data>.
func splitDataURI(uri string) (mime, data string, ok bool) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return "", "", false
	}
	rest := uri[len(dataURIPrefix):]
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return "", "", false
	}
	meta := rest[:comma]
	data = rest[comma+1:]
	mime = strings.TrimSuffix(meta, ";base64")
	if mime == meta {
		// Only base64 payloads are supported for inline media.
		return "", "", false
	}
	return mime, data, true
}
