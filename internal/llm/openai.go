package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docbridge/internal/config"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient implements port.LLMGenerator using the OpenAI Chat
// Completions API.
type OpenAIClient struct {
	apiKey         string
	model          string
	endpoint       string
	defaultTimeout time.Duration
	client         *http.Client
}

// NewOpenAIClient creates an OpenAI-backed generator from the LLM config.
func NewOpenAIClient(cfg *config.LLMConfig) *OpenAIClient {
	endpoint := cfg.OpenAI.Endpoint
	if endpoint == "" {
		endpoint = openaiAPIURL
	}
	return &OpenAIClient{
		apiKey:         cfg.OpenAI.APIKey,
		model:          cfg.OpenAI.Model,
		endpoint:       endpoint,
		defaultTimeout: cfg.Timeout,
		client:         &http.Client{},
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

// GenerateJSON asks for a JSON object via response_format and decodes it.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (map[string]any, error) {
	content, err := c.complete(ctx, systemPrompt, userContent, timeout, true)
	if err != nil {
		return nil, err
	}
	cleaned := CleanJSONContent(content)
	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &ParseError{Provider: c.Name(), Raw: content, Err: err}
	}
	return out, nil
}

// GenerateText asks for free-form prose.
func (c *OpenAIClient) GenerateText(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error) {
	content, err := c.complete(ctx, systemPrompt, userContent, timeout, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *OpenAIClient) complete(ctx context.Context, systemPrompt, userContent string, timeout time.Duration, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ResolveTimeout(timeout, c.defaultTimeout))
	defer cancel()

	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userContent},
		},
	}
	if wantJSON {
		reqBody["response_format"] = map[string]any{"type": "json_object"}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Provider: c.Name(), Status: resp.StatusCode, Body: string(respBody)}
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", &ParseError{Provider: c.Name(), Raw: string(respBody), Err: err}
	}
	if len(envelope.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai API: no choices")
	}
	return envelope.Choices[0].Message.Content, nil
}
