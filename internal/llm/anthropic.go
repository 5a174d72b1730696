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

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// AnthropicClient implements port.LLMGenerator using the Anthropic
// Messages API. Unlike the OpenAI shape, the system prompt travels in a
// dedicated top-level field and the reply sits in content[0].text.
type AnthropicClient struct {
	apiKey         string
	model          string
	endpoint       string
	defaultTimeout time.Duration
	client         *http.Client
}

// NewAnthropicClient creates an Anthropic-backed generator from the LLM config.
func NewAnthropicClient(cfg *config.LLMConfig) *AnthropicClient {
	endpoint := cfg.Anthropic.Endpoint
	if endpoint == "" {
		endpoint = anthropicAPIURL
	}
	return &AnthropicClient{
		apiKey:         cfg.Anthropic.APIKey,
		model:          cfg.Anthropic.Model,
		endpoint:       endpoint,
		defaultTimeout: cfg.Timeout,
		client:         &http.Client{},
	}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

// GenerateJSON asks for a JSON object and decodes it. Anthropic has no
// response_format knob, so the prompt carries the JSON instruction and the
// fence stripping does the rest.
func (c *AnthropicClient) GenerateJSON(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (map[string]any, error) {
	content, err := c.complete(ctx, systemPrompt, userContent, timeout)
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
func (c *AnthropicClient) GenerateText(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error) {
	content, err := c.complete(ctx, systemPrompt, userContent, timeout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *AnthropicClient) complete(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ResolveTimeout(timeout, c.defaultTimeout))
	defer cancel()

	reqBody := map[string]any{
		"model":      c.model,
		"max_tokens": 4096,
		"system":     systemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": userContent},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
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
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", &ParseError{Provider: c.Name(), Raw: string(respBody), Err: err}
	}
	if len(envelope.Content) == 0 {
		return "", fmt.Errorf("empty response from anthropic API: no content blocks")
	}
	return envelope.Content[0].Text, nil
}
