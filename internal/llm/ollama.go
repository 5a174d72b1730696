package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docbridge/internal/config"
)

// OllamaClient implements port.LLMGenerator against a local Ollama server.
//
// This is the one backend that runs inside a cancellable request scope, so
// its failure modes are kept apart: a deadline hit is a TimeoutError, an
// unreachable server is a ConnectionError, and a torn-down calling scope
// is a CancelledError. Callers need to tell "the model was slow" from
// "the caller hung up".
type OllamaClient struct {
	baseURL        string
	model          string
	defaultTimeout time.Duration
	client         *http.Client
}

// NewOllamaClient creates a generator backed by a local Ollama server.
func NewOllamaClient(cfg *config.LLMConfig) *OllamaClient {
	return &OllamaClient{
		baseURL:        strings.TrimRight(cfg.Ollama.BaseURL, "/"),
		model:          cfg.Ollama.Model,
		defaultTimeout: cfg.Timeout,
		client:         &http.Client{},
	}
}

func (c *OllamaClient) Name() string { return "ollama" }

// GenerateJSON asks Ollama for JSON output via its format knob.
func (c *OllamaClient) GenerateJSON(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (map[string]any, error) {
	content, err := c.chat(ctx, systemPrompt, userContent, timeout, true)
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
func (c *OllamaClient) GenerateText(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error) {
	content, err := c.chat(ctx, systemPrompt, userContent, timeout, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *OllamaClient) chat(parent context.Context, systemPrompt, userContent string, timeout time.Duration, wantJSON bool) (string, error) {
	effective := ResolveTimeout(timeout, c.defaultTimeout)
	ctx, cancel := context.WithTimeout(parent, effective)
	defer cancel()

	url := c.baseURL + "/api/chat"
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userContent},
		},
		"stream": false,
	}
	if wantJSON {
		reqBody["format"] = "json"
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.classifyTransportError(parent, err, effective, url)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.classifyTransportError(parent, err, effective, url)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Provider: c.Name(), Status: resp.StatusCode, Body: string(respBody)}
	}

	var envelope struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", &ParseError{Provider: c.Name(), Raw: string(respBody), Err: err}
	}
	return envelope.Message.Content, nil
}

// classifyTransportError translates the transport failure into the typed
// taxonomy. Parent-scope cancellation wins over the per-call deadline:
// when the caller hangs up both contexts report an error, and reporting a
// timeout there would send the pipeline down the wrong branch.
func (c *OllamaClient) classifyTransportError(parent context.Context, err error, timeout time.Duration, url string) error {
	if errors.Is(parent.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return &CancelledError{Provider: c.Name(), Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: c.Name(), Timeout: timeout, Err: err}
	}
	return &ConnectionError{Provider: c.Name(), URL: url, Err: err}
}
