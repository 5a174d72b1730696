package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbridge/internal/config"
)

func ollamaConfig(baseURL string) *config.LLMConfig {
	return &config.LLMConfig{
		Timeout: 5 * time.Second,
		Ollama: config.OllamaConfig{
			BaseURL: baseURL,
			Model:   "llama2",
		},
	}
}

func ollamaReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"message": map[string]any{"role": "assistant", "content": content},
	})
	return string(body)
}

func TestOllamaGenerateJSON(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(ollamaReply(`{"contract_name":"Test"}`)))
	}))
	defer server.Close()

	c := NewOllamaClient(ollamaConfig(server.URL))
	out, err := c.GenerateJSON(context.Background(), "system", "user", 0)

	require.NoError(t, err)
	assert.Equal(t, "Test", out["contract_name"])
	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, false, gotBody["stream"])
	assert.Equal(t, "json", gotBody["format"])
}

func TestOllamaGenerateTextOmitsFormat(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(ollamaReply("A report.")))
	}))
	defer server.Close()

	c := NewOllamaClient(ollamaConfig(server.URL))
	text, err := c.GenerateText(context.Background(), "s", "u", 0)

	require.NoError(t, err)
	assert.Equal(t, "A report.", text)
	assert.NotContains(t, gotBody, "format")
}

func TestOllamaTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(ollamaReply("late")))
	}))
	defer server.Close()

	c := NewOllamaClient(ollamaConfig(server.URL))
	_, err := c.GenerateJSON(context.Background(), "s", "u", 20*time.Millisecond)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
}

func TestOllamaCancellationWinsOverDeadline(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := NewOllamaClient(ollamaConfig(server.URL))
	_, err := c.GenerateJSON(ctx, "s", "u", time.Minute)

	var cancelErr *CancelledError
	assert.ErrorAs(t, err, &cancelErr)
}

func TestOllamaConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewOllamaClient(ollamaConfig(server.URL))
	_, err := c.GenerateJSON(context.Background(), "s", "u", 0)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Contains(t, connErr.URL, "/api/chat")
}

func TestOllamaProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	c := NewOllamaClient(ollamaConfig(server.URL))
	_, err := c.GenerateJSON(context.Background(), "s", "u", 0)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusInternalServerError, provErr.Status)
}
