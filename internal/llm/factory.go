package llm

import (
	"fmt"

	"docbridge/internal/config"
	"docbridge/internal/port"
)

// NewGenerator selects the LLM backend once at startup from configuration.
// Dispatch is a closed switch; nothing looks providers up by string at
// request time.
func NewGenerator(cfg *config.LLMConfig) (port.LLMGenerator, error) {
	if cfg.Mock {
		return NewMockGenerator(), nil
	}
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key is not configured")
		}
		return NewOpenAIClient(cfg), nil
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is not configured")
		}
		return NewAnthropicClient(cfg), nil
	case "ollama":
		return NewOllamaClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
