package port

import (
	"context"
	"time"
)

// LLMGenerator is the uniform contract over interchangeable LLM backends.
// A zero timeout means "use the configured default". Implementations must
// strip markdown code fences before decoding JSON and translate transport
// failures into the typed errors in internal/llm.
type LLMGenerator interface {
	// GenerateJSON asks the model for a JSON object and returns it decoded.
	GenerateJSON(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (map[string]any, error)

	// GenerateText asks the model for free-form prose.
	GenerateText(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error)

	// Name identifies the backend ("openai", "anthropic", "ollama", "mock").
	Name() string
}
