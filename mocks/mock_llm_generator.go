package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLLMGenerator is a mock implementation of port.LLMGenerator.
type MockLLMGenerator struct {
	mock.Mock
}

func (m *MockLLMGenerator) GenerateJSON(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (map[string]any, error) {
	args := m.Called(ctx, systemPrompt, userContent, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockLLMGenerator) GenerateText(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error) {
	args := m.Called(ctx, systemPrompt, userContent, timeout)
	return args.String(0), args.Error(1)
}

func (m *MockLLMGenerator) Name() string {
	args := m.Called()
	return args.String(0)
}
