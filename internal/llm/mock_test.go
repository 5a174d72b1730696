package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGeneratorReturnsSchemaValidPayload(t *testing.T) {
	data, err := NewMockGenerator().GenerateJSON(context.Background(), "system", "user", 0)

	require.NoError(t, err)
	assert.Equal(t, "Contrato de Mantenimiento de Prueba", data["contract_name"])
	assert.Equal(t, false, data["prompt_injection_detected"])
}

func TestMockGeneratorFlagsSentinel(t *testing.T) {
	m := NewMockGenerator()

	data, err := m.GenerateJSON(context.Background(), "system", "contract text "+InjectionSentinel, 0)
	require.NoError(t, err)
	assert.Equal(t, true, data["prompt_injection_detected"])

	data, err = m.GenerateJSON(context.Background(), "system "+InjectionSentinel, "contract text", 0)
	require.NoError(t, err)
	assert.Equal(t, true, data["prompt_injection_detected"])
}

func TestMockGeneratorBatchReport(t *testing.T) {
	m := NewMockGenerator()

	text, err := m.GenerateText(context.Background(),
		"You summarize a batch of contract documents.", "results", 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Dear user,")

	text, err = m.GenerateText(context.Background(), "anything else", "content", 0)
	require.NoError(t, err)
	assert.Equal(t, "Simulated LLM response (MOCK).", text)
}
