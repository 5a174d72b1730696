package llm

import (
	"context"
	"strings"
	"time"
)

// InjectionSentinel triggers the mock's prompt-injection flag when it
// appears in either prompt, so the security path can be tested
// deterministically without a live model.
const InjectionSentinel = "INJECTION_TEST"

// MockGenerator is a deterministic backend for offline development. It
// returns a fixed, schema-valid contract payload.
type MockGenerator struct{}

// NewMockGenerator creates the deterministic mock backend.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Name() string { return "mock" }

// GenerateJSON returns a fixed contract record. The injection flag is set
// whenever the sentinel string appears in either prompt.
func (m *MockGenerator) GenerateJSON(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (map[string]any, error) {
	malicious := strings.Contains(userContent, InjectionSentinel) || strings.Contains(systemPrompt, InjectionSentinel)

	return map[string]any{
		"contract_name": "Contrato de Mantenimiento de Prueba",
		"is_contract":   true,
		"contract_type": "Mantenimiento",
		"parties": map[string]any{
			"client":   map[string]any{"name": "Cliente de Prueba S.A.", "id": "B12345678", "address": "Calle Falsa 123"},
			"provider": map[string]any{"name": "Proveedor Mock S.L.", "id": "B87654321", "address": "Avenida Siempre Viva 742"},
		},
		"start_date":               "2024-01-01",
		"end_date":                 "2024-12-31",
		"duration_months":          12,
		"renewal_enum":             1,
		"notice_months":            2,
		"billing_frequency_months": 3,
		"amount":                   5000.00,
		"currency":                 "EUR",
		"payment_terms":            "Transferencia 30 días",
		"sla_support_hours": map[string]any{
			"week_begin_hour":     "08:00:00",
			"week_end_hour":       "18:00:00",
			"use_saturday":        0,
			"saturday_begin_hour": "00:00:00",
			"saturday_end_hour":   "00:00:00",
			"use_sunday":          0,
			"sunday_begin_hour":   "00:00:00",
			"sunday_end_hour":     "00:00:00",
		},
		"key_terms":                 []any{"Mock", "Prueba", "Desarrollo"},
		"summary":                   "Este es un contrato generado por el Mock LLM para propósitos de desarrollo.",
		"prompt_injection_detected": malicious,
	}, nil
}

// GenerateText returns canned prose; the batch-summary prompt gets a fixed
// report so the pipeline's summary path works offline.
func (m *MockGenerator) GenerateText(ctx context.Context, systemPrompt, userContent string, timeout time.Duration) (string, error) {
	if strings.Contains(systemPrompt, "batch of contract documents") {
		return "Dear user,\n\nThe batch run completed (MOCK). Contracts were created in the remote system and the source files were moved to their corresponding folders.", nil
	}
	return "Simulated LLM response (MOCK).", nil
}
