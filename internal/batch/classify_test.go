package batch

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docbridge/internal/domain"
	"docbridge/internal/extract"
	"docbridge/internal/glpi"
	"docbridge/internal/llm"
)

func TestClassifyTypedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", fmt.Errorf("%w: /data/x.pdf", domain.ErrNotFound), domain.CodePathNotFound},
		{"unsupported extension sentinel", domain.ErrUnsupportedExtension, domain.CodeExtensionNotAllowed},
		{"access denied sentinel", fmt.Errorf("%w: /etc/x", domain.ErrAccessDenied), domain.CodePathNotAllowed},
		{"security error", &domain.SecurityError{Path: "/x", Reason: "traversal"}, domain.CodePathNotAllowed},
		{"prompt injection sentinel", domain.ErrPromptInjection, domain.CodePromptInjection},
		{"llm timeout", &llm.TimeoutError{Provider: "ollama", Timeout: time.Second}, domain.CodeMalformedFile},
		{"llm cancelled", &llm.CancelledError{Provider: "ollama"}, domain.CodeMalformedFile},
		{"llm parse", &llm.ParseError{Provider: "openai", Raw: "x"}, domain.CodeMalformedFile},
		{"schema violation", &extract.SchemaValidationError{Err: errors.New("missing field")}, domain.CodeMalformedFile},
		{"unknown error", errors.New("boom"), domain.CodeMalformedFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestClassifyGLPIErrorByMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"not found", `["ERROR", "Item not found"]`, domain.CodePathNotFound},
		{"denied", `["ERROR", "Access denied for this profile"]`, domain.CodePathNotAllowed},
		{"anything else", `["ERROR_GLPI", "SQL error"]`, domain.CodeMalformedFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &glpi.APIError{Status: 400, Body: tt.body}
			assert.Equal(t, tt.want, classifyError(err))
		})
	}
}

func TestClassifyMessageFallback(t *testing.T) {
	assert.Equal(t, domain.CodePathNotFound, classifyMessage("file does not exist"))
	assert.Equal(t, domain.CodeExtensionNotAllowed, classifyMessage("Extension .exe rejected"))
	assert.Equal(t, domain.CodePathNotAllowed, classifyMessage("operation not allowed"))
	assert.Equal(t, domain.CodeMalformedFile, classifyMessage("something unexpected"))
}
