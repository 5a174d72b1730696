package batch

import (
	"errors"
	"strings"

	"docbridge/internal/domain"
	"docbridge/internal/extract"
	"docbridge/internal/glpi"
	"docbridge/internal/llm"
)

// classifyError maps a per-file failure onto the outcome error taxonomy.
// Typed errors from our own collaborators are matched first; GLPI's error
// surface is free text, so its failures fall back to best-effort message
// inspection.
func classifyError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.CodePathNotFound
	case errors.Is(err, domain.ErrUnsupportedExtension):
		return domain.CodeExtensionNotAllowed
	case errors.Is(err, domain.ErrAccessDenied), domain.IsSecurityError(err):
		return domain.CodePathNotAllowed
	case errors.Is(err, domain.ErrPromptInjection):
		return domain.CodePromptInjection
	}

	var cancelled *llm.CancelledError
	var timedOut *llm.TimeoutError
	var schemaErr *extract.SchemaValidationError
	var parseErr *llm.ParseError
	if errors.As(err, &cancelled) || errors.As(err, &timedOut) ||
		errors.As(err, &schemaErr) || errors.As(err, &parseErr) {
		return domain.CodeMalformedFile
	}

	var apiErr *glpi.APIError
	if errors.As(err, &apiErr) {
		return classifyMessage(apiErr.Body)
	}
	return classifyMessage(err.Error())
}

// classifyMessage assigns a code by substring inspection. Message text is
// not a stable contract, so this only runs for errors that crossed an
// HTTP boundary where the structured type was lost.
func classifyMessage(msg string) int {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "not found"),
		strings.Contains(m, "does not exist"),
		strings.Contains(m, "doesn't exist"):
		return domain.CodePathNotFound
	case strings.Contains(m, "extension"):
		return domain.CodeExtensionNotAllowed
	case strings.Contains(m, "not allowed"),
		strings.Contains(m, "denied"):
		return domain.CodePathNotAllowed
	default:
		return domain.CodeMalformedFile
	}
}
