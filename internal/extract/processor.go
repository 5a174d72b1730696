// Package extract turns one document file into a structured contract
// record: guarded file access, text extraction, one LLM call, schema
// validation and date normalization. It has no side effects beyond the
// outbound model call.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"docbridge/internal/domain"
	"docbridge/internal/fsguard"
	"docbridge/internal/port"
)

// Processor orchestrates the per-file extraction pipeline.
type Processor struct {
	guard     *fsguard.Guard
	extractor port.TextExtractor
	generator port.LLMGenerator
	maxChars  int
}

// NewProcessor creates a contract extraction processor. maxChars bounds how
// much document text is sent to the model.
func NewProcessor(guard *fsguard.Guard, extractor port.TextExtractor, generator port.LLMGenerator, maxChars int) *Processor {
	return &Processor{
		guard:     guard,
		extractor: extractor,
		generator: generator,
		maxChars:  maxChars,
	}
}

// Process extracts a structured contract record from the document at path.
func (p *Processor) Process(ctx context.Context, path string) (*domain.ExtractedContract, error) {
	allowed, err := p.guard.IsAllowed(path)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccessDenied, path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	text, err := p.extractor.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}
	text = truncateRunes(text, p.maxChars)

	raw, err := p.generator.GenerateJSON(ctx, contractSystemPrompt,
		"Extract data from this contract:\n\n"+text, 0)
	if err != nil {
		return nil, err
	}

	if err := ValidateContract(raw); err != nil {
		return nil, err
	}

	contract, err := decodeContract(raw)
	if err != nil {
		return nil, err
	}

	if contract.StartDate != nil {
		d := NormalizeDate(*contract.StartDate)
		contract.StartDate = &d
	}
	if contract.EndDate != nil {
		d := NormalizeDate(*contract.EndDate)
		contract.EndDate = &d
	}

	return contract, nil
}

// decodeContract maps validated generic JSON onto the domain struct.
func decodeContract(raw map[string]any) (*domain.ExtractedContract, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding LLM output: %w", err)
	}
	var contract domain.ExtractedContract
	if err := json.Unmarshal(data, &contract); err != nil {
		return nil, &SchemaValidationError{Err: err}
	}
	return &contract, nil
}

// truncateRunes bounds text to max runes without splitting a multibyte
// character. Models have finite context and cost scales with input size.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
