package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidationError indicates the model's JSON does not match the
// ExtractedContract schema. Violations are reported, never coerced.
type SchemaValidationError struct {
	Err error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("LLM output does not match the contract schema: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

var contractSchema = mustCompileContractSchema()

// buildContractSchemaMap returns the JSON-Schema (draft 2020-12 subset)
// for ExtractedContract as a generic map.
func buildContractSchemaMap() map[string]any {
	nullable := func(t string) []string { return []string{t, "null"} }

	party := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"id":      map[string]any{"type": "string"},
			"address": map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}

	supportHours := map[string]any{
		"type": []string{"object", "null"},
		"properties": map[string]any{
			"week_begin_hour":     map[string]any{"type": "string"},
			"week_end_hour":       map[string]any{"type": "string"},
			"use_saturday":        map[string]any{"type": "integer"},
			"saturday_begin_hour": map[string]any{"type": "string"},
			"saturday_end_hour":   map[string]any{"type": "string"},
			"use_sunday":          map[string]any{"type": "integer"},
			"sunday_begin_hour":   map[string]any{"type": "string"},
			"sunday_end_hour":     map[string]any{"type": "string"},
		},
	}

	props := map[string]any{
		"contract_name": map[string]any{"type": "string", "minLength": 1},
		"is_contract":   map[string]any{"type": "boolean"},
		"contract_type": map[string]any{"type": nullable("string")},
		"num":           map[string]any{"type": nullable("string")},
		"parties": map[string]any{
			"type": []string{"object", "null"},
			"properties": map[string]any{
				"client":   party,
				"provider": party,
			},
		},
		"start_date":               map[string]any{"type": nullable("string")},
		"end_date":                 map[string]any{"type": nullable("string")},
		"duration_months":          map[string]any{"type": nullable("integer")},
		"renewal_enum":             map[string]any{"type": nullable("integer"), "minimum": 0, "maximum": 2},
		"notice_months":            map[string]any{"type": nullable("integer")},
		"billing_frequency_months": map[string]any{"type": nullable("integer")},
		"amount":                   map[string]any{"type": nullable("number")},
		"currency":                 map[string]any{"type": "string"},
		"payment_terms":            map[string]any{"type": nullable("string")},
		"sla_support_hours":        supportHours,
		"key_terms": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"summary":                   map[string]any{"type": "string"},
		"prompt_injection_detected": map[string]any{"type": "boolean"},
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{"contract_name", "summary", "prompt_injection_detected"},
	}
}

func mustCompileContractSchema() *jsonschema.Schema {
	raw, err := json.Marshal(buildContractSchemaMap())
	if err != nil {
		panic(fmt.Sprintf("marshaling contract schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("contract.schema.json", bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("adding contract schema resource: %v", err))
	}
	schema, err := c.Compile("contract.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compiling contract schema: %v", err))
	}
	return schema
}

// ValidateContract checks decoded LLM output against the contract schema.
// The input is round-tripped through JSON first so number representations
// are uniform regardless of which backend produced the map.
func ValidateContract(data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return &SchemaValidationError{Err: err}
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return &SchemaValidationError{Err: err}
	}
	if err := contractSchema.Validate(normalized); err != nil {
		return &SchemaValidationError{Err: err}
	}
	return nil
}
