package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildOrderJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// It constrains types, not presence: which fields the model can determine
// varies per document, and missing required fields are the Order Builder's
// call, not a transport failure.
func BuildOrderJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"product_id": map[string]any{"type": "string", "minLength": 1},
			"quantity":   map[string]any{"type": "integer", "minimum": 1},
		},
		"required": []string{"product_id", "quantity"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"customer_name": map[string]any{"type": "string"},
			"delivery_date": map[string]any{"type": "string", "pattern": `^[\d\-]*$`},
			"product_id":    map[string]any{"type": "string"},
			"quantity":      map[string]any{"type": "integer", "minimum": 1},
			"items":         map[string]any{"type": "array", "items": item, "minItems": 1},
		},
	}
}

// ValidateJSONAgainstSchema validates a JSON document against a schema map.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
