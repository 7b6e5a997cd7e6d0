// Package builtin provides the writing-assistant tools: grammar correction,
// content creation and synonym suggestion.
package builtin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/scribe"
	"github.com/xeipuuv/gojsonschema"
)

// ValidatePayload checks a call payload against the tool's parameter schema.
// Violations wrap [scribe.ErrValidation].
func ValidatePayload(tool scribe.Tool, payload map[string]string) error {
	// map[string]string always marshals.
	doc, _ := json.Marshal(payload)
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(tool.Parameters),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), scribe.ErrValidation)
	}
	return nil
}

func stringParam(name, description string) json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			name: map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": description,
			},
		},
		"required": []string{name},
	}
	// Static schema, always marshals.
	data, _ := json.Marshal(schema)
	return data
}
