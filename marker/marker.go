// Package marker recognises tool invocations that a model writes as text:
// a fixed "[CALL:<tool>]" prefix followed by a flat JSON object.
package marker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/scribe"
)

// Prefix returns the marker that introduces a call to the given tool.
func Prefix(name scribe.ToolName) string {
	return "[CALL:" + string(name) + "]"
}

// Parse classifies a raw model reply. Markers are matched only at the start
// of the reply, in scribe.ToolNames order. A reply without a marker is
// returned verbatim as a DirectReply.
func Parse(text string) scribe.Reply {
	trimmed := strings.TrimSpace(text)
	for _, name := range scribe.ToolNames {
		rest, ok := strings.CutPrefix(trimmed, Prefix(name))
		if !ok {
			continue
		}
		payload, err := decodePayload(rest)
		if err != nil {
			return scribe.InvalidToolCall{Tool: name, Err: err}
		}
		return Classify(name, payload)
	}
	return scribe.DirectReply{Text: text}
}

// Classify validates that payload carries the tool's required key.
func Classify(name scribe.ToolName, payload map[string]string) scribe.Reply {
	call := scribe.ToolCall{Name: name, Payload: payload}
	if _, ok := call.Arg(); !ok {
		return scribe.InvalidToolCall{
			Tool: name,
			Err:  fmt.Errorf("missing required parameter %q", name.Param()),
		}
	}
	return scribe.ToolCallReply{Call: call}
}

// Format renders a call in marker form.
func Format(call scribe.ToolCall) string {
	payload := call.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	// map[string]string always marshals.
	data, _ := json.Marshal(payload)
	return Prefix(call.Name) + " " + string(data)
}

func decodePayload(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty payload")
	}
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid payload: trailing data after JSON object")
	}
	if raw == nil {
		return nil, fmt.Errorf("invalid payload: expected a JSON object")
	}
	payload := make(map[string]string, len(raw))
	for k, v := range raw {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid payload: value of %q is %s, not a string", k, jsonKind(v))
		}
		payload[k] = str
	}
	return payload, nil
}

// FromArgs converts native function-call arguments to a flat payload,
// applying the same rules as marker payloads.
func FromArgs(name scribe.ToolName, args map[string]any) scribe.Reply {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return scribe.InvalidToolCall{Tool: name, Err: fmt.Errorf("invalid arguments: %w", err)}
	}
	payload, err := decodePayload(string(data))
	if err != nil {
		return scribe.InvalidToolCall{Tool: name, Err: err}
	}
	return Classify(name, payload)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
