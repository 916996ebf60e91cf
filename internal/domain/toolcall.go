package domain

import (
	"encoding/json"
	"fmt"
)

// ToolCall is one structured instruction emitted by the language model.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// rawToolCall accepts arguments either as an object or as a JSON-encoded
// string, which is how most function-calling APIs deliver them.
type rawToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Function  *struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	var raw rawToolCall
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tc.ID = raw.ID
	tc.Name = raw.Name
	args := raw.Arguments
	if raw.Function != nil {
		if tc.Name == "" {
			tc.Name = raw.Function.Name
		}
		if len(args) == 0 {
			args = raw.Function.Arguments
		}
	}
	parsed, err := decodeArguments(args)
	if err != nil {
		return fmt.Errorf("tool call %q: %w", tc.Name, err)
	}
	tc.Arguments = parsed
	return nil
}

func decodeArguments(data json.RawMessage) (map[string]any, error) {
	if len(data) == 0 || string(data) == "null" {
		return map[string]any{}, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode arguments string: %w", err)
		}
		if s == "" {
			return map[string]any{}, nil
		}
		data = json.RawMessage(s)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return out, nil
}

// ParseToolCalls decodes a JSON array of tool calls.
func ParseToolCalls(data []byte) ([]ToolCall, error) {
	var calls []ToolCall
	if err := json.Unmarshal(data, &calls); err != nil {
		return nil, fmt.Errorf("parse tool calls: %w", err)
	}
	return calls, nil
}
