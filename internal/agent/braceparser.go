package agent

import "encoding/json"

const toolCallMarker = `{"tool_call"`

// detectToolCall scans text for the literal substring {"tool_call" and, if
// found, parses the smallest balanced JSON object starting there. A
// balanced-brace scan tolerates surrounding prose (the model chatting
// before or after the call) in a way a last-closing-brace heuristic or a
// regex would not: nested braces inside string parameter values no longer
// confuse the boundary.
func detectToolCall(text string) (name string, params map[string]any, ok bool) {
	idx := indexOf(text, toolCallMarker)
	if idx < 0 {
		return "", nil, false
	}
	end := balancedObjectEnd(text, idx)
	if end < 0 {
		return "", nil, false
	}

	var parsed struct {
		ToolCall struct {
			Name       string         `json:"name"`
			Parameters map[string]any `json:"parameters"`
		} `json:"tool_call"`
	}
	if err := json.Unmarshal([]byte(text[idx:end+1]), &parsed); err != nil {
		return "", nil, false
	}
	if parsed.ToolCall.Name == "" {
		return "", nil, false
	}
	return parsed.ToolCall.Name, parsed.ToolCall.Parameters, true
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// balancedObjectEnd returns the index of the closing brace matching the
// opening brace at start, or -1 if the braces never balance (truncated
// output). String contents, including escaped quotes, are skipped so a
// literal "}" inside a parameter value never closes the object early.
func balancedObjectEnd(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
