package action

import (
	"bytes"
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

const (
	fenceJSON = "```json"
	fence     = "```"
)

// CleanJSON strips markdown code fences around a model response and trims
// every line.
func CleanJSON(content string) string {
	if strings.HasPrefix(content, fenceJSON) {
		content = strings.TrimSpace(content[len(fenceJSON):])
	} else if strings.HasPrefix(content, fence) {
		content = strings.TrimSpace(content[len(fence):])
	}
	if strings.HasSuffix(content, fence) {
		content = strings.TrimSpace(content[:len(content)-len(fence)])
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// Parse cleans a model response and decodes it into a batch of actions.
// A single object is accepted as a one-element batch.
func Parse(content string) ([]Action, error) {
	return Decode(CleanJSON(content))
}

// Decode is Parse for content that has already been through CleanJSON.
func Decode(cleaned string) ([]Action, error) {
	trimmed := bytes.TrimSpace([]byte(cleaned))
	if len(trimmed) == 0 {
		return nil, &ParseError{Content: cleaned, Err: errors.New("empty response")}
	}

	if trimmed[0] == '{' {
		var single Action
		if err := sonic.Unmarshal(trimmed, &single); err != nil {
			return nil, &ParseError{Content: cleaned, Err: err}
		}
		if err := validate(single); err != nil {
			return nil, &ParseError{Content: cleaned, Err: err}
		}
		return []Action{single}, nil
	}

	var actions []Action
	if err := sonic.Unmarshal(trimmed, &actions); err != nil {
		return nil, &ParseError{Content: cleaned, Err: err}
	}
	if actions == nil {
		// "null" decodes without error
		return nil, &ParseError{Content: cleaned, Err: errors.New("expected a JSON array of actions")}
	}
	for _, a := range actions {
		if err := validate(a); err != nil {
			return nil, &ParseError{Content: cleaned, Err: err}
		}
	}
	return actions, nil
}

func validate(a Action) error {
	if a.Operation == "" {
		return errors.New("action missing operation")
	}
	return nil
}
