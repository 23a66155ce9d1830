// Package action models the operations suggested by the vision model and
// turns raw model output into batches ready for input replay.
package action

import (
	"fmt"
	"strings"
)

// Kind is the operation an action performs.
type Kind string

const (
	KindClick Kind = "click"
	KindPress Kind = "press"
	KindWrite Kind = "write"
)

// Action is one instruction from the model's response.
type Action struct {
	Operation Kind     `json:"operation"`
	Text      string   `json:"text,omitempty"`
	Keys      []string `json:"keys,omitempty"`
	Duration  float64  `json:"duration,omitempty"`
	X         *int     `json:"x,omitempty"`
	Y         *int     `json:"y,omitempty"`
}

// Resolved reports whether both click coordinates are set.
func (a Action) Resolved() bool {
	return a.X != nil && a.Y != nil
}

// WithCoordinates returns a copy of a with x and y attached.
func (a Action) WithCoordinates(x, y int) Action {
	a.X, a.Y = &x, &y
	if a.Keys != nil {
		a.Keys = append([]string(nil), a.Keys...)
	}
	return a
}

func (a Action) String() string {
	switch {
	case a.Operation == KindClick && a.Resolved():
		return fmt.Sprintf("click %q at (%d,%d)", a.Text, *a.X, *a.Y)
	case a.Operation == KindPress:
		return fmt.Sprintf("press %s", strings.Join(a.Keys, "+"))
	default:
		return fmt.Sprintf("%s %q", a.Operation, a.Text)
	}
}

// UnsupportedOperationError rejects a batch containing an operation the
// current processing step cannot handle.
type UnsupportedOperationError struct {
	Index     int
	Operation Kind
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q at index %d", e.Operation, e.Index)
}

// ParseError reports model output that is not valid action JSON.
type ParseError struct {
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	content := e.Content
	if len(content) > 200 {
		content = content[:200] + "..."
	}
	return fmt.Sprintf("invalid action json: %v | content: %s", e.Err, content)
}

func (e *ParseError) Unwrap() error { return e.Err }
