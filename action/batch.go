package action

import (
	"fmt"
	"strings"

	"multimodal-gamer/ocr"
	"multimodal-gamer/resolver"
)

// Strategy selects how a parsed batch is post-processed before replay.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyOCRResolve
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyOCRResolve:
		return "ocr"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StrategyNone, nil
	case "ocr", "ocr-resolve":
		return StrategyOCRResolve, nil
	default:
		return StrategyNone, fmt.Errorf("unknown strategy %q", s)
	}
}

// ClickResolver resolves a label to a click point.
type ClickResolver interface {
	ResolveClick(detections []ocr.Detection, target string) (int, int, error)
}

// ProcessBatch resolves every click in actions against detections.
// Any non-click operation or unresolved label rejects the whole batch; the
// input slice is left untouched.
func ProcessBatch(actions []Action, detections []ocr.Detection, r ClickResolver) ([]Action, error) {
	for i, a := range actions {
		if a.Operation != KindClick {
			return nil, &UnsupportedOperationError{Index: i, Operation: a.Operation}
		}
	}

	out := make([]Action, 0, len(actions))
	for i, a := range actions {
		if strings.TrimSpace(a.Text) == "" {
			return nil, &resolver.NoMatchError{Target: a.Text, Reason: fmt.Sprintf("click at index %d has no text", i)}
		}
		x, y, err := r.ResolveClick(detections, a.Text)
		if err != nil {
			return nil, fmt.Errorf("resolve click %d: %w", i, err)
		}
		out = append(out, a.WithCoordinates(x, y))
	}
	return out, nil
}
