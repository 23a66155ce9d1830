package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"multimodal-gamer/action"
	"multimodal-gamer/llm"
	"multimodal-gamer/ocr"
)

func gameLog() *zerolog.Logger {
	l := log.With().Str("module", "game").Logger()
	return &l
}

// Completer returns the model's reply to a conversation.
type Completer interface {
	Complete(ctx context.Context, conv *llm.Conversation) (string, error)
}

// Capturer writes the current screen to a PNG file.
type Capturer interface {
	CaptureToFile(path string) error
}

// CapturerFunc adapts a function to Capturer.
type CapturerFunc func(path string) error

func (f CapturerFunc) CaptureToFile(path string) error { return f(path) }

// Encoder turns a screenshot file into base64 JPEG for upload.
type Encoder func(path string, maxWidth int) (string, error)

// Agent runs one cycle per call. It holds no conversation state; callers
// own the conversation and pass it into every cycle.
type Agent struct {
	Profile        Profile
	LLM            Completer
	Capturer       Capturer
	Encode         Encoder
	Detector       ocr.Detector
	Resolver       action.ClickResolver
	ScreenshotPath string
	MaxUploadWidth int
}

// NextActions captures the screen, asks the model for the next actions and
// post-processes them according to the profile's strategy. The assistant
// reply is appended to conv only when the whole batch succeeds.
func (a *Agent) NextActions(ctx context.Context, conv *llm.Conversation) ([]action.Action, error) {
	gameLog().Debug().Str("game", a.Profile.Name).Msg("next actions")

	if conv.Len() == 0 && a.Profile.SystemPrompt != "" {
		conv.AppendSystem(a.Profile.SystemPrompt)
	}

	if err := a.Capturer.CaptureToFile(a.ScreenshotPath); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	img, err := a.Encode(a.ScreenshotPath, a.MaxUploadWidth)
	if err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	conv.AppendUserImage(a.Profile.UserPrompt, img)

	raw, err := a.LLM.Complete(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}
	cleaned := action.CleanJSON(raw)

	actions, err := action.Decode(cleaned)
	if err != nil {
		return nil, err
	}

	switch a.Profile.Strategy {
	case action.StrategyOCRResolve:
		actions, err = a.resolve(ctx, actions)
		if err != nil {
			return nil, err
		}
	case action.StrategyNone:
	default:
		return nil, fmt.Errorf("unknown strategy %v", a.Profile.Strategy)
	}

	conv.AppendAssistant(cleaned)

	for _, act := range actions {
		gameLog().Info().Str("game", a.Profile.Name).Stringer("action", act).Msg("final operation")
	}
	return actions, nil
}

func (a *Agent) resolve(ctx context.Context, actions []action.Action) ([]action.Action, error) {
	if len(actions) == 0 {
		return actions, nil
	}
	detections, err := a.Detector.Detect(ctx, a.ScreenshotPath)
	if err != nil {
		return nil, fmt.Errorf("detect text: %w", err)
	}
	gameLog().Debug().Int("detections", len(detections)).Msg("text detected")
	return action.ProcessBatch(actions, detections, a.Resolver)
}
