package runtimeinit

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"multimodal-gamer/action"
	"multimodal-gamer/config"
	"multimodal-gamer/game"
	"multimodal-gamer/llm"
	"multimodal-gamer/logutil"
	"multimodal-gamer/ocr/tesseract"
	"multimodal-gamer/resolver"
	"multimodal-gamer/screenshot"
)

type Options struct {
	LoadOptions config.LoadOptions
	// SetupLogging replaces logutil.Setup, mainly for tests.
	SetupLogging func(logutil.Options) (io.Closer, error)
}

// Runtime holds everything a run needs, built once at startup.
type Runtime struct {
	Config *config.Config
	Client *llm.Client
	Agent  *game.Agent
	Logs   io.Closer
}

func (r *Runtime) Close() error {
	if r.Logs == nil {
		return nil
	}
	return r.Logs.Close()
}

func Bootstrap(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	setup := opts.SetupLogging
	if setup == nil {
		setup = logutil.Setup
	}
	logs, err := setup(logutil.Options{Verbose: cfg.Verbose, EnableFileLogging: cfg.EnableFileLogging})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	rt, err := build(ctx, cfg)
	if err != nil {
		logs.Close()
		return nil, err
	}
	rt.Logs = logs
	return rt, nil
}

func build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required. Checked key file %q and OPENAI_API_KEY env var", cfg.APIKeyPath)
	}

	profile, err := game.LookupProfile(cfg.Game)
	if err != nil {
		return nil, err
	}
	if cfg.Strategy != "" {
		strategy, err := action.ParseStrategy(cfg.Strategy)
		if err != nil {
			return nil, err
		}
		profile.Strategy = strategy
	}

	llmCfg := llm.DefaultConfig(cfg.APIKey)
	llmCfg.Model = cfg.Model
	llmCfg.BaseURL = cfg.BaseURL
	client, err := llm.NewClient(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	log.Info().
		Str("game", profile.Name).
		Str("model", cfg.Model).
		Str("key", logutil.RedactKey(cfg.APIKey)).
		Stringer("strategy", profile.Strategy).
		Msg("configuration loaded")
	logDisplays()

	if cfg.PingOnStart {
		if err := client.Ping(ctx); err != nil {
			return nil, fmt.Errorf("startup check failed: %w", err)
		}
		log.Info().Msg("LLM ping succeeded")
	}

	agent := &game.Agent{
		Profile:        profile,
		LLM:            client,
		Capturer:       game.CapturerFunc(screenshot.CaptureToFile),
		Encode:         screenshot.EncodeForUpload,
		Detector:       tesseract.New(cfg.OCRLanguages...),
		Resolver:       resolver.New(cfg.MatchThreshold),
		ScreenshotPath: cfg.ScreenshotPath(),
		MaxUploadWidth: cfg.MaxUploadWidth,
	}

	return &Runtime{Config: cfg, Client: client, Agent: agent}, nil
}

// logDisplays records the screen geometry clicks are mapped into. A missing
// display is not fatal here; the first capture reports it.
func logDisplays() {
	primary, err := screenshot.GetDisplayBounds()
	if err != nil {
		log.Warn().Err(err).Msg("no display detected")
		return
	}
	virtual, err := screenshot.VirtualBounds()
	if err != nil {
		log.Warn().Err(err).Msg("no display detected")
		return
	}
	log.Info().Stringer("primary", primary).Stringer("virtual", virtual).Msg("display bounds")
}
