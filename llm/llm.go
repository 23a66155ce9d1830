package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrMissingModel  = errors.New("model is required")
)

// llmLog is resolved per call so it follows the logger installed by logutil.Setup.
func llmLog() *zerolog.Logger {
	l := log.With().Str("module", "llm").Logger()
	return &l
}

// Config holds the request parameters for the vision model.
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float32
	MaxTokens        int
	PresencePenalty  float32
	FrequencyPenalty float32
}

// DefaultConfig returns the request parameters the agent was tuned with.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:           apiKey,
		Model:            openai.GPT4VisionPreview,
		Temperature:      0.7,
		MaxTokens:        3000,
		PresencePenalty:  1,
		FrequencyPenalty: 1,
	}
}

// Client sends conversations to an OpenAI-compatible chat completions API.
type Client struct {
	cfg    Config
	client *openai.Client
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Client{cfg: cfg, client: openai.NewClientWithConfig(oc)}, nil
}

// Complete sends the whole conversation and returns the first choice's text.
// The conversation is not modified.
func (c *Client) Complete(ctx context.Context, conv *Conversation) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:            c.cfg.Model,
		Messages:         conv.Messages(),
		Temperature:      c.cfg.Temperature,
		MaxTokens:        c.cfg.MaxTokens,
		PresencePenalty:  c.cfg.PresencePenalty,
		FrequencyPenalty: c.cfg.FrequencyPenalty,
	}

	llmLog().Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("requesting completion")

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	content := resp.Choices[0].Message.Content
	llmLog().Debug().Str("content", content).Int("total_tokens", resp.Usage.TotalTokens).Msg("preprocessed content")
	return content, nil
}

// Ping verifies credentials and connectivity by listing models.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
