// Package agents implements the buyer and seller decision agents behind
// the engine's Agent interface: LLM-backed implementations that prompt a
// chat model for each turn, and scripted concession policies for offline
// runs and tests.
package agents

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ClientConfig configures the chat-completion transport.
type ClientConfig struct {
	APIKey            string
	BaseURL           string // OpenAI-compatible endpoint, e.g. OpenRouter
	Model             string
	Temperature       float32
	RequestsPerMinute int // 0 disables client-side pacing
}

// Client wraps an OpenAI-compatible chat API with client-side request
// pacing.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	limiter     *rate.Limiter
}

// NewClient creates a chat client. The API key is required; everything
// else has a workable default.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key not set")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		limiter:     limiter,
	}, nil
}

// Chat sends a system+user prompt pair and returns the raw reply text.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
