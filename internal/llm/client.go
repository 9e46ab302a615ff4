package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"vaultagent/internal/config"
	"vaultagent/internal/observability"
)

// Error classes for LLM transport failures. The orchestrator maps each to a
// distinct user-visible message.
var (
	ErrUnauthorized = errors.New("llm service rejected credentials")
	ErrForbidden    = errors.New("llm service access forbidden")
	ErrRateLimited  = errors.New("llm service rate limited")
)

// Stages of the two-phase exchange, used for labeling.
const (
	StageSelect     = "select"
	StageSynthesize = "synthesize"
)

// ChatCompleter is the slice of the OpenAI-compatible client the service
// uses; tests substitute a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps an OpenAI-compatible chat-completions endpoint with the fixed
// model, temperature and token budget from config.
type Client struct {
	api         ChatCompleter
	model       string
	temperature float32
	maxTokens   int
	log         zerolog.Logger
}

// NewClient builds a client for the configured endpoint.
func NewClient(cfg config.LLMConfig, log zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return NewClientWithAPI(openai.NewClientWithConfig(apiCfg), cfg, log)
}

// NewClientWithAPI builds a client on a caller-supplied API implementation.
func NewClientWithAPI(api ChatCompleter, cfg config.LLMConfig, log zerolog.Logger) *Client {
	return &Client{
		api:         api,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log,
	}
}

// Complete sends one chat-completion request and returns the first choice's
// message. Transport failures are classified so callers can distinguish
// credential, permission and rate-limit problems from generic ones.
func (c *Client) Complete(ctx context.Context, stage string, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if len(tools) > 0 {
		req.Tools = tools
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		classified := classify(err)
		observability.RecordLLMRequest(stage, "error")
		c.log.Error().Err(err).Str("stage", stage).Msg("chat completion failed")
		return openai.ChatCompletionMessage{}, classified
	}
	if len(resp.Choices) == 0 {
		observability.RecordLLMRequest(stage, "error")
		return openai.ChatCompletionMessage{}, errors.New("llm response contained no choices")
	}

	observability.RecordLLMRequest(stage, "ok")
	return resp.Choices[0].Message, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("chat completion: %w", err)
	}
	switch apiErr.HTTPStatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	default:
		return fmt.Errorf("chat completion: %w", err)
	}
}
