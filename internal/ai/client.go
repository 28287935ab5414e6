// Package ai turns website content into business analyses. It wraps the
// OpenAI chat-completion API behind a small Client interface and provides
// two consumers: Analyzer (basic analysis, three AI opportunities) and
// Expander (full report with implementation plans and financials). Both
// degrade to curated fallback content instead of failing, so a completion
// outage never takes down the scan flow.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ai-group/businessscan-backend/internal/config"
)

// ErrDisabled is returned by the no-op client used when no API key is
// configured. Callers treat it like any other completion failure and fall
// back to curated content.
var ErrDisabled = errors.New("ai: completion service disabled")

// Client produces one chat completion for a system/user prompt pair. The
// returned string is expected to be a JSON document (the request is sent in
// JSON mode).
type Client interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// NewClient returns an OpenAI-backed Client, or a disabled no-op client
// when cfg.APIKey is empty.
func NewClient(cfg config.OpenAIConfig) Client {
	if cfg.APIKey == "" {
		return disabledClient{}
	}
	return &OpenAIClient{api: openai.NewClient(cfg.APIKey), cfg: cfg}
}

type disabledClient struct{}

func (disabledClient) Complete(context.Context, string, string, string) (string, error) {
	return "", ErrDisabled
}

// OpenAIClient is the production Client. Each call runs under its own
// deadline and transient failures (rate limiting, 5xx, network) are retried
// a bounded number of times with linear backoff. Anything else, including
// malformed output, is returned immediately.
type OpenAIClient struct {
	api *openai.Client
	cfg config.OpenAIConfig
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.cfg.RetryBackoff
			log.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying chat completion after transient failure")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		cancel()
		if err != nil {
			lastErr = err
			if isTransient(err) && ctx.Err() == nil {
				continue
			}
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return "", errors.New("chat completion: empty response")
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("chat completion: retries exhausted: %w", lastErr)
}

// isTransient reports whether err is worth retrying: rate limiting, server
// errors, timeouts, and network failures. Client errors and malformed
// responses are permanent.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
