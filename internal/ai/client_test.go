package ai

import (
	"context"
	"errors"
	"net"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ai-group/businessscan-backend/internal/config"
)

func TestNewClient_DisabledWithoutKey(t *testing.T) {
	c := NewClient(config.OpenAIConfig{})
	if _, ok := c.(disabledClient); !ok {
		t.Fatalf("expected disabled client, got %T", c)
	}
	_, err := c.Complete(context.Background(), "m", "s", "u")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v; want ErrDisabled", err)
	}
}

func TestNewClient_EnabledWithKey(t *testing.T) {
	c := NewClient(config.OpenAIConfig{APIKey: "sk-test"})
	if _, ok := c.(*OpenAIClient); !ok {
		t.Fatalf("expected OpenAI client, got %T", c)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: 429}, true},
		{"server error", &openai.APIError{HTTPStatusCode: 503}, true},
		{"bad request", &openai.APIError{HTTPStatusCode: 400}, false},
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401}, false},
		{"network", &net.DNSError{Err: "no such host"}, true},
		{"deadline", context.DeadlineExceeded, true},
		{"plain", errors.New("parse failure"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransient(tc.err); got != tc.want {
				t.Errorf("isTransient(%v) = %v; want %v", tc.err, got, tc.want)
			}
		})
	}
}
