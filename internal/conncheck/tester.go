// Package conncheck performs live credential tests against providers.
package conncheck

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ErrUnsupportedProvider is returned for providers without a live test.
var ErrUnsupportedProvider = fmt.Errorf("connection test not supported for this provider")

// Tester validates API keys with the cheapest request each provider
// offers: a model listing for OpenAI, a one-token message for Anthropic.
type Tester struct {
	// Base URL overrides, used by tests and proxy deployments.
	OpenAIBaseURL    string
	AnthropicBaseURL string
}

func NewTester() *Tester {
	return &Tester{}
}

// Verify checks that apiKey is accepted by the provider. A nil return
// means the provider answered an authenticated request.
func (t *Tester) Verify(ctx context.Context, provider, apiKey string) error {
	switch provider {
	case "openai":
		return t.verifyOpenAI(ctx, apiKey)
	case "anthropic":
		return t.verifyAnthropic(ctx, apiKey)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

func (t *Tester) verifyOpenAI(ctx context.Context, apiKey string) error {
	cfg := openai.DefaultConfig(apiKey)
	if t.OpenAIBaseURL != "" {
		cfg.BaseURL = t.OpenAIBaseURL
	}

	client := openai.NewClientWithConfig(cfg)
	if _, err := client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai connection test failed: %w", err)
	}
	return nil
}

func (t *Tester) verifyAnthropic(ctx context.Context, apiKey string) error {
	var opts []anthropic.ClientOption
	if t.AnthropicBaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(t.AnthropicBaseURL))
	}

	client := anthropic.NewClient(apiKey, opts...)
	_, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model("claude-3-5-haiku-latest"),
		MaxTokens: 1,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage("ping"),
		},
	})
	if err != nil {
		return fmt.Errorf("anthropic connection test failed: %w", err)
	}
	return nil
}
