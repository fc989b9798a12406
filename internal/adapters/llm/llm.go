// Package llm sends one system/user message pair to a hosted language model
// and returns the generated text.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Providers.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Defaults per provider.
const (
	GroqBaseURL           = "https://api.groq.com/openai/v1"
	DefaultGroqModel      = "llama-3.3-70b-versatile"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = string(anthropic.ModelClaude4Sonnet20250514)
	DefaultMaxTokens      = 4096
)

// Invoker performs a single model call. The result is returned verbatim.
type Invoker interface {
	Invoke(ctx context.Context, system, user string) (string, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, system, user string) (string, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// New returns the invoker for provider. Construction never contacts the
// provider and never fails for a missing credential.
func New(provider string, opts ...Option) (Invoker, error) {
	o := options{maxTokens: DefaultMaxTokens}

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGroq:
		o.model, o.baseURL = DefaultGroqModel, GroqBaseURL
		applyOptions(&o, opts)
		return newChatInvoker(ProviderGroq, o), nil
	case ProviderOpenAI:
		o.model = DefaultOpenAIModel
		applyOptions(&o, opts)
		return newChatInvoker(ProviderOpenAI, o), nil
	case ProviderAnthropic:
		o.model = DefaultAnthropicModel
		applyOptions(&o, opts)
		return newAnthropicInvoker(o), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func applyOptions(o *options, opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}
