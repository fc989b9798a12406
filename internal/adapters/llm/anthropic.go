package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/okian/examprep/pkg/logger"
)

// anthropicInvoker uses the Messages API. The SDK's own retries are
// disabled so one Invoke is one request.
type anthropicInvoker struct {
	opts   options
	client anthropic.Client
}

func newAnthropicInvoker(o options) *anthropicInvoker {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(o.apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(o.httpClient))
	}
	return &anthropicInvoker{opts: o, client: anthropic.NewClient(clientOpts...)}
}

// Invoke sends the system prompt and one user message and joins the text
// blocks of the reply.
func (a *anthropicInvoker) Invoke(ctx context.Context, system, user string) (string, error) {
	if a.opts.apiKey == "" {
		return "", fmt.Errorf("%w: provider %s", ErrMissingCredential, ProviderAnthropic)
	}

	start := time.Now()
	response, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.opts.model),
		MaxTokens: int64(a.opts.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvoke, ProviderAnthropic, err)
	}

	var out strings.Builder
	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}

	if a.opts.log != nil {
		a.opts.log.Debug(ctx, "messages call",
			logger.String("provider", ProviderAnthropic),
			logger.String("model", a.opts.model),
			logger.Duration("latency", time.Since(start)),
		)
	}
	return out.String(), nil
}
