package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/okian/examprep/pkg/logger"
)

// chatInvoker talks to OpenAI-compatible chat completion endpoints
// (Groq and OpenAI) through langchaingo.
type chatInvoker struct {
	provider string
	opts     options

	once   sync.Once
	client *openai.LLM
	err    error
}

func newChatInvoker(provider string, o options) *chatInvoker {
	return &chatInvoker{provider: provider, opts: o}
}

func (c *chatInvoker) init() (*openai.LLM, error) {
	if c.opts.apiKey == "" {
		return nil, fmt.Errorf("%w: provider %s", ErrMissingCredential, c.provider)
	}
	c.once.Do(func() {
		clientOpts := []openai.Option{
			openai.WithToken(c.opts.apiKey),
			openai.WithModel(c.opts.model),
		}
		if c.opts.baseURL != "" {
			clientOpts = append(clientOpts, openai.WithBaseURL(c.opts.baseURL))
		}
		if c.opts.httpClient != nil {
			clientOpts = append(clientOpts, openai.WithHTTPClient(c.opts.httpClient))
		}
		c.client, c.err = openai.New(clientOpts...)
		if c.err != nil {
			c.err = fmt.Errorf("%w: create %s client: %w", ErrInvoke, c.provider, c.err)
		}
	})
	return c.client, c.err
}

// Invoke sends system then user and returns the first choice.
func (c *chatInvoker) Invoke(ctx context.Context, system, user string) (string, error) {
	client, err := c.init()
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}, llms.WithMaxTokens(c.opts.maxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvoke, c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s: empty response", ErrInvoke, c.provider)
	}

	if c.opts.log != nil {
		c.opts.log.Debug(ctx, "chat completion",
			logger.String("provider", c.provider),
			logger.String("model", c.opts.model),
			logger.Duration("latency", time.Since(start)),
		)
	}
	return resp.Choices[0].Content, nil
}
