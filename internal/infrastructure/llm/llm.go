// Package llm talks to the configured AI provider: Gemini natively, everything
// else through an OpenAI-compatible chat endpoint.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/config"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type backend interface {
	generate(ctx context.Context, prompt entity.Prompt) (string, error)
}

// Client completes prompts against one provider. A Client without an API key
// answers every call with AIProviderNotConfigured.
type Client struct {
	provider string
	backend  backend
	timeout  time.Duration
}

func New(ctx context.Context, cfg config.AI) (*Client, error) {
	c := &Client{provider: cfg.Provider, timeout: cfg.Timeout}

	if !cfg.Configured() {
		logger(ctx).Warn("AI provider has no API key", slog.String(logx.FieldProvider, cfg.Provider))
		return c, nil
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		b, err := newGemini(ctx, cfg.APIKey())
		if err != nil {
			return nil, fmt.Errorf("newGemini: %w", err)
		}

		c.backend = b
	default:
		c.backend = newChat(cfg.Provider, cfg.BaseURL, cfg.APIKey(), cfg.Timeout)
	}

	return c, nil
}

func (c *Client) Provider() string {
	return c.provider
}

func (c *Client) Configured() bool {
	return c.backend != nil
}

// Complete returns the model's text with any markdown fence removed.
func (c *Client) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	if c.backend == nil {
		return "", domain.NewError(errcodes.AIProviderNotConfigured,
			fmt.Sprintf("AI provider %q is not configured", c.provider))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.backend.generate(ctx, prompt)
	metrics.LLMRequestDuration.WithLabelValues(c.provider, string(prompt.Purpose)).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", err
	}

	logger(ctx).Debug("completion received",
		slog.String(logx.FieldProvider, c.provider),
		slog.String(logx.FieldModel, prompt.Model),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return StripFences(text), nil
}

// StripFences removes a surrounding ```lang ... ``` block. Text that does not
// start with a fence is only trimmed.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	_, body, ok := strings.Cut(text, "\n")
	if !ok {
		return ""
	}

	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}

	return strings.TrimSpace(body)
}
