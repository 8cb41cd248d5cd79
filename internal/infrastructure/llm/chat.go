package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/config"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

//nolint:gochecknoglobals
var baseURLs = map[string]string{
	config.ProviderOpenAI:     "https://api.openai.com/v1",
	config.ProviderAnthropic:  "https://api.anthropic.com/v1",
	config.ProviderPerplexity: "https://api.perplexity.ai",
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

// chat speaks the /chat/completions dialect shared by OpenAI, Perplexity and
// Anthropic's compatibility endpoint.
type chat struct {
	provider string
	baseURL  string
	client   *http.Client
}

func newChat(provider, baseURL, apiKey string, timeout time.Duration) *chat {
	if baseURL == "" {
		baseURL = baseURLs[provider]
	}

	return &chat{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   httpx.NewClient(timeout, apiKey),
	}
}

func (c *chat) generate(ctx context.Context, prompt entity.Prompt) (string, error) {
	body, err := json.Marshal(chatRequest{
		// Accept LiteLLM-style names such as "perplexity/sonar-pro".
		Model: strings.TrimPrefix(prompt.Model, c.provider+"/"),
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}

		return "", fmt.Errorf("%s: status %d: %s", c.provider, resp.StatusCode, msg)
	}

	content := gjson.GetBytes(raw, "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		return "", fmt.Errorf("%s: %w", c.provider, errEmptyResponse)
	}

	return content.String(), nil
}
