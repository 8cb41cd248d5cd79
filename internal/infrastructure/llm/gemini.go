package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
)

var errEmptyResponse = errors.New("empty response")

type gemini struct {
	client *genai.Client
}

func newGemini(ctx context.Context, apiKey string) (*gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &gemini{client: client}, nil
}

func (g *gemini) generate(ctx context.Context, prompt entity.Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(prompt.Temperature),
	}

	// Search grounding gives the model current prices and filings.
	if prompt.Grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, prompt.Model, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", fmt.Errorf("models.GenerateContent: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: %w", errEmptyResponse)
	}

	return text, nil
}
