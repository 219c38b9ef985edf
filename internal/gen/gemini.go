package gen

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator maps a prompt to generated text. Single request/response, no
// streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-3-pro-preview"

// GeminiGenerator produces text through the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator. An empty model
// falls back to DefaultModel.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt and returns the model's text response
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.7)
	topP := float32(0.9)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
		TopP:        &topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to communicate with AI engine: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned an empty response")
	}

	return text, nil
}
