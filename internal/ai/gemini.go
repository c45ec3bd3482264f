// Package ai proxies formatting and tagging requests to a Gemini model.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/stackit-dev/stackit/backend/internal/config"
)

const temperature float32 = 0.1

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	if !cfg.Enabled() {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: cfg.Model, embeddingModel: cfg.EmbeddingModel}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("embed content: empty response")
	}
	return resp.Embeddings[0].Values, nil
}
