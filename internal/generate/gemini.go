// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"google.golang.org/genai"
)

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates the SDK client. baseURL and httpClient are
// optional; tests point baseURL at an httptest server.
func NewGeminiBackend(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if model == "" {
		return nil, errors.New("gemini: model is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GeminiBackend{client: client, model: model}, nil
}

// Name returns the backend identifier.
func (g *GeminiBackend) Name() string { return "gemini" }

// Complete sends prompt as a single user turn.
func (g *GeminiBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(min(maxTokens, math.MaxInt32)),
	})
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("Gemini API returned no candidates")
	}
	return resp.Text(), nil
}
