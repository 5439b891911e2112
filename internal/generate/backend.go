// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/article-engine/pkg/types"
)

// NewBackend selects the Backend named by cfg.Backend.
func NewBackend(ctx context.Context, cfg types.GenerationConfig) (Backend, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case types.BackendHuggingFace, "":
		return &HuggingFaceBackend{
			Model:     cfg.Model,
			Token:     cfg.APIKey,
			Client:    client,
			Endpoint:  cfg.Endpoint,
			UserAgent: cfg.UserAgent,
		}, nil
	case types.BackendClaude:
		return &ClaudeBackend{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			Client:    client,
			Endpoint:  cfg.Endpoint,
			UserAgent: cfg.UserAgent,
		}, nil
	case types.BackendGemini:
		g, err := NewGeminiBackend(ctx, cfg.APIKey, cfg.Model, cfg.Endpoint, client)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}
}
