// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/article-engine/pkg/types"
)

// NewBackend selects the Backend named by cfg.Backend.
func NewBackend(cfg types.ResearchConfig) (Backend, error) {
	switch cfg.Backend {
	case types.ResearchTavily, "":
		b, err := NewTavilyBackend(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case types.ResearchOpenAlex:
		return &OpenAlexBackend{
			Client:    &http.Client{Timeout: cfg.Timeout},
			Email:     cfg.Email,
			UserAgent: cfg.UserAgent,
		}, nil
	case types.ResearchArxiv:
		return &ArxivBackend{
			Client:    &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
		}, nil
	default:
		return nil, fmt.Errorf("unknown research backend %q", cfg.Backend)
	}
}
