// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

// TavilyBackend queries the Tavily search API.
type TavilyBackend struct {
	Client *http.Client
	APIKey string

	// Endpoint overrides tavilyAPIURL when set.
	Endpoint string

	// SearchDepth is "basic" or "advanced"; empty means basic.
	SearchDepth string

	UserAgent string
}

// NewTavilyBackend builds a backend from the research configuration.
func NewTavilyBackend(cfg types.ResearchConfig) (*TavilyBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("tavily: API key is required")
	}
	return &TavilyBackend{
		Client:      &http.Client{Timeout: cfg.Timeout},
		APIKey:      cfg.APIKey,
		Endpoint:    cfg.Endpoint,
		SearchDepth: cfg.SearchDepth,
		UserAgent:   cfg.UserAgent,
	}, nil
}

// Name returns the backend identifier.
func (b *TavilyBackend) Name() string { return "tavily" }

// Search posts the query to Tavily and returns the results in API order.
func (b *TavilyBackend) Search(ctx context.Context, query string, maxResults int) ([]types.ResearchEntry, error) {
	if query == "" {
		return nil, errors.New("empty Tavily query")
	}

	depth := b.SearchDepth
	if depth == "" {
		depth = "basic"
	}
	endpoint := b.Endpoint
	if endpoint == "" {
		endpoint = tavilyAPIURL
	}

	var tr tavilyResponse
	err := httputil.PostJSON(ctx, b.Client, httputil.Request{
		URL: endpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + b.APIKey,
			"User-Agent":    b.UserAgent,
		},
		Body: tavilyRequest{
			Query:       query,
			SearchDepth: depth,
			MaxResults:  maxResults,
		},
	}, &tr)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}

	entries := make([]types.ResearchEntry, 0, len(tr.Results))
	for _, r := range tr.Results {
		entries = append(entries, types.ResearchEntry{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
		})
	}
	return entries, nil
}

// Tavily API JSON structures.
type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
