// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/article-engine/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API. The response never echoes the
// prompt, so StripPrompt leaves it untouched.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client

	// Endpoint overrides claudeAPIURL when set.
	Endpoint string

	UserAgent string
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name returns the backend identifier.
func (c *ClaudeBackend) Name() string { return "claude" }

// Complete sends prompt as a single user message and joins the text blocks
// of the reply.
func (c *ClaudeBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("no Anthropic API key")
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = claudeAPIURL
	}

	var resp claudeResponse
	err := httputil.PostJSON(ctx, c.Client, httputil.Request{
		URL: endpoint,
		Headers: map[string]string{
			"x-api-key":         c.APIKey,
			"anthropic-version": "2023-06-01",
			"User-Agent":        c.UserAgent,
		},
		Body: claudeRequest{
			Model:     c.Model,
			MaxTokens: maxTokens,
			Messages:  []claudeMessage{{Role: "user", Content: prompt}},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", errors.New("Claude API returned empty content")
	}

	var b strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		found = true
		b.WriteString(block.Text)
	}
	if !found {
		return "", errors.New("no text content in Claude API response")
	}
	return b.String(), nil
}
