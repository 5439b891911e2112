// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by capabilities that make network requests.
type HTTPConfig struct {
	// Endpoint is the base URL of the remote API.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Timeout is the HTTP request timeout. The pipeline imposes none of its own.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResearchBackend identifies the search provider.
type ResearchBackend string

const (
	ResearchTavily   ResearchBackend = "tavily"
	ResearchOpenAlex ResearchBackend = "openalex"
	ResearchArxiv    ResearchBackend = "arxiv"
)

// ResearchConfig holds settings for the research capability.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the provider: tavily (web), openalex, or arxiv (scholarly).
	Backend ResearchBackend `json:"backend" yaml:"backend"`

	// APIKey is the search provider credential (TAVILY_API_KEY); unused by
	// openalex and arxiv.
	APIKey string `json:"-" yaml:"-"`

	// Email is sent to OpenAlex for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// SearchDepth is the provider search depth: basic or advanced.
	SearchDepth string `json:"search_depth" yaml:"search_depth"`

	// MaxResults bounds the number of entries handed to the draft stage (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// GenerationBackend identifies the text generation provider.
type GenerationBackend string

const (
	BackendHuggingFace GenerationBackend = "huggingface"
	BackendClaude      GenerationBackend = "claude"
	BackendGemini      GenerationBackend = "gemini"
)

// GenerationConfig holds settings for the text generation capability.
type GenerationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the provider: huggingface, claude, or gemini.
	Backend GenerationBackend `json:"backend" yaml:"backend"`

	// Model is the fixed model identifier (e.g. "Qwen/Qwen2-0.5B-Instruct").
	Model string `json:"model" yaml:"model"`

	// APIKey is the backend credential; optional for huggingface.
	APIKey string `json:"-" yaml:"-"`

	// MaxTokens bounds the length of each generated text (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ServeConfig holds settings for the HTTP front-end.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// TelemetryConfig controls span export.
type TelemetryConfig struct {
	// Enabled turns on the stdout span exporter.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Config groups all settings for one article-engine process.
type Config struct {
	Research   ResearchConfig   `json:"research" yaml:"research"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Serve      ServeConfig      `json:"serve" yaml:"serve"`
	Telemetry  TelemetryConfig  `json:"telemetry" yaml:"telemetry"`
}
