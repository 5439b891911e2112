// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config turns viper settings and resolved credentials into a
// validated types.Config. Missing credentials and invalid values are
// configuration failures: they stop the process before any pipeline run.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/secrets"
	"github.com/pdiddy/article-engine/pkg/types"
)

// ErrInvalid marks configuration values that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Default endpoints per capability backend.
const (
	DefaultResearchEndpoint    = "https://api.tavily.com/search"
	DefaultHuggingFaceEndpoint = "https://router.huggingface.co/hf-inference/models"
	DefaultClaudeEndpoint      = "https://api.anthropic.com/v1/messages"
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper, version string) {
	ua := "article-engine/" + version

	v.SetDefault("research.backend", string(types.ResearchTavily))
	v.SetDefault("research.endpoint", DefaultResearchEndpoint)
	v.SetDefault("research.email", "")
	v.SetDefault("research.search_depth", "basic")
	v.SetDefault("research.max_results", 5)
	v.SetDefault("research.timeout", 30*time.Second)
	v.SetDefault("research.user_agent", ua)

	v.SetDefault("generation.backend", string(types.BackendHuggingFace))
	v.SetDefault("generation.model", "Qwen/Qwen2-0.5B-Instruct")
	v.SetDefault("generation.endpoint", "")
	v.SetDefault("generation.max_tokens", 1024)
	v.SetDefault("generation.timeout", 5*time.Minute)
	v.SetDefault("generation.user_agent", ua)

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("telemetry.enabled", false)
}

// Load reads the settings from v, resolves credentials from store, and
// validates the result.
func Load(v *viper.Viper, store *secrets.Store) (types.Config, error) {
	cfg := types.Config{
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{
				Endpoint:  v.GetString("research.endpoint"),
				Timeout:   v.GetDuration("research.timeout"),
				UserAgent: v.GetString("research.user_agent"),
			},
			Backend:     types.ResearchBackend(strings.ToLower(v.GetString("research.backend"))),
			Email:       v.GetString("research.email"),
			SearchDepth: v.GetString("research.search_depth"),
			MaxResults:  v.GetInt("research.max_results"),
		},
		Generation: types.GenerationConfig{
			HTTPConfig: types.HTTPConfig{
				Endpoint:  v.GetString("generation.endpoint"),
				Timeout:   v.GetDuration("generation.timeout"),
				UserAgent: v.GetString("generation.user_agent"),
			},
			Backend:   types.GenerationBackend(strings.ToLower(v.GetString("generation.backend"))),
			Model:     v.GetString("generation.model"),
			MaxTokens: v.GetInt("generation.max_tokens"),
		},
		Serve: types.ServeConfig{
			Addr: v.GetString("serve.addr"),
		},
		Telemetry: types.TelemetryConfig{
			Enabled: v.GetBool("telemetry.enabled"),
		},
	}

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}

	if cfg.Generation.Endpoint == "" {
		switch cfg.Generation.Backend {
		case types.BackendHuggingFace:
			cfg.Generation.Endpoint = DefaultHuggingFaceEndpoint
		case types.BackendClaude:
			cfg.Generation.Endpoint = DefaultClaudeEndpoint
		}
	}

	var err error
	if cfg.Research.Backend == types.ResearchTavily {
		if cfg.Research.APIKey, err = store.Require(secrets.Tavily); err != nil {
			return types.Config{}, err
		}
	}

	switch cfg.Generation.Backend {
	case types.BackendHuggingFace:
		cfg.Generation.APIKey = store.Get(secrets.HuggingFace)
	case types.BackendClaude:
		if cfg.Generation.APIKey, err = store.Require(secrets.Anthropic); err != nil {
			return types.Config{}, err
		}
	case types.BackendGemini:
		if cfg.Generation.APIKey, err = store.Require(secrets.Gemini); err != nil {
			return types.Config{}, err
		}
	}

	return cfg, nil
}

// Validate checks the values that have no sensible fallback.
func Validate(cfg types.Config) error {
	var problems []string
	switch cfg.Research.Backend {
	case types.ResearchTavily, types.ResearchOpenAlex, types.ResearchArxiv:
	default:
		problems = append(problems, fmt.Sprintf("research.backend %q is not one of tavily, openalex, arxiv", cfg.Research.Backend))
	}
	if cfg.Research.MaxResults <= 0 {
		problems = append(problems, fmt.Sprintf("research.max_results must be positive, got %d", cfg.Research.MaxResults))
	}
	switch cfg.Research.SearchDepth {
	case "basic", "advanced":
	default:
		problems = append(problems, fmt.Sprintf("research.search_depth must be basic or advanced, got %q", cfg.Research.SearchDepth))
	}
	if cfg.Generation.MaxTokens <= 0 || cfg.Generation.MaxTokens > math.MaxInt32 {
		problems = append(problems, fmt.Sprintf("generation.max_tokens must be between 1 and %d, got %d", math.MaxInt32, cfg.Generation.MaxTokens))
	}
	if cfg.Generation.Model == "" {
		problems = append(problems, "generation.model must be set")
	}
	switch cfg.Generation.Backend {
	case types.BackendHuggingFace, types.BackendClaude, types.BackendGemini:
	default:
		problems = append(problems, fmt.Sprintf("generation.backend %q is not one of huggingface, claude, gemini", cfg.Generation.Backend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
