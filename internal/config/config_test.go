// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-engine/internal/secrets"
	"github.com/pdiddy/article-engine/pkg/types"
)

func newViper(t *testing.T, yamlDoc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v, "test")
	if yamlDoc != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(yamlDoc)))
	}
	return v
}

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, c := range []secrets.Credential{secrets.Tavily, secrets.HuggingFace, secrets.Anthropic, secrets.Gemini} {
		t.Setenv(c.Env, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("TAVILY_API_KEY", "tvly-test")

	cfg, err := Load(newViper(t, ""), secrets.NewStore(nil))
	require.NoError(t, err)

	assert.Equal(t, types.ResearchTavily, cfg.Research.Backend)
	assert.Equal(t, "tvly-test", cfg.Research.APIKey)
	assert.Equal(t, DefaultResearchEndpoint, cfg.Research.Endpoint)
	assert.Equal(t, "basic", cfg.Research.SearchDepth)
	assert.Equal(t, 5, cfg.Research.MaxResults)
	assert.Equal(t, 30*time.Second, cfg.Research.Timeout)
	assert.Equal(t, "article-engine/test", cfg.Research.UserAgent)

	assert.Equal(t, types.BackendHuggingFace, cfg.Generation.Backend)
	assert.Equal(t, "Qwen/Qwen2-0.5B-Instruct", cfg.Generation.Model)
	assert.Equal(t, DefaultHuggingFaceEndpoint, cfg.Generation.Endpoint)
	assert.Equal(t, 1024, cfg.Generation.MaxTokens)
	assert.Empty(t, cfg.Generation.APIKey)

	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadOverridesFromFile(t *testing.T) {
	clearCredentials(t)
	store := secrets.NewStore(map[string]string{
		"tavily-api-key":    "tvly-file",
		"anthropic-api-key": "sk-ant-file",
	})

	cfg, err := Load(newViper(t, `
research:
  max_results: 3
  search_depth: advanced
generation:
  backend: Claude
  model: claude-sonnet-4-5
  max_tokens: 2048
  timeout: 90s
serve:
  addr: 127.0.0.1:9000
telemetry:
  enabled: true
`), store)
	require.NoError(t, err)

	assert.Equal(t, "tvly-file", cfg.Research.APIKey)
	assert.Equal(t, 3, cfg.Research.MaxResults)
	assert.Equal(t, "advanced", cfg.Research.SearchDepth)
	assert.Equal(t, types.BackendClaude, cfg.Generation.Backend)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Generation.Model)
	assert.Equal(t, DefaultClaudeEndpoint, cfg.Generation.Endpoint)
	assert.Equal(t, "sk-ant-file", cfg.Generation.APIKey)
	assert.Equal(t, 2048, cfg.Generation.MaxTokens)
	assert.Equal(t, 90*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadMissingSearchCredential(t *testing.T) {
	clearCredentials(t)

	_, err := Load(newViper(t, ""), secrets.NewStore(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, secrets.ErrMissingCredential))
	assert.Contains(t, err.Error(), "TAVILY_API_KEY")
}

func TestLoadMissingBackendCredential(t *testing.T) {
	tests := []struct {
		backend string
		env     string
	}{
		{"claude", "ANTHROPIC_API_KEY"},
		{"gemini", "GEMINI_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			clearCredentials(t)
			t.Setenv("TAVILY_API_KEY", "tvly")

			v := newViper(t, "")
			v.Set("generation.backend", tt.backend)

			_, err := Load(v, secrets.NewStore(nil))
			require.Error(t, err)
			assert.True(t, errors.Is(err, secrets.ErrMissingCredential))
			assert.Contains(t, err.Error(), tt.env)
		})
	}
}

func TestLoadScholarlyBackendNeedsNoSearchKey(t *testing.T) {
	clearCredentials(t)

	cfg, err := Load(newViper(t, `
research:
  backend: OpenAlex
  email: dev@example.com
`), secrets.NewStore(nil))
	require.NoError(t, err)
	assert.Equal(t, types.ResearchOpenAlex, cfg.Research.Backend)
	assert.Equal(t, "dev@example.com", cfg.Research.Email)
	assert.Empty(t, cfg.Research.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() types.Config {
		return types.Config{
			Research:   types.ResearchConfig{SearchDepth: "basic", MaxResults: 5},
			Generation: types.GenerationConfig{Backend: types.BackendHuggingFace, Model: "m", MaxTokens: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*types.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*types.Config) {}},
		{name: "zero max results", mutate: func(c *types.Config) { c.Research.MaxResults = 0 }, wantErr: "research.max_results"},
		{name: "bad depth", mutate: func(c *types.Config) { c.Research.SearchDepth = "deep" }, wantErr: "research.search_depth"},
		{name: "negative max tokens", mutate: func(c *types.Config) { c.Generation.MaxTokens = -1 }, wantErr: "generation.max_tokens"},
		{name: "max tokens above int32", mutate: func(c *types.Config) { c.Generation.MaxTokens = math.MaxInt32 + 1 }, wantErr: "generation.max_tokens"},
		{name: "empty model", mutate: func(c *types.Config) { c.Generation.Model = "" }, wantErr: "generation.model"},
		{name: "unknown backend", mutate: func(c *types.Config) { c.Generation.Backend = "llama" }, wantErr: "generation.backend"},
		{name: "unknown research backend", mutate: func(c *types.Config) { c.Research.Backend = "bing" }, wantErr: "research.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
