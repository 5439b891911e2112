// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

func withHFServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	t.Cleanup(func() {
		huggingFaceAPIBase = old
		ts.Close()
	})
	return ts
}

func withClaudeServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() {
		claudeAPIURL = old
		ts.Close()
	})
	return ts
}

func TestHuggingFaceRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody hfRequest
	ts := withHFServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `[{"generated_text": "PROMPT and more"}]`)
	})

	b := &HuggingFaceBackend{Model: "Qwen/Qwen2-0.5B-Instruct", Token: "hf_x", Client: ts.Client()}
	out, err := b.Complete(context.Background(), "PROMPT", 1024)
	require.NoError(t, err)

	assert.Equal(t, "PROMPT and more", out)
	assert.Equal(t, "/Qwen/Qwen2-0.5B-Instruct", gotPath)
	assert.Equal(t, "Bearer hf_x", gotAuth)
	assert.Equal(t, hfRequest{
		Inputs:     "PROMPT",
		Parameters: hfParameters{MaxNewTokens: 1024, ReturnFullText: true},
		Options:    hfOptions{WaitForModel: true},
	}, gotBody)
}

func TestHuggingFaceAnonymous(t *testing.T) {
	ts := withHFServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"generated_text": "single object"}`)
	})

	b := &HuggingFaceBackend{Model: "m", Client: ts.Client()}
	out, err := b.Complete(context.Background(), "p", 8)
	require.NoError(t, err)
	assert.Equal(t, "single object", out)
}

func TestHuggingFaceFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "error object", status: http.StatusOK, body: `{"error": "Model is overloaded"}`, wantErr: "Model is overloaded"},
		{name: "empty list", status: http.StatusOK, body: `[]`, wantErr: "no generations"},
		{name: "status", status: http.StatusServiceUnavailable, body: `loading`, wantErr: "HTTP 503"},
		{name: "garbage", status: http.StatusOK, body: `not json`, wantErr: "Hugging Face"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := withHFServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			b := &HuggingFaceBackend{Model: "m", Client: ts.Client()}
			_, err := b.Complete(context.Background(), "p", 8)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHuggingFaceRequiresModel(t *testing.T) {
	_, err := (&HuggingFaceBackend{}).Complete(context.Background(), "p", 8)
	assert.Error(t, err)
}

func TestClaudeRequest(t *testing.T) {
	var gotReq *http.Request
	var gotBody claudeRequest
	ts := withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"New Title: A"},{"type":"tool_use"},{"type":"text","text":"\nBody"}],"stop_reason":"end_turn"}`)
	})

	b := &ClaudeBackend{APIKey: "sk-ant", Model: "claude-sonnet-4-5", Client: ts.Client()}
	out, err := b.Complete(context.Background(), "PROMPT", 512)
	require.NoError(t, err)

	assert.Equal(t, "New Title: A\nBody", out)
	assert.Equal(t, "sk-ant", gotReq.Header.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotReq.Header.Get("anthropic-version"))
	assert.Equal(t, claudeRequest{
		Model:     "claude-sonnet-4-5",
		MaxTokens: 512,
		Messages:  []claudeMessage{{Role: "user", Content: "PROMPT"}},
	}, gotBody)
}

func TestClaudeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "empty content", status: http.StatusOK, body: `{"content":[]}`, wantErr: "empty content"},
		{name: "no text blocks", status: http.StatusOK, body: `{"content":[{"type":"tool_use"}]}`, wantErr: "no text content"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`, wantErr: "HTTP 401"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			b := &ClaudeBackend{APIKey: "k", Model: "m", Client: ts.Client()}
			_, err := b.Complete(context.Background(), "p", 8)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClaudeStatusErrorUnwraps(t *testing.T) {
	ts := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", 529)
	})
	b := &ClaudeBackend{APIKey: "k", Model: "m", Client: ts.Client()}
	_, err := b.Complete(context.Background(), "p", 8)

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 529, se.StatusCode)
}

func TestGeminiComplete(t *testing.T) {
	var gotPath, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Gemini draft."}]}}]}`)
	}))
	defer ts.Close()

	b, err := NewGeminiBackend(context.Background(), "gm-key", "gemini-2.0-flash", ts.URL+"/", ts.Client())
	require.NoError(t, err)

	out, err := b.Complete(context.Background(), "PROMPT", 64)
	require.NoError(t, err)
	assert.Equal(t, "Gemini draft.", out)
	assert.True(t, strings.HasSuffix(gotPath, "gemini-2.0-flash:generateContent"), gotPath)
	assert.Equal(t, "gm-key", gotKey)
}

func TestGeminiClampsMaxTokens(t *testing.T) {
	var body struct {
		GenerationConfig struct {
			MaxOutputTokens int64 `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`)
	}))
	defer ts.Close()

	b, err := NewGeminiBackend(context.Background(), "gm-key", "gemini-2.0-flash", ts.URL+"/", ts.Client())
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), "PROMPT", math.MaxInt32+10)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt32), body.GenerationConfig.MaxOutputTokens)
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name     string
		cfg      types.GenerationConfig
		wantName string
		wantErr  bool
	}{
		{name: "huggingface", cfg: types.GenerationConfig{Backend: types.BackendHuggingFace, Model: "m"}, wantName: "huggingface"},
		{name: "default", cfg: types.GenerationConfig{Model: "m"}, wantName: "huggingface"},
		{name: "claude", cfg: types.GenerationConfig{Backend: types.BackendClaude, Model: "m", APIKey: "k"}, wantName: "claude"},
		{name: "gemini", cfg: types.GenerationConfig{Backend: types.BackendGemini, Model: "m", APIKey: "k"}, wantName: "gemini"},
		{name: "gemini without key", cfg: types.GenerationConfig{Backend: types.BackendGemini, Model: "m"}, wantErr: true},
		{name: "unknown", cfg: types.GenerationConfig{Backend: "llama"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(context.Background(), tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}
