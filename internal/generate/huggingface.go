// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/article-engine/internal/httputil"
)

// huggingFaceAPIBase is the Hugging Face inference endpoint; the model id is
// appended as a path. Package-level var for test substitution.
var huggingFaceAPIBase = "https://router.huggingface.co/hf-inference/models"

// HuggingFaceBackend calls a text-generation inference endpoint. It asks for
// the full text so the output echoes the prompt, the same shape a local
// transformers pipeline returns.
type HuggingFaceBackend struct {
	Model  string
	Token  string
	Client *http.Client

	// Endpoint overrides huggingFaceAPIBase when set.
	Endpoint string

	UserAgent string
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Name returns the backend identifier.
func (h *HuggingFaceBackend) Name() string { return "huggingface" }

// Complete posts the prompt and returns the generated_text of the first sequence.
func (h *HuggingFaceBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if h.Model == "" {
		return "", errors.New("no model configured")
	}
	base := h.Endpoint
	if base == "" {
		base = huggingFaceAPIBase
	}

	headers := map[string]string{"User-Agent": h.UserAgent}
	if h.Token != "" {
		headers["Authorization"] = "Bearer " + h.Token
	}

	var raw json.RawMessage
	err := httputil.PostJSON(ctx, h.Client, httputil.Request{
		URL:     strings.TrimRight(base, "/") + "/" + h.Model,
		Headers: headers,
		Body: hfRequest{
			Inputs:     prompt,
			Parameters: hfParameters{MaxNewTokens: maxTokens, ReturnFullText: true},
			Options:    hfOptions{WaitForModel: true},
		},
	}, &raw)
	if err != nil {
		return "", fmt.Errorf("Hugging Face API request: %w", err)
	}

	return parseHFResponse(raw)
}

// parseHFResponse accepts the list form, a single object, or an error object.
func parseHFResponse(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", errors.New("Hugging Face API returned an empty body")
	}

	if raw[0] == '[' {
		var list []hfGeneration
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", fmt.Errorf("parsing Hugging Face response: %w", err)
		}
		if len(list) == 0 {
			return "", errors.New("Hugging Face API returned no generations")
		}
		return list[0].GeneratedText, nil
	}

	var obj struct {
		hfGeneration
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("parsing Hugging Face response: %w", err)
	}
	if obj.Error != "" {
		return "", fmt.Errorf("Hugging Face API error: %s", obj.Error)
	}
	return obj.GeneratedText, nil
}
