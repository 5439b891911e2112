// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate provides the text generation capability. A Generator
// wraps one Backend (Hugging Face, Claude, Gemini), strips the echoed prompt
// from the raw output, and converts every backend error into a failed
// types.GenerationResult.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Backend produces raw model output for a prompt. The output may or may not
// echo the prompt. Per Strategy pattern, one implementation per provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Generator is the text generation capability shared by the draft and refine
// stages. It holds no per-call state.
type Generator struct {
	backend Backend
	logger  *zap.Logger
	counter *TokenCounter
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTokenCounter enables prompt token accounting in the logs.
func WithTokenCounter(c *TokenCounter) Option {
	return func(g *Generator) { g.counter = c }
}

// NewGenerator wraps backend.
func NewGenerator(backend Backend, opts ...Option) *Generator {
	g := &Generator{backend: backend, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Backend returns the wrapped backend.
func (g *Generator) Backend() Backend { return g.backend }

// Generate runs the backend and returns only the newly generated text.
// Errors and panics become failed results.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (result types.GenerationResult) {
	log := g.logger.With(zap.String("backend", g.backend.Name()), zap.Int("max_tokens", maxTokens))
	if g.counter != nil {
		log = log.With(zap.Int("prompt_tokens", g.counter.Count(prompt)))
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("backend panic: %v", r)
			log.Error("generation failed", zap.Error(err))
			result = types.GenerationResult{Err: err}
		}
	}()

	log.Debug("starting generation")
	raw, err := g.backend.Complete(ctx, prompt, maxTokens)
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return types.GenerationResult{Err: fmt.Errorf("%s generation: %w", g.backend.Name(), err)}
	}

	text := StripPrompt(prompt, raw)
	log.Info("generation finished",
		zap.Int("raw_chars", len(raw)),
		zap.Int("text_chars", len(text)),
		zap.Bool("prompt_echoed", len(text) != len(raw)),
		zap.Duration("elapsed", time.Since(start)))
	return types.GenerationResult{Text: text}
}

// StripPrompt returns the newly generated part of raw. A leading echo of
// prompt is cut off exactly; otherwise the text after the last occurrence of
// prompt is returned. When raw does not contain prompt verbatim (the backend
// did not echo it, or truncated or paraphrased it) raw is returned unchanged.
func StripPrompt(prompt, raw string) string {
	if prompt == "" {
		return raw
	}
	if rest, ok := strings.CutPrefix(raw, prompt); ok {
		return rest
	}
	idx := strings.LastIndex(raw, prompt)
	if idx < 0 {
		return raw
	}
	return raw[idx+len(prompt):]
}
