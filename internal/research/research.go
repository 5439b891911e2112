// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers web research for a topic. A Provider wraps one
// search Backend and converts every backend error into a failed
// types.ResearchResult, so nothing but a tagged result crosses this boundary.
package research

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/article-engine/pkg/types"
)

// DefaultMaxResults is the number of entries kept when none is configured.
const DefaultMaxResults = 5

// Backend searches a single search API. Tavily covers the web; OpenAlex and
// arXiv cover scholarly sources.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.ResearchEntry, error)
}

// Provider is the research capability used by the pipeline.
type Provider struct {
	backend    Backend
	maxResults int
	logger     *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithMaxResults bounds the number of entries returned.
func WithMaxResults(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxResults = n
		}
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider wraps backend.
func NewProvider(backend Backend, opts ...Option) *Provider {
	p := &Provider{
		backend:    backend,
		maxResults: DefaultMaxResults,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search runs the backend for topic and returns at most maxResults entries in
// backend order. Errors and panics become failed results carrying the topic.
func (p *Provider) Search(ctx context.Context, topic string) (result types.ResearchResult) {
	log := p.logger.With(zap.String("backend", p.backend.Name()), zap.String("topic", topic))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = p.fail(log, topic, fmt.Errorf("backend panic: %v", r))
		}
	}()

	log.Info("starting web search", zap.Int("max_results", p.maxResults))
	entries, err := p.backend.Search(ctx, topic, p.maxResults)
	if err != nil {
		return p.fail(log, topic, err)
	}

	if len(entries) > p.maxResults {
		entries = entries[:p.maxResults]
	}
	if len(entries) == 0 {
		log.Warn("web search returned no results")
	}
	log.Info("web search finished", zap.Int("results", len(entries)), zap.Duration("elapsed", time.Since(start)))

	return types.ResearchResult{Topic: topic, Entries: entries}
}

func (p *Provider) fail(log *zap.Logger, topic string, err error) types.ResearchResult {
	log.Error("web search failed", zap.Error(err))
	return types.ResearchResult{
		Topic: topic,
		Err:   fmt.Errorf("could not perform web search for %s: %w", topic, err),
	}
}
