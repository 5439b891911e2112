// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/article-engine/internal/config"
	"github.com/pdiddy/article-engine/internal/generate"
	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/internal/research"
	"github.com/pdiddy/article-engine/pkg/types"
)

// buildPipeline loads configuration and constructs both capabilities once.
// Missing credentials and invalid settings fail here, before any run.
func buildPipeline(ctx context.Context, opts ...pipeline.Option) (*pipeline.Pipeline, types.Config, error) {
	cfg, err := config.Load(viper.GetViper(), store)
	if err != nil {
		return nil, types.Config{}, err
	}

	searchBackend, err := research.NewBackend(cfg.Research)
	if err != nil {
		return nil, cfg, err
	}
	provider := research.NewProvider(searchBackend,
		research.WithMaxResults(cfg.Research.MaxResults),
		research.WithLogger(logger.Named("research")),
	)

	genBackend, err := generate.NewBackend(ctx, cfg.Generation)
	if err != nil {
		return nil, cfg, fmt.Errorf("creating generation backend: %w", err)
	}
	generator := generate.NewGenerator(genBackend,
		generate.WithLogger(logger.Named("generate")),
		generate.WithTokenCounter(generate.NewTokenCounter()),
	)

	logger.Info("pipeline ready",
		zap.String("search", searchBackend.Name()),
		zap.String("generation", genBackend.Name()),
		zap.String("model", cfg.Generation.Model),
		zap.String("endpoint", cfg.Generation.Endpoint))

	base := []pipeline.Option{
		pipeline.WithMaxTokens(cfg.Generation.MaxTokens),
		pipeline.WithLogger(logger.Named("pipeline")),
	}
	return pipeline.New(provider, generator, append(base, opts...)...), cfg, nil
}
