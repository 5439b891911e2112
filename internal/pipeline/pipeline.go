// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the three article stages in order: research, draft,
// and SEO refine. Each stage yields a types.StageOutput; the first failure
// ends the run and becomes the final artifact.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pdiddy/article-engine/internal/prompt"
	"github.com/pdiddy/article-engine/pkg/types"
)

// DefaultMaxTokens bounds each generation when no option overrides it.
const DefaultMaxTokens = 1024

const tracerName = "github.com/pdiddy/article-engine/internal/pipeline"

// ErrEmptyTopic is the research failure cause for a blank topic.
var ErrEmptyTopic = errors.New("topic is empty")

// Researcher gathers background material for a topic.
type Researcher interface {
	Search(ctx context.Context, topic string) types.ResearchResult
}

// TextGenerator turns a prompt into newly generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) types.GenerationResult
}

// State is the position of a run in the stage sequence.
type State string

const (
	StateResearching State = "RESEARCHING"
	StateDrafting    State = "DRAFTING"
	StateRefining    State = "REFINING"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// StateFor returns the state a run is in while stage executes.
func StateFor(stage types.Stage) State {
	switch stage {
	case types.StageResearch:
		return StateResearching
	case types.StageDraft:
		return StateDrafting
	case types.StageRefine:
		return StateRefining
	}
	return StateFailed
}

// Pipeline holds the two capabilities and carries no per-run state, so one
// value can serve any number of sequential runs.
type Pipeline struct {
	researcher Researcher
	generator  TextGenerator
	maxTokens  int
	logger     *zap.Logger
	hooks      Hooks
	tracer     trace.Tracer

	draftPrompt  prompt.Builder
	refinePrompt prompt.Builder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxTokens sets the generation bound used by both generation stages.
func WithMaxTokens(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithHooks installs hooks that observe every run.
func WithHooks(h Hooks) Option {
	return func(p *Pipeline) { p.hooks = h }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		if tp != nil {
			p.tracer = tp.Tracer(tracerName)
		}
	}
}

// New returns a pipeline over the given capabilities.
func New(researcher Researcher, generator TextGenerator, opts ...Option) *Pipeline {
	p := &Pipeline{
		researcher:   researcher,
		generator:    generator,
		maxTokens:    DefaultMaxTokens,
		logger:       zap.NewNop(),
		tracer:       otel.Tracer(tracerName),
		draftPrompt:  prompt.Draft,
		refinePrompt: prompt.Refine,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes research, draft, and refine for topic and returns the final
// artifact: the refine output, or the first failure. It never returns a Go
// error; callers inspect OK on the result.
func (p *Pipeline) Run(ctx context.Context, topic string) types.StageOutput {
	return p.RunWithHooks(ctx, topic, Hooks{})
}

// RunWithHooks is Run with extra hooks for this run only. They fire after
// the pipeline-wide hooks.
func (p *Pipeline) RunWithHooks(ctx context.Context, topic string, extra Hooks) types.StageOutput {
	hooks := Chain(p.hooks, extra)
	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID), zap.String("topic", topic))

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("topic", topic),
	))
	defer span.End()

	start := time.Now()
	log.Info("run started")
	hooks.runStarted(runID, topic)

	final := p.run(ctx, log, hooks, topic)

	state := StateDone
	if !final.OK() {
		state = StateFailed
		span.SetStatus(codes.Error, final.Failure.Error())
	}
	span.SetAttributes(
		attribute.String("state", string(state)),
		attribute.String("final_stage", string(final.Stage)),
	)
	log.Info("run finished",
		zap.String("state", string(state)),
		zap.String("final_stage", string(final.Stage)),
		zap.Duration("elapsed", time.Since(start)))
	hooks.runFinished(state, final)
	return final
}

func (p *Pipeline) run(ctx context.Context, log *zap.Logger, hooks Hooks, topic string) types.StageOutput {
	research := p.stage(ctx, log, hooks, types.StageResearch, topic, func(ctx context.Context) types.StageOutput {
		if strings.TrimSpace(topic) == "" {
			return types.Failed(types.StageResearch, topic, ErrEmptyTopic)
		}
		res := p.researcher.Search(ctx, topic)
		if res.Failed() {
			return types.Failed(types.StageResearch, topic, res.Err)
		}
		return types.Succeeded(types.StageResearch, res.Text())
	})
	if !research.OK() {
		return research
	}

	draft := p.stage(ctx, log, hooks, types.StageDraft, topic, func(ctx context.Context) types.StageOutput {
		return p.generate(ctx, types.StageDraft, topic, p.draftPrompt, research.Text)
	})
	if !draft.OK() {
		return draft
	}

	return p.stage(ctx, log, hooks, types.StageRefine, topic, func(ctx context.Context) types.StageOutput {
		return p.generate(ctx, types.StageRefine, topic, p.refinePrompt, draft.Text)
	})
}

// stage wraps one step with its span, logs, and hooks.
func (p *Pipeline) stage(ctx context.Context, log *zap.Logger, hooks Hooks, stage types.Stage, topic string, fn func(context.Context) types.StageOutput) types.StageOutput {
	ctx, span := p.tracer.Start(ctx, "pipeline."+string(stage), trace.WithAttributes(
		attribute.String("stage", string(stage)),
		attribute.String("topic", topic),
	))
	defer span.End()

	log = log.With(zap.String("stage", string(stage)))
	log.Debug("stage started", zap.String("state", string(StateFor(stage))))
	hooks.stageStarted(stage)

	start := time.Now()
	out := fn(ctx)

	span.SetAttributes(attribute.Bool("failed", !out.OK()))
	if out.OK() {
		log.Info("stage finished", zap.Int("chars", len(out.Text)), zap.Duration("elapsed", time.Since(start)))
	} else {
		span.RecordError(out.Failure)
		span.SetStatus(codes.Error, out.Failure.Cause)
		log.Warn("stage failed", zap.String("cause", out.Failure.Cause), zap.Duration("elapsed", time.Since(start)))
	}
	hooks.stageFinished(out)
	return out
}

func (p *Pipeline) generate(ctx context.Context, stage types.Stage, topic string, build prompt.Builder, input string) types.StageOutput {
	text, err := build(topic, input)
	if err != nil {
		return types.Failed(stage, topic, err)
	}
	res := p.generator.Generate(ctx, text, p.maxTokens)
	if res.Failed() {
		return types.Failed(stage, topic, res.Err)
	}
	return types.Succeeded(stage, res.Text)
}
