// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data shared across the article pipeline: stage
// outputs and failures, capability results, the parsed article, and
// configuration.
package types

import (
	"fmt"
	"strings"
)

// Stage names one step of the article pipeline.
type Stage string

const (
	StageResearch Stage = "research"
	StageDraft    Stage = "draft"
	StageRefine   Stage = "refine"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageResearch, StageDraft, StageRefine}

// Failure describes why a stage produced no text. It implements error so
// callers can use errors.As on it.
type Failure struct {
	// Stage is the stage that failed.
	Stage Stage `json:"stage" yaml:"stage"`

	// Topic is the topic the run was started with.
	Topic string `json:"topic" yaml:"topic"`

	// Cause is a human-readable description of the underlying error.
	Cause string `json:"cause" yaml:"cause"`
}

// Error returns a message that always starts with "Error:" and names the topic.
func (f *Failure) Error() string {
	return fmt.Sprintf("Error: %s stage failed for %q: %s", f.Stage, f.Topic, f.Cause)
}

// NewFailure builds a Failure from a Go error.
func NewFailure(stage Stage, topic string, err error) *Failure {
	cause := "unknown error"
	if err != nil && err.Error() != "" {
		cause = err.Error()
	}
	return &Failure{Stage: stage, Topic: topic, Cause: cause}
}

// StageOutput is the tagged value flowing between stages: either Text or a
// Failure, never both.
type StageOutput struct {
	Stage   Stage    `json:"stage" yaml:"stage"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Failure *Failure `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Succeeded returns a successful output for stage.
func Succeeded(stage Stage, text string) StageOutput {
	return StageOutput{Stage: stage, Text: text}
}

// Failed returns a failed output for stage.
func Failed(stage Stage, topic string, err error) StageOutput {
	return StageOutput{Stage: stage, Failure: NewFailure(stage, topic, err)}
}

// OK reports whether the output carries text rather than a failure.
func (o StageOutput) OK() bool {
	return o.Failure == nil
}

// String returns the text on success or the failure message otherwise.
func (o StageOutput) String() string {
	if o.Failure != nil {
		return o.Failure.Error()
	}
	return o.Text
}

// Article is the best-effort parse of a refined post. The layout is only
// requested from the model through the prompt, so every field may be empty.
type Article struct {
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	Body            string `json:"body" yaml:"body"`
}

const (
	titlePrefix   = "New Title:"
	metaPrefix    = "Meta Description:"
	bodySeparator = "---"
)

// ParseArticle splits refined text into title, meta description, and body.
// The boolean reports whether both header lines were found; when false the
// returned Article holds the trimmed text as Body.
func ParseArticle(text string) (Article, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var a Article
	bodyStart := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case a.Title == "" && strings.HasPrefix(trimmed, titlePrefix):
			a.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, titlePrefix))
		case a.MetaDescription == "" && strings.HasPrefix(trimmed, metaPrefix):
			a.MetaDescription = strings.TrimSpace(strings.TrimPrefix(trimmed, metaPrefix))
		case trimmed == bodySeparator && a.Title != "" && a.MetaDescription != "":
			bodyStart = i + 1
		}
		if bodyStart >= 0 {
			break
		}
	}

	if a.Title == "" || a.MetaDescription == "" {
		return Article{Body: strings.TrimSpace(text)}, false
	}
	if bodyStart < 0 {
		// No separator: the body is whatever follows the meta description line.
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), metaPrefix) {
				bodyStart = i + 1
				break
			}
		}
	}
	a.Body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return a, true
}
