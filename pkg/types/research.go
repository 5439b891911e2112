// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ResearchEntry is one search hit returned by a research backend.
type ResearchEntry struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the source address of the page.
	URL string `json:"url" yaml:"url"`

	// Content is the excerpt the provider extracted from the page.
	Content string `json:"content" yaml:"content"`
}

// ResearchResult is the outcome of a research call. Exactly one of Entries
// (possibly empty) or Err is meaningful: a result with a non-nil Err is a
// failure and its Entries must not be used.
type ResearchResult struct {
	// Topic is the topic that was searched.
	Topic string `json:"topic" yaml:"topic"`

	// Entries lists the results in provider order.
	Entries []ResearchEntry `json:"entries,omitempty" yaml:"entries,omitempty"`

	// Err is the failure cause; nil on success.
	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the research call failed.
func (r ResearchResult) Failed() bool {
	return r.Err != nil
}

// Text renders the entries as the numbered block handed to the draft stage.
// It returns "" for a failed result.
func (r ResearchResult) Text() string {
	if r.Failed() {
		return ""
	}
	var b strings.Builder
	for i, e := range r.Entries {
		fmt.Fprintf(&b, "Result %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", e.Title)
		fmt.Fprintf(&b, "URL: %s\n", e.URL)
		fmt.Fprintf(&b, "Content: %s\n\n", e.Content)
	}
	return b.String()
}

// GenerationResult is the outcome of a text generation call. Text holds only
// newly generated text, never an echo of the prompt.
type GenerationResult struct {
	Text string `json:"text" yaml:"text"`

	// Err is the failure cause; nil on success.
	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the generation call failed.
func (g GenerationResult) Failed() bool {
	return g.Err != nil
}
