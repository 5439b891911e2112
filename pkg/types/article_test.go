// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureMessage(t *testing.T) {
	f := NewFailure(StageResearch, "Quantum Networking", errors.New("dial tcp: connection refused"))

	msg := f.Error()
	assert.True(t, strings.HasPrefix(msg, "Error:"), "message %q must start with the marker", msg)
	assert.Contains(t, msg, "Quantum Networking")
	assert.Contains(t, msg, "connection refused")
	assert.Contains(t, msg, "research")
}

func TestNewFailureNilError(t *testing.T) {
	f := NewFailure(StageDraft, "t", nil)
	assert.Equal(t, "unknown error", f.Cause)
	assert.Equal(t, StageDraft, f.Stage)
}

func TestStageOutput(t *testing.T) {
	ok := Succeeded(StageDraft, "draft text")
	assert.True(t, ok.OK())
	assert.Equal(t, "draft text", ok.String())

	bad := Failed(StageRefine, "Edge Computing", errors.New("model unavailable"))
	assert.False(t, bad.OK())
	assert.Equal(t, StageRefine, bad.Stage)
	assert.Empty(t, bad.Text)
	assert.Equal(t, bad.Failure.Error(), bad.String())

	var f *Failure
	require.True(t, errors.As(error(bad.Failure), &f))
	assert.Equal(t, "Edge Computing", f.Topic)
}

func TestStageOutputTextContainingMarkerIsNotFailure(t *testing.T) {
	out := Succeeded(StageRefine, "Error: handling in Go is explicit.")
	assert.True(t, out.OK())
}

func TestParseArticle(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Article
		wantOK bool
	}{
		{
			name: "full layout",
			text: "New Title: Edge Computing in 2025\nMeta Description: Why the edge matters.\n---\nEdge computing moves work closer.\n\n#EdgeComputing",
			want: Article{
				Title:           "Edge Computing in 2025",
				MetaDescription: "Why the edge matters.",
				Body:            "Edge computing moves work closer.\n\n#EdgeComputing",
			},
			wantOK: true,
		},
		{
			name:   "leading whitespace and indentation",
			text:   "\n\n  New Title: T\n  Meta Description: M\n  ---\nBody line",
			want:   Article{Title: "T", MetaDescription: "M", Body: "Body line"},
			wantOK: true,
		},
		{
			name:   "missing separator",
			text:   "New Title: T\nMeta Description: M\nBody directly",
			want:   Article{Title: "T", MetaDescription: "M", Body: "Body directly"},
			wantOK: true,
		},
		{
			name:   "no headers",
			text:   "  Just an article.  ",
			want:   Article{Body: "Just an article."},
			wantOK: false,
		},
		{
			name:   "title only",
			text:   "New Title: T\nbody",
			want:   Article{Body: "New Title: T\nbody"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseArticle(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
