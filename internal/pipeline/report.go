// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Report is a caller-side record of one run, filled in through hooks. The
// pipeline itself keeps nothing once Run returns.
type Report struct {
	RunID  string              `json:"run_id" yaml:"run_id"`
	Topic  string              `json:"topic" yaml:"topic"`
	State  State               `json:"state" yaml:"state"`
	Stages []types.StageOutput `json:"stages" yaml:"stages"`
	Final  types.StageOutput   `json:"final" yaml:"final"`

	// Article is the parsed final text; nil when the run failed.
	Article *types.Article `json:"article,omitempty" yaml:"article,omitempty"`
}

// Hooks returns hooks that record the run into r.
func (r *Report) Hooks() Hooks {
	return Hooks{
		RunStarted: func(runID, topic string) {
			r.RunID = runID
			r.Topic = topic
			r.State = StateResearching
			r.Stages = nil
		},
		StageStarted: func(stage types.Stage) {
			r.State = StateFor(stage)
		},
		StageFinished: func(out types.StageOutput) {
			r.Stages = append(r.Stages, out)
		},
		RunFinished: func(state State, final types.StageOutput) {
			r.State = state
			r.Final = final
			if final.OK() {
				a, _ := types.ParseArticle(final.Text)
				r.Article = &a
			}
		},
	}
}

// Failed reports whether the run ended in the FAILED state.
func (r *Report) Failed() bool { return r.State == StateFailed }

// RunReported runs topic and returns the report of the run. The extra hooks
// fire after the report has recorded each event.
func (p *Pipeline) RunReported(ctx context.Context, topic string, extra ...Hooks) *Report {
	r := &Report{}
	p.RunWithHooks(ctx, topic, Chain(append([]Hooks{r.Hooks()}, extra...)...))
	return r
}
