// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/pdiddy/article-engine/pkg/types"

// Hooks observe a run. Every field is optional. They are called
// synchronously on the goroutine executing the run and must not block for
// long.
type Hooks struct {
	RunStarted    func(runID, topic string)
	StageStarted  func(stage types.Stage)
	StageFinished func(out types.StageOutput)
	RunFinished   func(state State, final types.StageOutput)
}

// Chain returns hooks that call each of hs in order.
func Chain(hs ...Hooks) Hooks {
	return Hooks{
		RunStarted: func(runID, topic string) {
			for _, h := range hs {
				h.runStarted(runID, topic)
			}
		},
		StageStarted: func(stage types.Stage) {
			for _, h := range hs {
				h.stageStarted(stage)
			}
		},
		StageFinished: func(out types.StageOutput) {
			for _, h := range hs {
				h.stageFinished(out)
			}
		},
		RunFinished: func(state State, final types.StageOutput) {
			for _, h := range hs {
				h.runFinished(state, final)
			}
		},
	}
}

func (h Hooks) runStarted(runID, topic string) {
	if h.RunStarted != nil {
		h.RunStarted(runID, topic)
	}
}

func (h Hooks) stageStarted(stage types.Stage) {
	if h.StageStarted != nil {
		h.StageStarted(stage)
	}
}

func (h Hooks) stageFinished(out types.StageOutput) {
	if h.StageFinished != nil {
		h.StageFinished(out)
	}
}

func (h Hooks) runFinished(state State, final types.StageOutput) {
	if h.RunFinished != nil {
		h.RunFinished(state, final)
	}
}
