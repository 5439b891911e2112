// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is an interactive front-end for the article pipeline: enter a
// topic, watch each stage fill its pane, read the rendered final post.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Runner runs one article pipeline and reports on it.
type Runner interface {
	RunReported(ctx context.Context, topic string, extra ...pipeline.Hooks) *pipeline.Report
}

const defaultWidth = 80

var stageLabels = map[types.Stage]string{
	types.StageResearch: "Researching topic...",
	types.StageDraft:    "Writing first draft...",
	types.StageRefine:   "Analyzing and improving for SEO...",
}

var paneTitles = map[types.Stage]string{
	types.StageResearch: "Research Results",
	types.StageDraft:    "First Draft",
	types.StageRefine:   "Final SEO-Optimized Post",
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Messages carried from the pipeline goroutine into Update.
type (
	stageStartedMsg  struct{ stage types.Stage }
	stageFinishedMsg struct{ out types.StageOutput }
	runDoneMsg       struct{ report *pipeline.Report }
)

// App is the bubbletea model.
type App struct {
	ctx    context.Context
	runner Runner

	input   textinput.Model
	spinner spinner.Model
	width   int

	running bool
	active  types.Stage
	panes   map[types.Stage]string
	errLine string
	report  *pipeline.Report

	events chan tea.Msg
	cancel context.CancelFunc
}

// New returns the initial model. ctx bounds every run started from the UI.
func New(ctx context.Context, runner Runner) *App {
	ti := textinput.New()
	ti.Placeholder = "Enter blog topic (e.g., Edge Computing)"
	ti.Prompt = "│ "
	ti.CharLimit = 256
	ti.Width = defaultWidth - 4
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ctx:     ctx,
		runner:  runner,
		input:   ti,
		spinner: sp,
		width:   defaultWidth,
		panes:   map[types.Stage]string{},
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, runner Runner) error {
	_, err := tea.NewProgram(New(ctx, runner), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			a.stop()
			return a, tea.Quit
		case tea.KeyEnter:
			if a.running {
				return a, nil
			}
			topic := strings.TrimSpace(a.input.Value())
			if topic == "" {
				a.errLine = "Please enter a blog topic."
				return a, nil
			}
			model, cmd := a.startRun(topic)
			return model, tea.Batch(cmd, a.spinner.Tick)
		}

	case tea.WindowSizeMsg:
		a.width = max(40, msg.Width)
		a.input.Width = a.width - 4
		return a, nil

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case stageStartedMsg:
		a.active = msg.stage
		return a, listen(a.events)

	case stageFinishedMsg:
		if msg.out.OK() {
			a.panes[msg.out.Stage] = msg.out.Text
		} else {
			a.errLine = msg.out.Failure.Error()
		}
		return a, listen(a.events)

	case runDoneMsg:
		a.running = false
		a.active = ""
		a.report = msg.report
		a.stop()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// startRun launches the pipeline on its own goroutine. Hook events are
// delivered through a.events and picked up by listen.
func (a *App) startRun(topic string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(a.ctx)
	events := make(chan tea.Msg, len(types.Stages)*2+1)

	a.running = true
	a.active = ""
	a.errLine = ""
	a.report = nil
	a.panes = map[types.Stage]string{}
	a.events = events
	a.cancel = cancel

	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)
		report := a.runner.RunReported(ctx, topic, pipeline.Hooks{
			StageStarted:  func(s types.Stage) { send(stageStartedMsg{stage: s}) },
			StageFinished: func(o types.StageOutput) { send(stageFinishedMsg{out: o}) },
		})
		send(runDoneMsg{report: report})
	}()

	return a, listen(events)
}

// stop cancels the current run, if any.
func (a *App) stop() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// listen waits for the next pipeline event.
func listen(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("AI Blog Writing Assistant"))
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	if a.running {
		label := stageLabels[a.active]
		if label == "" {
			label = "Starting..."
		}
		b.WriteString(fmt.Sprintf("%s %s\n\n", a.spinner.View(), statusStyle.Render(label)))
	}
	if a.errLine != "" {
		b.WriteString(errorStyle.Render(a.errLine))
		b.WriteString("\n\n")
	}

	for _, stage := range types.Stages {
		text, ok := a.panes[stage]
		if !ok {
			continue
		}
		if stage == types.StageRefine {
			text = a.renderMarkdown(text)
		}
		b.WriteString(paneStyle.Width(a.width - 2).Render(paneTitleStyle.Render(paneTitles[stage]) + "\n" + strings.TrimRight(text, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: write • esc: quit"))
	return b.String()
}

// renderMarkdown renders the final post; on failure the plain text is shown.
func (a *App) renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(a.width-6),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
