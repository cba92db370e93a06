package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hilsamlabs/hostprep/pkg/provision"
)

// PlainProgress returns a progress callback that prints one styled line
// per stage. Used when stdout is not a terminal.
func PlainProgress(out io.Writer) provision.ProgressFunc {
	return func(event provision.Event) {
		switch {
		case event.Err != nil:
			fmt.Fprintf(out, "%s %s: %v\n", ErrorStyle.Render("✗"), event.Stage.DisplayName(), event.Err)
		case event.Stage == provision.StageComplete:
			fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("✓"), event.Message)
		default:
			fmt.Fprintf(out, "%s %s\n", InfoStyle.Render("→"), event.Message)
		}
	}
}

type eventMsg provision.Event

type finishedMsg struct {
	err error
}

type stageState struct {
	stage   provision.Stage
	message string
	err     error
}

// progressModel renders a provisioning run: completed stages with their
// outcome, plus a spinner on the stage in flight.
type progressModel struct {
	title    string
	spin     spinner.Model
	done     []stageState
	current  *stageState
	err      error
	finished bool
}

func newProgressModel(title string) progressModel {
	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(InfoStyle),
	)
	return progressModel{title: title, spin: spin}
}

// Init implements tea.Model.
func (m progressModel) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventMsg:
		event := provision.Event(msg)
		if m.current != nil {
			m.done = append(m.done, *m.current)
			m.current = nil
		}
		state := stageState{stage: event.Stage, message: event.Message, err: event.Err}
		if event.Err != nil || event.Stage == provision.StageComplete {
			m.done = append(m.done, state)
		} else {
			m.current = &state
		}
		return m, nil

	case finishedMsg:
		if m.current != nil {
			m.done = append(m.done, *m.current)
			m.current = nil
		}
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")

	for _, state := range m.done {
		if state.err != nil {
			fmt.Fprintf(&b, "%s %s: %v\n", ErrorStyle.Render("✗"), state.stage.DisplayName(), state.err)
		} else {
			fmt.Fprintf(&b, "%s %s\n", SuccessStyle.Render("✓"), state.message)
		}
	}

	if m.current != nil {
		fmt.Fprintf(&b, "%s %s\n", m.spin.View(), m.current.message)
	}

	if m.finished && m.err == nil {
		b.WriteString(DimStyle.Render("done"))
		b.WriteString("\n")
	}

	return b.String()
}

// ProgressUI drives the progress model while a provisioning run executes
// in another goroutine.
type ProgressUI struct {
	program *tea.Program
}

// NewProgressUI creates a progress display with the given title.
func NewProgressUI(title string) *ProgressUI {
	return &ProgressUI{
		program: tea.NewProgram(newProgressModel(title)),
	}
}

// Report is the progress callback to hand to a provisioner.
func (ui *ProgressUI) Report(event provision.Event) {
	ui.program.Send(eventMsg(event))
}

// Finish signals that the run ended and shuts the display down.
func (ui *ProgressUI) Finish(err error) {
	ui.program.Send(finishedMsg{err: err})
}

// Run blocks until the display shuts down.
func (ui *ProgressUI) Run() error {
	_, err := ui.program.Run()
	return err
}
