package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	spinnerLineTemplateConstant  = "%s %s"
	successMarkerConstant        = "✔"
	failureMarkerConstant        = "✖"
	finishedLineTemplateConstant = "%s %s\n"
)

// Progress reports the outcome of a long-running step that was announced with StartProgress.
type Progress interface {
	Succeed(message string)
	Fail(message string)
}

type spinnerFinishedMsg struct {
	line string
}

type spinnerModel struct {
	spinner   spinner.Model
	message   string
	finalLine string
	finished  bool
}

func (model spinnerModel) Init() tea.Cmd {
	return model.spinner.Tick
}

func (model spinnerModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case spinnerFinishedMsg:
		model.finished = true
		model.finalLine = typedMessage.line
		return model, tea.Quit
	case spinner.TickMsg:
		var tickCommand tea.Cmd
		model.spinner, tickCommand = model.spinner.Update(typedMessage)
		return model, tickCommand
	default:
		return model, nil
	}
}

func (model spinnerModel) View() string {
	if model.finished {
		return model.finalLine + "\n"
	}
	return fmt.Sprintf(spinnerLineTemplateConstant, model.spinner.View(), model.message)
}

// spinnerProgress animates a spinner in its own bubbletea program until Succeed or Fail is called.
type spinnerProgress struct {
	program  *tea.Program
	done     chan struct{}
	palette  Palette
	finisher sync.Once
}

func startSpinnerProgress(output io.Writer, palette Palette, message string) *spinnerProgress {
	model := spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(palette.cursorStyle)),
		message: message,
	}
	progress := &spinnerProgress{
		program: tea.NewProgram(model, tea.WithOutput(output), tea.WithInput(nil), tea.WithoutSignalHandler()),
		done:    make(chan struct{}),
		palette: palette,
	}
	go func() {
		defer close(progress.done)
		_, _ = progress.program.Run()
	}()
	return progress
}

func (progress *spinnerProgress) Succeed(message string) {
	progress.finish(progress.palette.Success(successMarkerConstant) + " " + message)
}

func (progress *spinnerProgress) Fail(message string) {
	progress.finish(progress.palette.Failure(failureMarkerConstant) + " " + message)
}

func (progress *spinnerProgress) finish(line string) {
	progress.finisher.Do(func() {
		progress.program.Send(spinnerFinishedMsg{line: line})
		<-progress.done
	})
}

// lineProgress prints only the outcome, for writers that are not terminals.
type lineProgress struct {
	output  io.Writer
	palette Palette
}

func (progress lineProgress) Succeed(message string) {
	_, _ = fmt.Fprintf(progress.output, finishedLineTemplateConstant, progress.palette.Success(successMarkerConstant), message)
}

func (progress lineProgress) Fail(message string) {
	_, _ = fmt.Fprintf(progress.output, finishedLineTemplateConstant, progress.palette.Failure(failureMarkerConstant), message)
}
