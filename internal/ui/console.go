package ui

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Console is the interaction surface of the command line: progress, confirmation, and selection.
type Console struct {
	input       io.Reader
	output      io.Writer
	interactive bool
	palette     Palette
	prompter    *LinePrompter
}

// NewConsole builds a Console that uses terminal widgets only when both input and output are terminals.
func NewConsole(input io.Reader, output io.Writer) *Console {
	palette := NewPalette(output)
	return &Console{
		input:       input,
		output:      output,
		interactive: isTerminal(input) && isTerminal(output),
		palette:     palette,
		prompter:    NewLinePrompter(input, output, palette),
	}
}

// Output is the writer listings and reports go to.
func (console *Console) Output() io.Writer {
	return console.output
}

// Palette returns the styles bound to the console output.
func (console *Console) Palette() Palette {
	return console.palette
}

// StartProgress announces a long-running step.
func (console *Console) StartProgress(message string) Progress {
	if console.interactive {
		return startSpinnerProgress(console.output, console.palette, message)
	}
	return lineProgress{output: console.output, palette: console.palette}
}

// Confirm asks a yes/no question that defaults to no.
func (console *Console) Confirm(prompt string) (bool, error) {
	return console.prompter.Confirm(prompt)
}

// SelectMany lets the user pick any number of options and returns their values in option order.
func (console *Console) SelectMany(executionContext context.Context, title string, options []SelectOption) ([]string, error) {
	if console.interactive {
		return runMultiSelect(executionContext, console.input, console.output, console.palette, title, options)
	}
	return console.prompter.SelectMany(title, options)
}

func isTerminal(stream any) bool {
	file, isFile := stream.(*os.File)
	if !isFile {
		return false
	}
	descriptor := file.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}
