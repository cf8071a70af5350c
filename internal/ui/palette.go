package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	currentColorConstant = "2"
	staleColorConstant   = "1"
	mutedColorConstant   = "244"
	successColorConstant = "2"
	failureColorConstant = "1"
	warningColorConstant = "3"
	headerColorConstant  = "6"
	cursorColorConstant  = "170"
)

// Palette holds the styles used for branch listings and reports.
type Palette struct {
	currentStyle lipgloss.Style
	staleStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
	successStyle lipgloss.Style
	failureStyle lipgloss.Style
	warningStyle lipgloss.Style
	headerStyle  lipgloss.Style
	cursorStyle  lipgloss.Style
}

// NewPalette builds styles whose color profile matches writer.
func NewPalette(writer io.Writer) Palette {
	renderer := lipgloss.NewRenderer(writer)
	return Palette{
		currentStyle: renderer.NewStyle().Foreground(lipgloss.Color(currentColorConstant)).Bold(true),
		staleStyle:   renderer.NewStyle().Foreground(lipgloss.Color(staleColorConstant)),
		mutedStyle:   renderer.NewStyle().Foreground(lipgloss.Color(mutedColorConstant)),
		successStyle: renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		failureStyle: renderer.NewStyle().Foreground(lipgloss.Color(failureColorConstant)),
		warningStyle: renderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		headerStyle:  renderer.NewStyle().Foreground(lipgloss.Color(headerColorConstant)).Bold(true),
		cursorStyle:  renderer.NewStyle().Foreground(lipgloss.Color(cursorColorConstant)).Bold(true),
	}
}

// Current renders the checked-out branch.
func (palette Palette) Current(text string) string {
	return palette.currentStyle.Render(text)
}

// Stale renders a branch whose upstream is gone.
func (palette Palette) Stale(text string) string {
	return palette.staleStyle.Render(text)
}

// Muted renders secondary details such as commit summaries.
func (palette Palette) Muted(text string) string {
	return palette.mutedStyle.Render(text)
}

// Success renders a completed action.
func (palette Palette) Success(text string) string {
	return palette.successStyle.Render(text)
}

// Failure renders a failed action.
func (palette Palette) Failure(text string) string {
	return palette.failureStyle.Render(text)
}

// Warning renders a skipped action or a notice.
func (palette Palette) Warning(text string) string {
	return palette.warningStyle.Render(text)
}

// Header renders a section title.
func (palette Palette) Header(text string) string {
	return palette.headerStyle.Render(text)
}

func (palette Palette) cursor(text string) string {
	return palette.cursorStyle.Render(text)
}
