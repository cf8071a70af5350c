package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultSelectPageSize is the number of options visible at once.
	DefaultSelectPageSize           = 10
	selectCursorMarkerConstant      = ">"
	selectBlankMarkerConstant       = " "
	selectCheckedMarkerConstant     = "[x]"
	selectUncheckedMarkerConstant   = "[ ]"
	selectOptionTemplateConstant    = "%s %s %s"
	selectDetailSeparatorConstant   = "  "
	selectHelpTextConstant          = "↑/↓ move • space toggle • a toggle all • enter confirm • esc cancel"
	selectMoreAboveMarkerConstant   = "  ↑ more"
	selectMoreBelowMarkerConstant   = "  ↓ more"
	selectRunFailedTemplateConstant = "unable to run selection: %w"
	selectLineSeparatorConstant     = "\n"
	keyUpConstant                   = "up"
	keyUpAlternateConstant          = "k"
	keyDownConstant                 = "down"
	keyDownAlternateConstant        = "j"
	keyToggleConstant               = " "
	keyToggleAllConstant            = "a"
	keyConfirmConstant              = "enter"
	keyCancelConstant               = "esc"
	keyQuitConstant                 = "q"
	keyInterruptConstant            = "ctrl+c"
	keyHomeConstant                 = "home"
	keyEndConstant                  = "end"
)

// SelectOption is one entry of a multi-select prompt.
type SelectOption struct {
	Value  string
	Label  string
	Detail string
}

type multiSelectModel struct {
	title     string
	options   []SelectOption
	selected  map[int]bool
	cursor    int
	offset    int
	pageSize  int
	confirmed bool
	cancelled bool
	palette   Palette
}

func newMultiSelectModel(title string, options []SelectOption, pageSize int, palette Palette) multiSelectModel {
	if pageSize <= 0 {
		pageSize = DefaultSelectPageSize
	}
	return multiSelectModel{
		title:    title,
		options:  options,
		selected: make(map[int]bool, len(options)),
		pageSize: pageSize,
		palette:  palette,
	}
}

func (model multiSelectModel) Init() tea.Cmd {
	return nil
}

func (model multiSelectModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, isKey := message.(tea.KeyMsg)
	if !isKey {
		return model, nil
	}

	switch keyMessage.String() {
	case keyUpConstant, keyUpAlternateConstant:
		if model.cursor > 0 {
			model.cursor--
		}
	case keyDownConstant, keyDownAlternateConstant:
		if model.cursor < len(model.options)-1 {
			model.cursor++
		}
	case keyHomeConstant:
		model.cursor = 0
	case keyEndConstant:
		model.cursor = max(len(model.options)-1, 0)
	case keyToggleConstant:
		if len(model.options) > 0 {
			model.selected = model.copySelection()
			model.selected[model.cursor] = !model.selected[model.cursor]
		}
	case keyToggleAllConstant:
		model.selected = model.toggleAll()
	case keyConfirmConstant:
		model.confirmed = true
		return model, tea.Quit
	case keyCancelConstant, keyQuitConstant, keyInterruptConstant:
		model.cancelled = true
		return model, tea.Quit
	}

	model.offset = model.adjustOffset()
	return model, nil
}

func (model multiSelectModel) View() string {
	if model.confirmed || model.cancelled {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(model.palette.Header(model.title))
	builder.WriteString(selectLineSeparatorConstant)

	if model.offset > 0 {
		builder.WriteString(model.palette.Muted(selectMoreAboveMarkerConstant))
		builder.WriteString(selectLineSeparatorConstant)
	}

	lastVisible := min(model.offset+model.pageSize, len(model.options))
	for index := model.offset; index < lastVisible; index++ {
		builder.WriteString(model.renderOption(index))
		builder.WriteString(selectLineSeparatorConstant)
	}

	if lastVisible < len(model.options) {
		builder.WriteString(model.palette.Muted(selectMoreBelowMarkerConstant))
		builder.WriteString(selectLineSeparatorConstant)
	}

	builder.WriteString(model.palette.Muted(selectHelpTextConstant))
	builder.WriteString(selectLineSeparatorConstant)
	return builder.String()
}

func (model multiSelectModel) renderOption(index int) string {
	option := model.options[index]
	cursorMarker := selectBlankMarkerConstant
	if index == model.cursor {
		cursorMarker = model.palette.cursor(selectCursorMarkerConstant)
	}
	checkMarker := selectUncheckedMarkerConstant
	if model.selected[index] {
		checkMarker = selectCheckedMarkerConstant
	}
	label := option.Label
	if len(option.Detail) > 0 {
		label = label + selectDetailSeparatorConstant + model.palette.Muted(option.Detail)
	}
	return fmt.Sprintf(selectOptionTemplateConstant, cursorMarker, checkMarker, label)
}

func (model multiSelectModel) adjustOffset() int {
	offset := model.offset
	if model.cursor < offset {
		offset = model.cursor
	}
	if model.cursor >= offset+model.pageSize {
		offset = model.cursor - model.pageSize + 1
	}
	return offset
}

func (model multiSelectModel) copySelection() map[int]bool {
	selection := make(map[int]bool, len(model.selected))
	for index, isSelected := range model.selected {
		selection[index] = isSelected
	}
	return selection
}

func (model multiSelectModel) toggleAll() map[int]bool {
	allSelected := len(model.options) > 0
	for index := range model.options {
		if !model.selected[index] {
			allSelected = false
			break
		}
	}
	selection := make(map[int]bool, len(model.options))
	for index := range model.options {
		selection[index] = !allSelected
	}
	return selection
}

func (model multiSelectModel) selectedValues() []string {
	values := []string{}
	for index, option := range model.options {
		if model.selected[index] {
			values = append(values, option.Value)
		}
	}
	return values
}

// runMultiSelect shows the options in a bubbletea program and returns the chosen values in option order.
func runMultiSelect(executionContext context.Context, input io.Reader, output io.Writer, palette Palette, title string, options []SelectOption) ([]string, error) {
	program := tea.NewProgram(
		newMultiSelectModel(title, options, DefaultSelectPageSize, palette),
		tea.WithContext(executionContext),
		tea.WithInput(input),
		tea.WithOutput(output),
	)

	finalModel, runError := program.Run()
	if runError != nil {
		return nil, classifySelectionRunError(executionContext, runError)
	}

	resultModel, isSelectModel := finalModel.(multiSelectModel)
	if !isSelectModel || resultModel.cancelled {
		return nil, ErrPromptCancelled
	}
	return resultModel.selectedValues(), nil
}

// classifySelectionRunError maps interrupts and context cancellation to ErrPromptCancelled.
// Terminal and I/O failures are returned as errors of their own.
func classifySelectionRunError(executionContext context.Context, runError error) error {
	if executionContext.Err() != nil || errors.Is(runError, tea.ErrInterrupted) {
		return ErrPromptCancelled
	}
	return fmt.Errorf(selectRunFailedTemplateConstant, runError)
}
