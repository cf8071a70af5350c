package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	confirmSuffixConstant             = " [y/N] "
	affirmativeShortAnswerConstant    = "y"
	affirmativeLongAnswerConstant     = "yes"
	selectAllAnswerConstant           = "all"
	lineSelectOptionTemplateConstant  = "  %d) %s\n"
	lineSelectDetailTemplateConstant  = "  %d) %s  %s\n"
	lineSelectHeaderTemplateConstant  = "%s\n"
	lineSelectPromptConstant          = "Enter numbers separated by spaces or commas, \"all\", or leave empty for none: "
	lineSelectIgnoredTemplateConstant = "Ignoring invalid selection %q\n"
	lineSelectFieldSeparatorsConstant = ", "
)

// LinePrompter asks questions over plain text streams.
type LinePrompter struct {
	reader  *bufio.Reader
	writer  io.Writer
	palette Palette
}

// NewLinePrompter constructs a prompter reading answers from input and writing prompts to output.
func NewLinePrompter(input io.Reader, output io.Writer, palette Palette) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(input), writer: output, palette: palette}
}

// Confirm asks a yes/no question that defaults to no.
func (prompter *LinePrompter) Confirm(prompt string) (bool, error) {
	if _, writeError := io.WriteString(prompter.writer, prompt+confirmSuffixConstant); writeError != nil {
		return false, writeError
	}

	response, readError := prompter.readLine()
	if readError != nil {
		return false, readError
	}

	switch strings.ToLower(response) {
	case affirmativeShortAnswerConstant, affirmativeLongAnswerConstant:
		return true, nil
	default:
		return false, nil
	}
}

// SelectMany lists numbered options and returns the values whose numbers were entered, in option order.
func (prompter *LinePrompter) SelectMany(title string, options []SelectOption) ([]string, error) {
	if _, writeError := fmt.Fprintf(prompter.writer, lineSelectHeaderTemplateConstant, prompter.palette.Header(title)); writeError != nil {
		return nil, writeError
	}
	for index, option := range options {
		if len(option.Detail) > 0 {
			_, _ = fmt.Fprintf(prompter.writer, lineSelectDetailTemplateConstant, index+1, option.Label, prompter.palette.Muted(option.Detail))
			continue
		}
		_, _ = fmt.Fprintf(prompter.writer, lineSelectOptionTemplateConstant, index+1, option.Label)
	}
	if _, writeError := io.WriteString(prompter.writer, lineSelectPromptConstant); writeError != nil {
		return nil, writeError
	}

	response, readError := prompter.readLine()
	if readError != nil {
		return nil, readError
	}

	selected := make([]bool, len(options))
	for _, token := range strings.FieldsFunc(response, isSelectionSeparator) {
		if strings.EqualFold(token, selectAllAnswerConstant) {
			for index := range selected {
				selected[index] = true
			}
			continue
		}
		position, conversionError := strconv.Atoi(token)
		if conversionError != nil || position < 1 || position > len(options) {
			_, _ = fmt.Fprintf(prompter.writer, lineSelectIgnoredTemplateConstant, token)
			continue
		}
		selected[position-1] = true
	}

	values := []string{}
	for index, option := range options {
		if selected[index] {
			values = append(values, option.Value)
		}
	}
	return values, nil
}

func (prompter *LinePrompter) readLine() (string, error) {
	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}
	return strings.TrimSpace(response), nil
}

func isSelectionSeparator(character rune) bool {
	return strings.ContainsRune(lineSelectFieldSeparatorsConstant, character) || character == '\t'
}
