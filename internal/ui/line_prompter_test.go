package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/git-branch-cleaner/internal/ui"
)

func TestLinePrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedResult bool
	}{
		{name: "short_yes", input: "y\n", expectedResult: true},
		{name: "long_yes_mixed_case", input: "  YES \n", expectedResult: true},
		{name: "no", input: "n\n", expectedResult: false},
		{name: "empty_defaults_to_no", input: "\n", expectedResult: false},
		{name: "end_of_input_defaults_to_no", input: "", expectedResult: false},
		{name: "yes_without_newline", input: "y", expectedResult: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			output := &bytes.Buffer{}
			prompter := ui.NewLinePrompter(strings.NewReader(testCase.input), output, ui.NewPalette(output))

			confirmed, confirmError := prompter.Confirm("Are you sure you want to delete 2 branches?")
			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expectedResult, confirmed)
			require.Equal(testInstance, "Are you sure you want to delete 2 branches? [y/N] ", output.String())
		})
	}
}

func TestLinePrompterSelectMany(testInstance *testing.T) {
	options := []ui.SelectOption{
		{Value: "feature-a", Label: "feature-a", Detail: "Add A"},
		{Value: "feature-b", Label: "feature-b"},
		{Value: "feature-c", Label: "feature-c", Detail: "Add C"},
	}

	testCases := []struct {
		name              string
		input             string
		expectedValues    []string
		expectedOutputBit string
	}{
		{name: "numbers_in_any_order", input: "3, 1\n", expectedValues: []string{"feature-a", "feature-c"}},
		{name: "all", input: "all\n", expectedValues: []string{"feature-a", "feature-b", "feature-c"}},
		{name: "empty", input: "\n", expectedValues: []string{}},
		{name: "invalid_tokens_ignored", input: "2 9 x\n", expectedValues: []string{"feature-b"}, expectedOutputBit: "Ignoring invalid selection \"9\""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			output := &bytes.Buffer{}
			prompter := ui.NewLinePrompter(strings.NewReader(testCase.input), output, ui.NewPalette(output))

			values, selectError := prompter.SelectMany("Select branches to delete", options)
			require.NoError(testInstance, selectError)
			require.Equal(testInstance, testCase.expectedValues, values)
			require.Contains(testInstance, output.String(), "Select branches to delete\n  1) feature-a  Add A\n  2) feature-b\n  3) feature-c  Add C\n")
			require.Contains(testInstance, output.String(), testCase.expectedOutputBit)
		})
	}
}
