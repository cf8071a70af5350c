package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	testToggleFlagNameConstant = "auto-delete-test"
)

func TestAddToggleFlagParsesValues(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "default_false", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "implicit_true", arguments: []string{"--" + testToggleFlagNameConstant}, expectedValue: true, expectedChanged: true},
		{name: "explicit_yes", arguments: []string{"--" + testToggleFlagNameConstant, "yes"}, expectedValue: true, expectedChanged: true},
		{name: "explicit_no_assignment", arguments: []string{"--" + testToggleFlagNameConstant + "=no"}, expectedValue: false, expectedChanged: true},
		{name: "explicit_false_uppercase", arguments: []string{"--" + testToggleFlagNameConstant, "FALSE"}, expectedValue: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, testToggleFlagNameConstant, "", false, "Toggle flag")

			parseError := command.ParseFlags(NormalizeToggleArguments(testCase.arguments))
			require.NoError(subTest, parseError)
			require.Equal(subTest, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup(testToggleFlagNameConstant)
			require.NotNil(subTest, flag)
			require.Equal(subTest, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsUnknownLiteral(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, testToggleFlagNameConstant, "", false, "Toggle flag")

	parseError := command.ParseFlags([]string{"--" + testToggleFlagNameConstant + "=maybe"})
	require.Error(testInstance, parseError)
}

func TestNormalizeToggleArgumentsLeavesPositionalArguments(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, testToggleFlagNameConstant, "", false, "")

	normalized := NormalizeToggleArguments([]string{"--" + testToggleFlagNameConstant, "feature", "--", "--" + testToggleFlagNameConstant, "no"})
	require.Equal(testInstance, []string{"--" + testToggleFlagNameConstant, "feature", "--", "--" + testToggleFlagNameConstant, "no"}, normalized)
}

func TestFormatToggleUsageHighlightsDefault(testInstance *testing.T) {
	require.Equal(testInstance, "`<yes|NO>` Delete", formatToggleUsage("Delete", false))
	require.Equal(testInstance, "`<YES|no>`", formatToggleUsage("  ", true))
}
