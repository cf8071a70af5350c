// Package flags binds the shared branch command flags to Cobra commands.
package flags

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// VerboseFlagName exposes the shared verbose flag name.
	VerboseFlagName = "verbose"
	// VerboseFlagShorthand provides the shorthand for the verbose flag.
	VerboseFlagShorthand = "v"
	// VerboseFlagUsage describes the shared verbose flag purpose.
	VerboseFlagUsage = "Show upstream and last commit details"
	// AutoDeleteFlagName exposes the shared auto-delete flag name.
	AutoDeleteFlagName = "auto-delete"
	// AutoDeleteFlagUsage describes the shared auto-delete flag purpose.
	AutoDeleteFlagUsage = "Delete listed branches without asking for confirmation"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "List branches that would be deleted without deleting them"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Automatically confirm prompts"
	// ForceFlagName exposes the shared force flag name.
	ForceFlagName = "force"
	// ForceFlagUsage describes the shared force flag purpose.
	ForceFlagUsage = "Delete branches even when they are not fully merged"
)

// ExecutionFlagDefinition enables a flag and optionally replaces its usage text.
type ExecutionFlagDefinition struct {
	Enabled bool
	Usage   string
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	Verbose    ExecutionFlagDefinition
	AutoDelete ExecutionFlagDefinition
	DryRun     ExecutionFlagDefinition
	AssumeYes  ExecutionFlagDefinition
	Force      ExecutionFlagDefinition
}

// ExecutionFlagValues stores parsed execution flag values.
type ExecutionFlagValues struct {
	Verbose    bool
	AutoDelete bool
	DryRun     bool
	AssumeYes  bool
	Force      bool
}

// BindExecutionFlags attaches the enabled execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, definitions ExecutionFlagDefinitions) *ExecutionFlagValues {
	values := &ExecutionFlagValues{}
	if command == nil {
		return values
	}

	flagSet := command.Flags()
	bindBoolFlag(flagSet, &values.Verbose, VerboseFlagName, VerboseFlagShorthand, resolveUsage(definitions.Verbose, VerboseFlagUsage), definitions.Verbose.Enabled)
	bindBoolFlag(flagSet, &values.DryRun, DryRunFlagName, "", resolveUsage(definitions.DryRun, DryRunFlagUsage), definitions.DryRun.Enabled)
	bindBoolFlag(flagSet, &values.AssumeYes, AssumeYesFlagName, AssumeYesFlagShorthand, resolveUsage(definitions.AssumeYes, AssumeYesFlagUsage), definitions.AssumeYes.Enabled)
	bindBoolFlag(flagSet, &values.Force, ForceFlagName, "", resolveUsage(definitions.Force, ForceFlagUsage), definitions.Force.Enabled)
	if definitions.AutoDelete.Enabled {
		AddToggleFlag(flagSet, &values.AutoDelete, AutoDeleteFlagName, "", false, resolveUsage(definitions.AutoDelete, AutoDeleteFlagUsage))
	}

	return values
}

func bindBoolFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, usage string, enabled bool) {
	if flagSet == nil || !enabled {
		return
	}
	if flagSet.Lookup(name) != nil {
		return
	}

	if len(shorthand) > 0 {
		flagSet.BoolVarP(target, name, shorthand, false, usage)
		return
	}

	flagSet.BoolVar(target, name, false, usage)
}

func resolveUsage(definition ExecutionFlagDefinition, fallback string) string {
	if trimmed := strings.TrimSpace(definition.Usage); len(trimmed) > 0 {
		return trimmed
	}
	return fallback
}
