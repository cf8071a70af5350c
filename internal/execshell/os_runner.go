package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"

	"github.com/samber/lo"
)

const (
	environmentAssignmentSeparatorConstant = "="
)

// OSCommandRunner starts processes with os/exec and captures their output streams.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command in its working directory and waits for it.
// A non-zero exit status is reported through ExecutionResult.ExitCode with a nil error so the
// executor can classify it from standard error; only start and wait failures are returned as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), slices.Clone(command.Details.Arguments)...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = buildProcessEnvironment(command.Details.EnvironmentVariables)

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	process.Stdout = &standardOutput
	process.Stderr = &standardError
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	result := ExecutionResult{}
	runError := process.Run()
	var exitError *exec.ExitError
	switch {
	case runError == nil:
	case errors.As(runError, &exitError):
		result.ExitCode = exitError.ExitCode()
	default:
		return ExecutionResult{}, runError
	}

	result.StandardOutput = standardOutput.String()
	result.StandardError = standardError.String()
	return result, nil
}

// buildProcessEnvironment returns nil, meaning the inherited environment, when there are no overrides.
// Otherwise overrides are appended after the inherited entries in key order; os/exec keeps the last
// value of a duplicated key, so an override such as LC_ALL=C replaces the user's locale.
func buildProcessEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	overrideKeys := lo.Keys(overrides)
	slices.Sort(overrideKeys)

	environment := os.Environ()
	for _, overrideKey := range overrideKeys {
		environment = append(environment, overrideKey+environmentAssignmentSeparatorConstant+overrides[overrideKey])
	}
	return environment
}
