package branches

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/git-branch-cleaner/internal/execshell"
	"github.com/temirov/git-branch-cleaner/internal/gitrepo"
	"github.com/temirov/git-branch-cleaner/internal/inventory"
	"github.com/temirov/git-branch-cleaner/internal/ui"
	"github.com/temirov/git-branch-cleaner/internal/utils"
	"github.com/temirov/git-branch-cleaner/internal/utils/flags"
	pathutils "github.com/temirov/git-branch-cleaner/internal/utils/path"
)

const (
	listAllUseConstant                    = "list-all"
	listAllShortDescriptionConstant       = "List all local branches"
	listAllLongDescriptionConstant        = "list-all prints every local branch, marking the current branch and highlighting branches whose upstream is gone."
	cleanMergedUseConstant                = "clean-merged"
	cleanMergedShortDescriptionConstant   = "Delete local branches merged into HEAD"
	cleanMergedLongDescriptionConstant    = "clean-merged lists local branches merged into the current HEAD, excluding master, main, and the current branch, and deletes them after confirmation."
	listStaleUseConstant                  = "list-stale"
	listStaleShortDescriptionConstant     = "List branches whose upstream is gone"
	listStaleLongDescriptionConstant      = "list-stale prints local branches whose upstream branch no longer exists, excluding the current branch."
	cleanStaleUseConstant                 = "clean-stale"
	cleanStaleShortDescriptionConstant    = "Delete branches whose upstream is gone"
	cleanStaleLongDescriptionConstant     = "clean-stale lists local branches whose upstream branch no longer exists and deletes them after confirmation. Use --force for branches that were squash-merged."
	deleteUseConstant                     = "delete [branch...]"
	deleteShortDescriptionConstant        = "Delete named branches or pick them interactively"
	deleteLongDescriptionConstant         = "delete removes the named local branches. Without names it offers every deletable branch for selection and asks for confirmation."
	cleanRemoteUseConstant                = "clean-remote"
	cleanRemoteShortDescriptionConstant   = "Delete branches on the remote"
	cleanRemoteLongDescriptionConstant    = "clean-remote lists remote-tracking branches of the configured remote, excluding master and main, and deletes them on the remote after confirmation."
	deleteForceUsageConstant              = "Delete branches even when they are not fully merged"
	cleanStaleForceUsageConstant          = "Delete stale branches even when they are not fully merged"
	repositoryLocateErrorTemplateConstant = "unable to open repository %s: %w"
	commandStartedMessageConstant         = "branch command started"
	logFieldCommandConstant               = "command"
	logFieldRepositoryConstant            = "repository"
	logFieldConfigurationFileConstant     = "config_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the branch command configuration.
type ConfigurationProvider func() CommandConfiguration

// InteractionProvider builds the interaction surface for a running command.
type InteractionProvider func(command *cobra.Command) Interaction

// RepositoryLocator resolves a path inside a working tree to the working tree root.
type RepositoryLocator interface {
	Locate(path string) (string, error)
}

type commandRunner func(service *Service, executionContext context.Context, values flags.ExecutionFlagValues, arguments []string) error

type commandDefinition struct {
	use             string
	short           string
	long            string
	arguments       cobra.PositionalArgs
	flagDefinitions flags.ExecutionFlagDefinitions
	run             commandRunner
}

// CommandBuilder assembles the Cobra commands for branch listing and cleanup.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Executor              gitrepo.GitExecutor
	Locator               RepositoryLocator
	InteractionProvider   InteractionProvider
}

// Build constructs list-all, clean-merged, list-stale, clean-stale, delete, and clean-remote.
func (builder *CommandBuilder) Build() ([]*cobra.Command, error) {
	enabled := flags.ExecutionFlagDefinition{Enabled: true}

	definitions := []commandDefinition{
		{
			use:       listAllUseConstant,
			short:     listAllShortDescriptionConstant,
			long:      listAllLongDescriptionConstant,
			arguments: cobra.NoArgs,
			run: func(service *Service, executionContext context.Context, _ flags.ExecutionFlagValues, _ []string) error {
				return service.ListAll(executionContext)
			},
		},
		{
			use:             cleanMergedUseConstant,
			short:           cleanMergedShortDescriptionConstant,
			long:            cleanMergedLongDescriptionConstant,
			arguments:       cobra.NoArgs,
			flagDefinitions: flags.ExecutionFlagDefinitions{Verbose: enabled, AutoDelete: enabled, DryRun: enabled, AssumeYes: enabled},
			run: func(service *Service, executionContext context.Context, values flags.ExecutionFlagValues, _ []string) error {
				return service.CleanMerged(executionContext, buildCleanupOptions(values))
			},
		},
		{
			use:             listStaleUseConstant,
			short:           listStaleShortDescriptionConstant,
			long:            listStaleLongDescriptionConstant,
			arguments:       cobra.NoArgs,
			flagDefinitions: flags.ExecutionFlagDefinitions{Verbose: enabled},
			run: func(service *Service, executionContext context.Context, values flags.ExecutionFlagValues, _ []string) error {
				return service.ListStale(executionContext, ListOptions{Verbose: values.Verbose})
			},
		},
		{
			use:       cleanStaleUseConstant,
			short:     cleanStaleShortDescriptionConstant,
			long:      cleanStaleLongDescriptionConstant,
			arguments: cobra.NoArgs,
			flagDefinitions: flags.ExecutionFlagDefinitions{
				Verbose:    enabled,
				AutoDelete: enabled,
				DryRun:     enabled,
				AssumeYes:  enabled,
				Force:      flags.ExecutionFlagDefinition{Enabled: true, Usage: cleanStaleForceUsageConstant},
			},
			run: func(service *Service, executionContext context.Context, values flags.ExecutionFlagValues, _ []string) error {
				return service.CleanStale(executionContext, buildCleanupOptions(values))
			},
		},
		{
			use:       deleteUseConstant,
			short:     deleteShortDescriptionConstant,
			long:      deleteLongDescriptionConstant,
			arguments: cobra.ArbitraryArgs,
			flagDefinitions: flags.ExecutionFlagDefinitions{
				DryRun:    enabled,
				AssumeYes: enabled,
				Force:     flags.ExecutionFlagDefinition{Enabled: true, Usage: deleteForceUsageConstant},
			},
			run: func(service *Service, executionContext context.Context, values flags.ExecutionFlagValues, arguments []string) error {
				return service.Delete(executionContext, DeleteOptions{
					Names:     arguments,
					Force:     values.Force,
					DryRun:    values.DryRun,
					AssumeYes: values.AssumeYes,
				})
			},
		},
		{
			use:             cleanRemoteUseConstant,
			short:           cleanRemoteShortDescriptionConstant,
			long:            cleanRemoteLongDescriptionConstant,
			arguments:       cobra.NoArgs,
			flagDefinitions: flags.ExecutionFlagDefinitions{Verbose: enabled, AutoDelete: enabled, DryRun: enabled, AssumeYes: enabled},
			run: func(service *Service, executionContext context.Context, values flags.ExecutionFlagValues, _ []string) error {
				return service.CleanRemote(executionContext, buildCleanupOptions(values))
			},
		},
	}

	commands := make([]*cobra.Command, 0, len(definitions))
	for _, definition := range definitions {
		commands = append(commands, builder.buildCommand(definition))
	}
	return commands, nil
}

func (builder *CommandBuilder) buildCommand(definition commandDefinition) *cobra.Command {
	command := &cobra.Command{
		Use:   definition.use,
		Short: definition.short,
		Long:  definition.long,
		Args:  definition.arguments,
	}

	values := flags.BindExecutionFlags(command, definition.flagDefinitions)
	command.RunE = func(command *cobra.Command, arguments []string) error {
		service, serviceError := builder.buildService(command)
		if serviceError != nil {
			return serviceError
		}
		return definition.run(service, command.Context(), *values, arguments)
	}

	return command
}

func (builder *CommandBuilder) buildService(command *cobra.Command) (*Service, error) {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	contextAccessor := utils.NewCommandContextAccessor()
	repositoryPath := configuration.RepositoryPath
	if requestedPath, requested := contextAccessor.RepositoryPath(command.Context()); requested {
		repositoryPath = requestedPath
	}
	repositoryPath = pathutils.NewRepositoryPathSanitizer().Sanitize(repositoryPath)

	repositoryRoot, locateError := builder.resolveLocator().Locate(repositoryPath)
	if locateError != nil {
		return nil, fmt.Errorf(repositoryLocateErrorTemplateConstant, repositoryPath, locateError)
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}

	gateway, gatewayError := gitrepo.NewGateway(executor, repositoryRoot)
	if gatewayError != nil {
		return nil, gatewayError
	}

	configurationFilePath, _ := contextAccessor.ConfigurationFilePath(command.Context())
	logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, command.Name()),
		zap.String(logFieldRepositoryConstant, gateway.RepositoryPath()),
		zap.String(logFieldConfigurationFileConstant, configurationFilePath),
	)

	return NewService(logger, gateway, builder.resolveInteraction(command), inventory.NewProtectionPolicy(configuration.RemoteName))
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLocator() RepositoryLocator {
	if builder.Locator != nil {
		return builder.Locator
	}
	return gitrepo.NewLocator()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveInteraction(command *cobra.Command) Interaction {
	if builder.InteractionProvider != nil {
		if interaction := builder.InteractionProvider(command); interaction != nil {
			return interaction
		}
	}
	return ui.NewConsole(command.InOrStdin(), command.OutOrStdout())
}

func buildCleanupOptions(values flags.ExecutionFlagValues) CleanupOptions {
	return CleanupOptions{
		Verbose:    values.Verbose,
		AutoDelete: values.AutoDelete,
		DryRun:     values.DryRun,
		AssumeYes:  values.AssumeYes,
		Force:      values.Force,
	}
}
