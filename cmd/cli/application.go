package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/git-branch-cleaner/internal/branches"
	"github.com/temirov/git-branch-cleaner/internal/utils"
	"github.com/temirov/git-branch-cleaner/internal/utils/flags"
	pathutils "github.com/temirov/git-branch-cleaner/internal/utils/path"
)

const (
	applicationNameConstant                 = "git-branch-cleaner"
	applicationShortDescriptionConstant     = "List and clean up local and remote git branches"
	applicationLongDescriptionConstant      = "git-branch-cleaner inventories the branches of a git repository, highlights merged and stale ones, and deletes them with confirmation. master and main are never deleted."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured diagnostic log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured diagnostic log format."
	repositoryFlagNameConstant              = "repository"
	repositoryFlagUsageConstant             = "Path inside the repository to operate on."
	remoteFlagNameConstant                  = "remote"
	remoteFlagUsageConstant                 = "Remote targeted by clean-remote and remote protection."
	initFlagNameConstant                    = "init"
	initFlagUsageConstant                   = "Write the default configuration to the user configuration directory."
	initForceFlagNameConstant               = "init-force"
	initForceFlagUsageConstant              = "Overwrite an existing configuration file when used with --init."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	branchesConfigurationKeyConstant        = "branches"
	environmentPrefixConstant               = "GITBRANCHCLEANER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationFileNameConstant           = configurationNameConstant + "." + configurationTypeConstant
	userConfigurationDirectoryNameConstant  = applicationNameConstant
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	configurationExistsTemplateConstant     = "%w: %s (use --init-force to overwrite)"
	configurationWriteErrorTemplateConstant = "unable to write configuration %s: %w"
	configurationWrittenTemplateConstant    = "Configuration written to %s\n"
	userConfigurationMissingMessageConstant = "user configuration directory unavailable"
	configurationExistsMessageConstant      = "configuration file already exists"
	rootCommandDebugMessageConstant         = "git-branch-cleaner CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentsConstant               = "arguments"
	developmentVersionConstant              = "dev"
	configurationDirectoryPermissions       = 0o755
	configurationFilePermissions            = 0o644
)

// ErrConfigurationExists indicates --init would overwrite an existing file.
var ErrConfigurationExists = errors.New(configurationExistsMessageConstant)

// ErrUserConfigurationUnavailable indicates the user configuration directory cannot be determined.
var ErrUserConfigurationUnavailable = errors.New(userConfigurationMissingMessageConstant)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration `mapstructure:"common"`
	Branches branches.CommandConfiguration  `mapstructure:"branches"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command to the configuration loader and the diagnostic logger.
type Application struct {
	rootCommand                    *cobra.Command
	configurationLoader            *utils.ConfigurationLoader
	loggerFactory                  *utils.LoggerFactory
	logger                         *zap.Logger
	configuration                  ApplicationConfiguration
	configurationMetadata          utils.LoadedConfiguration
	configurationFilePath          string
	userConfigurationDirectoryPath string
	logLevelFlagValue              string
	logFormatFlagValue             string
	repositoryFlagValue            string
	remoteFlagValue                string
	initFlagValue                  bool
	initForceFlagValue             bool
	homeExpander                   *pathutils.HomeExpander
	commandContextAccessor         utils.CommandContextAccessor
	buildError                     error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	userConfigurationDirectoryPath := resolveUserConfigurationDirectory()

	searchPaths := []string{}
	if len(userConfigurationDirectoryPath) > 0 {
		searchPaths = append(searchPaths, userConfigurationDirectoryPath)
	}

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		searchPaths,
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:            configurationLoader,
		loggerFactory:                  utils.NewLoggerFactory(),
		logger:                         zap.NewNop(),
		userConfigurationDirectoryPath: userConfigurationDirectoryPath,
		homeExpander:                   pathutils.NewHomeExpander(),
		commandContextAccessor:         utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogLevelError), utils.SupportedLogLevels(), logLevelFlagUsageConstant))
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagUsageConstant))
	persistentFlags.StringVar(&application.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	persistentFlags.StringVar(&application.remoteFlagValue, remoteFlagNameConstant, "", remoteFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.initFlagValue, initFlagNameConstant, false, initFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.initForceFlagValue, initForceFlagNameConstant, false, initForceFlagUsageConstant)

	branchBuilder := branches.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() branches.CommandConfiguration {
			return application.configuration.Branches
		},
	}
	branchCommands, branchBuildError := branchBuilder.Build()
	if branchBuildError != nil {
		application.buildError = branchBuildError
	}
	cobraCommand.AddCommand(branchCommands...)

	application.rootCommand = cobraCommand

	return application
}

// SetIO redirects the command input and output streams.
func (application *Application) SetIO(input io.Reader, output io.Writer, errorOutput io.Writer) {
	application.rootCommand.SetIn(input)
	application.rootCommand.SetOut(output)
	application.rootCommand.SetErr(errorOutput)
}

// ExecuteWithArguments runs the command hierarchy with the provided arguments and ensures logger flushing.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	if application.buildError != nil {
		return application.buildError
	}

	normalizedArguments := flags.NormalizeToggleArguments(arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute runs the command hierarchy with the process arguments.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range branches.DefaultConfigurationValues(branchesConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	configurationFilePath := application.homeExpander.Expand(application.configurationFilePath)
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, remoteFlagNameConstant) {
		application.configuration.Branches.RemoteName = application.remoteFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		if application.persistentFlagChanged(command, repositoryFlagNameConstant) {
			updatedContext = application.commandContextAccessor.WithRepositoryPath(updatedContext, application.repositoryFlagValue)
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if application.initFlagValue {
		return application.writeDefaultConfiguration(command.OutOrStdout())
	}

	return command.Help()
}

// writeDefaultConfiguration stores the embedded defaults as config.yaml in the user configuration directory.
func (application *Application) writeDefaultConfiguration(output io.Writer) error {
	if len(application.userConfigurationDirectoryPath) == 0 {
		return ErrUserConfigurationUnavailable
	}

	configurationPath := filepath.Join(application.userConfigurationDirectoryPath, configurationFileNameConstant)
	if _, statError := os.Stat(configurationPath); statError == nil && !application.initForceFlagValue {
		return fmt.Errorf(configurationExistsTemplateConstant, ErrConfigurationExists, configurationPath)
	}

	if mkdirError := os.MkdirAll(application.userConfigurationDirectoryPath, configurationDirectoryPermissions); mkdirError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, configurationPath, mkdirError)
	}

	configurationContent, _ := EmbeddedDefaultConfiguration()
	if writeError := os.WriteFile(configurationPath, configurationContent, configurationFilePermissions); writeError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, configurationPath, writeError)
	}

	_, _ = fmt.Fprintf(output, configurationWrittenTemplateConstant, configurationPath)
	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveUserConfigurationDirectory() string {
	userConfigurationBaseDirectory, directoryError := os.UserConfigDir()
	if directoryError != nil || len(userConfigurationBaseDirectory) == 0 {
		return ""
	}
	return filepath.Join(userConfigurationBaseDirectory, userConfigurationDirectoryNameConstant)
}

func resolveVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == "(devel)" {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
