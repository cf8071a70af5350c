package branches

import (
	"strings"

	"github.com/temirov/git-branch-cleaner/internal/inventory"
	pathutils "github.com/temirov/git-branch-cleaner/internal/utils/path"
)

const (
	remoteConfigurationKeyConstant     = "remote"
	repositoryConfigurationKeyConstant = "repository"
	configurationKeySeparatorConstant  = "."
)

// CommandConfiguration captures configuration values shared by the branch commands.
type CommandConfiguration struct {
	RemoteName     string `mapstructure:"remote"`
	RepositoryPath string `mapstructure:"repository"`
}

// DefaultCommandConfiguration provides baseline configuration values for the branch commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:     inventory.DefaultRemoteName,
		RepositoryPath: pathutils.CurrentDirectoryPath,
	}
}

// DefaultConfigurationValues returns the defaults keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, remoteConfigurationKeyConstant):     defaults.RemoteName,
		joinConfigurationKey(prefix, repositoryConfigurationKeyConstant): defaults.RepositoryPath,
	}
}

// sanitize trims values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:     strings.TrimSpace(configuration.RemoteName),
		RepositoryPath: strings.TrimSpace(configuration.RepositoryPath),
	}
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.Trim(strings.TrimSpace(prefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
