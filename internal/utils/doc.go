// Package utils holds the configuration loader, logger factory, and command
// context helpers shared by the CLI and the branch commands.
package utils
