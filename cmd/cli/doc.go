// Package cli constructs the git-branch-cleaner command-line interface: the
// Cobra root command with its configuration and logging flags, and the branch
// listing and cleanup subcommands.
package cli
