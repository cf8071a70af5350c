// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with lifecycle logging and typed
// failures, OSCommandRunner runs processes through os/exec, and
// CommandMessageFormatter turns git invocations into human-readable
// messages. Branch listing and deletion in git-branch-cleaner go through
// these abstractions so they can be replaced in tests.
package execshell
