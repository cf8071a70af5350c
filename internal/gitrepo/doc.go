// Package gitrepo is the gateway between git-branch-cleaner and git.
//
// Gateway lists local and remote-tracking branches with git for-each-ref and
// deletes them with git branch and git push, translating git's output into
// inventory values and classified OperationError failures. Locator resolves
// the working tree a command should operate on using go-git.
package gitrepo
