// Package branches implements the branch cleanup commands of git-branch-cleaner.
//
// Service runs one linear flow per command: fetch through the gateway,
// classify with the inventory package, show the candidates, confirm, delete
// through DeletionWorkflow, and report. CommandBuilder exposes the flows as
// Cobra commands.
package branches
