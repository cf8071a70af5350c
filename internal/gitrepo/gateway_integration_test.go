package gitrepo_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/git-branch-cleaner/internal/execshell"
	"github.com/temirov/git-branch-cleaner/internal/gitrepo"
	"github.com/temirov/git-branch-cleaner/internal/inventory"
)

func runGit(testInstance *testing.T, workingDirectory string, arguments ...string) {
	testInstance.Helper()
	command := exec.Command("git", arguments...)
	command.Dir = workingDirectory
	command.Env = append(command.Environ(),
		"GIT_AUTHOR_NAME=Test Author",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test Author",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_NOSYSTEM=1",
		"HOME="+workingDirectory,
	)
	output, runError := command.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
}

func TestGatewayAgainstRealRepository(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	workspace := testInstance.TempDir()
	remoteDirectory := filepath.Join(workspace, "remote.git")
	repositoryDirectory := filepath.Join(workspace, "repository")

	runGit(testInstance, workspace, "init", "--bare", remoteDirectory)
	runGit(testInstance, workspace, "init", repositoryDirectory)
	runGit(testInstance, repositoryDirectory, "symbolic-ref", "HEAD", "refs/heads/main")
	runGit(testInstance, repositoryDirectory, "commit", "--allow-empty", "-m", "Initial commit")
	runGit(testInstance, repositoryDirectory, "remote", "add", "origin", remoteDirectory)
	runGit(testInstance, repositoryDirectory, "push", "--set-upstream", "origin", "main")
	runGit(testInstance, repositoryDirectory, "branch", "merged-feature")
	runGit(testInstance, repositoryDirectory, "branch", "old")
	runGit(testInstance, repositoryDirectory, "push", "--set-upstream", "origin", "old")
	runGit(testInstance, repositoryDirectory, "push", "origin", "--delete", "old")
	runGit(testInstance, repositoryDirectory, "checkout", "-b", "unmerged")
	runGit(testInstance, repositoryDirectory, "commit", "--allow-empty", "-m", "Unmerged work")
	runGit(testInstance, repositoryDirectory, "push", "origin", "unmerged")
	runGit(testInstance, repositoryDirectory, "checkout", "main")

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	gateway, gatewayError := gitrepo.NewGateway(shellExecutor, repositoryDirectory)
	require.NoError(testInstance, gatewayError)
	executionContext := context.Background()

	allBranches, fetchError := gateway.FetchAllBranches(executionContext)
	require.NoError(testInstance, fetchError)
	require.ElementsMatch(testInstance, []string{"main", "merged-feature", "old", "unmerged"}, inventory.Names(allBranches.Branches()))
	require.Equal(testInstance, "main", allBranches.CurrentName())
	oldBranch, found := allBranches.Lookup("old")
	require.True(testInstance, found)
	require.Equal(testInstance, inventory.UpstreamStatusGone, oldBranch.UpstreamStatus)
	mainBranch, _ := allBranches.Lookup("main")
	require.Equal(testInstance, inventory.UpstreamStatusTracking, mainBranch.UpstreamStatus)
	require.Equal(testInstance, "Initial commit", mainBranch.LastCommitSummary)

	mergedBranches, mergedError := gateway.FetchMergedBranches(executionContext)
	require.NoError(testInstance, mergedError)
	require.ElementsMatch(testInstance, []string{"main", "merged-feature", "old"}, inventory.Names(mergedBranches.Branches()))

	remoteBranches, remoteError := gateway.FetchRemoteBranches(executionContext)
	require.NoError(testInstance, remoteError)
	require.ElementsMatch(testInstance, []string{"origin/main", "origin/unmerged"}, inventory.Names(remoteBranches.Branches()))

	require.ErrorIs(testInstance, gateway.DeleteLocal(executionContext, "unmerged", false), gitrepo.ErrBranchNotFullyMerged)
	require.ErrorIs(testInstance, gateway.DeleteLocal(executionContext, "missing", false), gitrepo.ErrBranchNotFound)
	require.NoError(testInstance, gateway.DeleteLocal(executionContext, "merged-feature", false))
	require.NoError(testInstance, gateway.DeleteLocal(executionContext, "unmerged", true))
	require.NoError(testInstance, gateway.DeleteRemote(executionContext, "origin", "origin/unmerged"))

	remainingBranches, remainingError := gateway.FetchAllBranches(executionContext)
	require.NoError(testInstance, remainingError)
	require.ElementsMatch(testInstance, []string{"main", "old"}, inventory.Names(remainingBranches.Branches()))

	remainingRemoteBranches, remainingRemoteError := gateway.FetchRemoteBranches(executionContext)
	require.NoError(testInstance, remainingRemoteError)
	require.Equal(testInstance, []string{"origin/main"}, inventory.Names(remainingRemoteBranches.Branches()))
}
