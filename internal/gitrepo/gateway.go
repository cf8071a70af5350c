package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/git-branch-cleaner/internal/execshell"
	"github.com/temirov/git-branch-cleaner/internal/inventory"
)

const (
	gitForEachRefSubcommandConstant       = "for-each-ref"
	gitBranchSubcommandConstant           = "branch"
	gitPushSubcommandConstant             = "push"
	gitDeleteFlagConstant                 = "--delete"
	gitForceFlagConstant                  = "--force"
	gitMergedFlagConstant                 = "--merged"
	gitEndOfOptionsConstant               = "--"
	gitHeadReferenceConstant              = "HEAD"
	gitLocalBranchesNamespaceConstant     = "refs/heads"
	gitRemoteBranchesNamespaceConstant    = "refs/remotes"
	gitBranchListingFormatFlagConstant    = "--format=%(HEAD)%00%(refname:short)%00%(upstream:short)%00%(upstream:track)%00%(contents:subject)%00%(symref)"
	gitLocaleEnvironmentKeyConstant       = "LC_ALL"
	gitLocaleEnvironmentValueConstant     = "C"
	remoteSeparatorConstant               = "/"
	fetchFailedTemplateConstant           = "%w: %w"
	listingParseFailedTemplateConstant    = "%w: %w"
	missingRemoteComponentMessageConstant = "expected <remote>/<branch> for the given remote"
	executorNotConfiguredMessageConstant  = "git executor not configured"
)

// ErrExecutorNotConfigured indicates the gateway was created without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Gateway reads and mutates the branches of one repository.
type Gateway struct {
	executor       GitExecutor
	repositoryPath string
}

// NewGateway constructs a Gateway bound to repositoryPath.
func NewGateway(executor GitExecutor, repositoryPath string) (*Gateway, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Gateway{executor: executor, repositoryPath: repositoryPath}, nil
}

// RepositoryPath reports the working tree the gateway operates on.
func (gateway *Gateway) RepositoryPath() string {
	return gateway.repositoryPath
}

// FetchAllBranches lists every local branch.
func (gateway *Gateway) FetchAllBranches(executionContext context.Context) (inventory.Collection, error) {
	return gateway.listBranches(executionContext, gitLocalBranchesNamespaceConstant)
}

// FetchMergedBranches lists local branches whose tip is reachable from HEAD.
func (gateway *Gateway) FetchMergedBranches(executionContext context.Context) (inventory.Collection, error) {
	return gateway.listBranches(executionContext, gitMergedFlagConstant, gitHeadReferenceConstant, gitLocalBranchesNamespaceConstant)
}

// FetchRemoteBranches lists remote-tracking branches, skipping symbolic references such as origin/HEAD.
func (gateway *Gateway) FetchRemoteBranches(executionContext context.Context) (inventory.Collection, error) {
	collection, listingError := gateway.listBranches(executionContext, gitRemoteBranchesNamespaceConstant)
	if listingError != nil {
		return inventory.Collection{}, listingError
	}

	remoteBranches := collection.Branches()
	for index := range remoteBranches {
		remoteBranches[index].IsCurrent = false
		remoteBranches[index].UpstreamStatus = inventory.UpstreamStatusNone
		remoteBranches[index].Upstream = ""
	}
	return inventory.NewCollection(remoteBranches)
}

// DeleteLocal removes a local branch; force deletes unmerged work.
func (gateway *Gateway) DeleteLocal(executionContext context.Context, name string, force bool) error {
	arguments := []string{gitBranchSubcommandConstant, gitDeleteFlagConstant}
	if force {
		arguments = append(arguments, gitForceFlagConstant)
	}
	arguments = append(arguments, gitEndOfOptionsConstant, name)

	_, executionError := gateway.executor.ExecuteGit(executionContext, gateway.commandDetails(arguments))
	if executionError != nil {
		return newOperationError(OperationDeleteLocal, name, executionError)
	}
	return nil
}

// DeleteRemote removes a branch on remoteName, given its remote-qualified name such as origin/feature.
// Remote names may contain slashes, so the branch is whatever follows the remoteName prefix.
func (gateway *Gateway) DeleteRemote(executionContext context.Context, remoteName string, qualifiedName string) error {
	branchName, found := strings.CutPrefix(qualifiedName, remoteName+remoteSeparatorConstant)
	if len(remoteName) == 0 || !found || len(branchName) == 0 {
		return &OperationError{
			Operation: OperationDeleteRemote,
			Reference: qualifiedName,
			Reason:    ReasonOther,
			Err:       errors.New(missingRemoteComponentMessageConstant),
		}
	}

	arguments := []string{gitPushSubcommandConstant, remoteName, gitDeleteFlagConstant, branchName}
	_, executionError := gateway.executor.ExecuteGit(executionContext, gateway.commandDetails(arguments))
	if executionError != nil {
		return newOperationError(OperationDeleteRemote, qualifiedName, executionError)
	}
	return nil
}

func (gateway *Gateway) listBranches(executionContext context.Context, filterArguments ...string) (inventory.Collection, error) {
	arguments := append([]string{gitForEachRefSubcommandConstant, gitBranchListingFormatFlagConstant}, filterArguments...)

	executionResult, executionError := gateway.executor.ExecuteGit(executionContext, gateway.commandDetails(arguments))
	if executionError != nil {
		return inventory.Collection{}, fmt.Errorf(fetchFailedTemplateConstant, ErrFetchFailed, executionError)
	}

	collection, parseError := inventory.NewCollection(parseBranchListing(executionResult.StandardOutput))
	if parseError != nil {
		return inventory.Collection{}, fmt.Errorf(listingParseFailedTemplateConstant, ErrFetchFailed, parseError)
	}
	return collection, nil
}

func (gateway *Gateway) commandDetails(arguments []string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     gateway.repositoryPath,
		EnvironmentVariables: map[string]string{gitLocaleEnvironmentKeyConstant: gitLocaleEnvironmentValueConstant},
	}
}

func newOperationError(operation Operation, reference string, executionError error) error {
	standardError := executionError.Error()
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		standardError = commandFailure.Result.StandardError
	}
	return &OperationError{
		Operation: operation,
		Reference: reference,
		Reason:    classifyFailureReason(standardError),
		Err:       executionError,
	}
}
