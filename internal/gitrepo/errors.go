package gitrepo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	fetchFailedMessageConstant           = "failed to read branches"
	branchNotFullyMergedMessageConstant  = "branch is not fully merged"
	branchNotFoundMessageConstant        = "branch not found"
	repositoryNotFoundMessageConstant    = "not a git repository"
	bareRepositoryMessageConstant        = "bare repositories have no working tree"
	operationErrorTemplateConstant       = "%s %s: %s"
	operationErrorWithCauseTemplate      = "%s %s: %s: %v"
	notFullyMergedMarkerConstant         = "not fully merged"
	notFoundMarkerConstant               = "not found"
	remoteReferenceMissingMarkerConstant = "remote ref does not exist"
)

// ErrFetchFailed indicates a branch listing could not be produced.
var ErrFetchFailed = errors.New(fetchFailedMessageConstant)

// ErrBranchNotFullyMerged indicates git refused a non-forced deletion of unmerged work.
var ErrBranchNotFullyMerged = errors.New(branchNotFullyMergedMessageConstant)

// ErrBranchNotFound indicates the branch to delete does not exist.
var ErrBranchNotFound = errors.New(branchNotFoundMessageConstant)

// ErrRepositoryNotFound indicates the path is not inside a git repository.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// ErrBareRepository indicates the repository has no working tree to operate on.
var ErrBareRepository = errors.New(bareRepositoryMessageConstant)

// Operation names the mutating action that failed.
type Operation string

// Mutating operations performed by the gateway.
const (
	OperationDeleteLocal  Operation = Operation("delete local branch")
	OperationDeleteRemote Operation = Operation("delete remote branch")
)

// FailureReason classifies why a deletion failed.
type FailureReason string

// Known failure reasons.
const (
	ReasonNotFullyMerged FailureReason = FailureReason("not fully merged")
	ReasonNotFound       FailureReason = FailureReason("not found")
	ReasonOther          FailureReason = FailureReason("other")
)

// OperationError describes a failed deletion of one reference.
type OperationError struct {
	Operation Operation
	Reference string
	Reason    FailureReason
	Err       error
}

// Error describes the failed operation.
func (operationError *OperationError) Error() string {
	if operationError.Err == nil {
		return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Reference, operationError.Reason)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplate, operationError.Operation, operationError.Reference, operationError.Reason, operationError.Err)
}

// Unwrap exposes the underlying execution failure.
func (operationError *OperationError) Unwrap() error {
	return operationError.Err
}

// Is matches the sentinel error corresponding to the failure reason.
func (operationError *OperationError) Is(target error) bool {
	switch operationError.Reason {
	case ReasonNotFullyMerged:
		return target == ErrBranchNotFullyMerged
	case ReasonNotFound:
		return target == ErrBranchNotFound
	default:
		return false
	}
}

func classifyFailureReason(standardError string) FailureReason {
	normalizedStandardError := strings.ToLower(standardError)
	switch {
	case strings.Contains(normalizedStandardError, notFullyMergedMarkerConstant):
		return ReasonNotFullyMerged
	case strings.Contains(normalizedStandardError, notFoundMarkerConstant),
		strings.Contains(normalizedStandardError, remoteReferenceMissingMarkerConstant):
		return ReasonNotFound
	default:
		return ReasonOther
	}
}
