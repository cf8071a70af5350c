package branches

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/temirov/git-branch-cleaner/internal/inventory"
)

const (
	gatewayNotConfiguredMessageConstant = "branch gateway not configured"
	branchDeletedMessageConstant        = "branch deleted"
	branchSkippedMessageConstant        = "branch skipped"
	branchDeletionFailedMessageConstant = "branch deletion failed"
	logFieldBranchConstant              = "branch"
	logFieldForceConstant               = "force"
	logFieldRemoteConstant              = "remote"
	logFieldSkipReasonConstant          = "skip_reason"
)

// ErrGatewayNotConfigured indicates a workflow or service was created without a gateway.
var ErrGatewayNotConfigured = errors.New(gatewayNotConfiguredMessageConstant)

// BranchDeleter removes local and remote branches.
type BranchDeleter interface {
	DeleteLocal(executionContext context.Context, name string, force bool) error
	DeleteRemote(executionContext context.Context, remoteName string, qualifiedName string) error
}

// DeletionOutcome is the result category of one requested deletion.
type DeletionOutcome string

// Deletion outcomes.
const (
	OutcomeDeleted DeletionOutcome = DeletionOutcome("deleted")
	OutcomeSkipped DeletionOutcome = DeletionOutcome("skipped")
	OutcomeFailed  DeletionOutcome = DeletionOutcome("failed")
)

// SkipReason explains why a deletion was not attempted.
type SkipReason string

// SkipReasonProtected marks names the protection policy forbids deleting.
const SkipReasonProtected SkipReason = SkipReason("protected")

// DeletionResult records what happened to one requested name.
type DeletionResult struct {
	Name       string
	Outcome    DeletionOutcome
	SkipReason SkipReason
	Err        error
}

// DeletionSummary counts results by outcome.
type DeletionSummary struct {
	Deleted int
	Skipped int
	Failed  int
}

// DeletionWorkflow deletes branches one at a time, never touching protected names.
type DeletionWorkflow struct {
	logger  *zap.Logger
	deleter BranchDeleter
	policy  inventory.ProtectionPolicy
}

// NewDeletionWorkflow constructs a workflow; a nil logger disables logging.
func NewDeletionWorkflow(logger *zap.Logger, deleter BranchDeleter, policy inventory.ProtectionPolicy) (*DeletionWorkflow, error) {
	if deleter == nil {
		return nil, ErrGatewayNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeletionWorkflow{logger: logger, deleter: deleter, policy: policy}, nil
}

// ExecuteDeletion deletes local branches in order and returns one result per name, in the same positions.
// A failure is recorded and the remaining names are still processed.
func (workflow *DeletionWorkflow) ExecuteDeletion(executionContext context.Context, names []string, force bool) []DeletionResult {
	return workflow.execute(names, workflow.policy.IsProtected, func(name string) error {
		return workflow.deleter.DeleteLocal(executionContext, name, force)
	}, zap.Bool(logFieldForceConstant, force))
}

// ExecuteRemoteDeletion deletes remote-qualified branches on their remote, with the same guarantees as ExecuteDeletion.
func (workflow *DeletionWorkflow) ExecuteRemoteDeletion(executionContext context.Context, names []string) []DeletionResult {
	return workflow.execute(names, workflow.policy.IsProtectedRemote, func(name string) error {
		return workflow.deleter.DeleteRemote(executionContext, workflow.policy.RemoteName(), name)
	}, zap.String(logFieldRemoteConstant, workflow.policy.RemoteName()))
}

func (workflow *DeletionWorkflow) execute(names []string, isProtected func(string) bool, deleteBranch func(string) error, contextField zap.Field) []DeletionResult {
	results := make([]DeletionResult, 0, len(names))
	for _, name := range names {
		if isProtected(name) {
			workflow.logger.Info(branchSkippedMessageConstant, zap.String(logFieldBranchConstant, name), zap.String(logFieldSkipReasonConstant, string(SkipReasonProtected)), contextField)
			results = append(results, DeletionResult{Name: name, Outcome: OutcomeSkipped, SkipReason: SkipReasonProtected})
			continue
		}

		if deletionError := deleteBranch(name); deletionError != nil {
			workflow.logger.Warn(branchDeletionFailedMessageConstant, zap.String(logFieldBranchConstant, name), zap.Error(deletionError), contextField)
			results = append(results, DeletionResult{Name: name, Outcome: OutcomeFailed, Err: deletionError})
			continue
		}

		workflow.logger.Info(branchDeletedMessageConstant, zap.String(logFieldBranchConstant, name), contextField)
		results = append(results, DeletionResult{Name: name, Outcome: OutcomeDeleted})
	}
	return results
}

// Summarize counts deletion results by outcome.
func Summarize(results []DeletionResult) DeletionSummary {
	return DeletionSummary{
		Deleted: lo.CountBy(results, func(result DeletionResult) bool { return result.Outcome == OutcomeDeleted }),
		Skipped: lo.CountBy(results, func(result DeletionResult) bool { return result.Outcome == OutcomeSkipped }),
		Failed:  lo.CountBy(results, func(result DeletionResult) bool { return result.Outcome == OutcomeFailed }),
	}
}
